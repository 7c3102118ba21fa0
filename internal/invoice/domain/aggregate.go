package domain

import (
	"context"

	"github.com/dkugroup/resortops/internal/category"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/shopspring/decimal"
)

// LineDraft is a computed line item before persistence.
type LineDraft struct {
	Category       category.AssetCategory
	NetRevenue     decimal.Decimal
	OperatorPct    decimal.Decimal
	ResortPct      decimal.Decimal
	OperatorAmount decimal.Decimal
	ResortAmount   decimal.Decimal
	ConfigFallback bool
	RecordCount    int64
}

// Totals are running sums over the emitted line drafts. They are built
// from the exact values placed on the lines, so sum(lines) == totals
// holds by construction, not within a tolerance.
type Totals struct {
	TotalRevenue  decimal.Decimal
	OperatorShare decimal.Decimal
	ResortShare   decimal.Decimal
}

// ResolveSplitFunc resolves the profit split for one category of the
// invoice's resort.
type ResolveSplitFunc func(ctx context.Context, cat category.AssetCategory) (sharingdomain.Split, error)

// Aggregate decomposes every record, groups net amounts by category and
// applies the resolved split once per category against the summed net,
// so rounding happens once per line, not once per record. Categories with
// no matching record produce no line. Line order follows the fixed
// category order, which makes repeated runs over the same ledger
// byte-identical.
//
// Returns ErrEmptyResult when no line would be produced.
func Aggregate(ctx context.Context, records []revenuedomain.RevenueRecord, resolve ResolveSplitFunc) ([]LineDraft, Totals, error) {
	type group struct {
		net   decimal.Decimal
		count int64
	}
	groups := make(map[category.AssetCategory]*group, len(category.All))

	for _, record := range records {
		breakdown, err := revenuedomain.Decompose(record.GrossAmount, record.Discount, record.Tax)
		if err != nil {
			return nil, Totals{}, err
		}
		g, ok := groups[record.Category]
		if !ok {
			g = &group{net: decimal.Zero}
			groups[record.Category] = g
		}
		g.net = g.net.Add(breakdown.NetAmount)
		g.count++
	}

	if len(groups) == 0 {
		return nil, Totals{}, ErrEmptyResult
	}

	lines := make([]LineDraft, 0, len(groups))
	totals := Totals{
		TotalRevenue:  decimal.Zero,
		OperatorShare: decimal.Zero,
		ResortShare:   decimal.Zero,
	}

	for _, cat := range category.All {
		g, ok := groups[cat]
		if !ok {
			continue
		}

		split, err := resolve(ctx, cat)
		if err != nil {
			return nil, Totals{}, err
		}

		operatorAmount, resortAmount := split.Apply(g.net)
		lines = append(lines, LineDraft{
			Category:       cat,
			NetRevenue:     g.net,
			OperatorPct:    split.OperatorPct,
			ResortPct:      split.ResortPct,
			OperatorAmount: operatorAmount,
			ResortAmount:   resortAmount,
			ConfigFallback: split.Fallback,
			RecordCount:    g.count,
		})

		totals.TotalRevenue = totals.TotalRevenue.Add(g.net)
		totals.OperatorShare = totals.OperatorShare.Add(operatorAmount)
		totals.ResortShare = totals.ResortShare.Add(resortAmount)
	}

	return lines, totals, nil
}
