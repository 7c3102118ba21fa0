package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Breakdown is the result of backing discount and tax out of a gross,
// inclusive booking amount.
type Breakdown struct {
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	DiscountPctEquiv    decimal.Decimal `json:"discount_pct_equiv"`
	AmountAfterDiscount decimal.Decimal `json:"amount_after_discount"`
	TaxAmount           decimal.Decimal `json:"tax_amount"`
	TaxPctEquiv         decimal.Decimal `json:"tax_pct_equiv"`
	NetAmount           decimal.Decimal `json:"net_amount"`
}

// Decompose backs the discount and tax/service components out of gross.
// The stored amount is inclusive: for a percentage rate r the gross is
// treated as (1+r)×base, so the component equals gross/(1+r)×r. The tax
// component is computed against the amount after discount, not the
// original gross.
//
// The net amount is not clamped; miscalibrated specs may legitimately
// produce a negative net, which callers surface as a warning.
func Decompose(gross decimal.Decimal, discount, tax AdjustmentSpec) (Breakdown, error) {
	if gross.IsNegative() {
		return Breakdown{}, ErrInvalidAmount
	}

	discountAmount, discountPct, err := backOut(gross, discount)
	if err != nil {
		return Breakdown{}, err
	}

	afterDiscount := gross.Sub(discountAmount)

	taxAmount, taxPct, err := backOut(afterDiscount, tax)
	if err != nil {
		return Breakdown{}, err
	}

	return Breakdown{
		DiscountAmount:      discountAmount,
		DiscountPctEquiv:    discountPct,
		AmountAfterDiscount: afterDiscount,
		TaxAmount:           taxAmount,
		TaxPctEquiv:         taxPct,
		NetAmount:           afterDiscount.Sub(taxAmount),
	}, nil
}

// backOut extracts one inclusive component from base. It returns the
// component amount rounded to 2 decimal places and the percentage
// equivalent used for audit display.
func backOut(base decimal.Decimal, spec AdjustmentSpec) (amount, pctEquiv decimal.Decimal, err error) {
	if spec.IsZero() {
		return decimal.Zero, decimal.Zero, nil
	}

	switch spec.Type {
	case AdjustmentPercentage:
		rate := spec.Value.Div(hundred)
		divisor := decimal.NewFromInt(1).Add(rate)
		if divisor.IsZero() {
			// r = -100% makes the inclusive formula divide by zero.
			return decimal.Zero, decimal.Zero, ErrInvalidRate
		}
		amount = base.Div(divisor).Mul(rate).Round(2)
		return amount, spec.Value, nil

	case AdjustmentFixed:
		if spec.Value.IsNegative() {
			return decimal.Zero, decimal.Zero, ErrInvalidAmount
		}
		if spec.Value.GreaterThan(base) {
			return decimal.Zero, decimal.Zero, ErrAdjustmentExceedsBase
		}
		amount = spec.Value.Round(2)
		if base.IsZero() {
			return amount, decimal.Zero, nil
		}
		pctEquiv = amount.Div(base).Mul(hundred).Round(2)
		return amount, pctEquiv, nil

	default:
		return decimal.Zero, decimal.Zero, ErrInvalidAdjustmentType
	}
}
