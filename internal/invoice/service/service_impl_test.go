package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	"github.com/dkugroup/resortops/internal/invoice/format"
	"github.com/dkugroup/resortops/internal/migration"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/dkugroup/resortops/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubDirectory struct {
	resorts map[snowflake.ID]*resortdomain.Resort
}

func (d *stubDirectory) GetResort(_ context.Context, id snowflake.ID) (*resortdomain.Resort, error) {
	return d.resorts[id], nil
}

type stubResolver struct {
	splits map[category.AssetCategory]sharingdomain.Split
}

func (r *stubResolver) Resolve(_ context.Context, _ snowflake.ID, cat category.AssetCategory) (sharingdomain.Split, error) {
	if split, ok := r.splits[cat]; ok {
		return split, nil
	}
	return sharingdomain.FallbackSplit(), nil
}

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	svc      *Service
	resortID snowflake.ID
	resolver *stubResolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	assert.NoError(t, migration.AutoMigrate(gdb))

	node, err := snowflake.NewNode(1)
	assert.NoError(t, err)

	resortID := node.Generate()
	directory := &stubDirectory{resorts: map[snowflake.ID]*resortdomain.Resort{
		resortID: {ID: resortID, Name: "Sunset Cove"},
	}}
	resolver := &stubResolver{splits: map[category.AssetCategory]sharingdomain.Split{}}

	svc := NewService(ServiceParam{
		DB:       gdb,
		Log:      zap.NewNop(),
		GenID:    node,
		Resorts:  directory,
		Resolver: resolver,
	}).(*Service)

	return &fixture{db: gdb, node: node, svc: svc, resortID: resortID, resolver: resolver}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) seedRecord(t *testing.T, cat category.AssetCategory, day int, gross string) {
	t.Helper()
	now := time.Now().UTC()
	record := revenuedomain.RevenueRecord{
		ID:          f.node.Generate(),
		ResortID:    f.resortID,
		Category:    cat,
		BookingDate: time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		GrossAmount: dec(gross),
		RecordedBy:  "ops",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	assert.NoError(t, f.db.Create(&record).Error)
}

func generateRequest(resortID snowflake.ID) invoicedomain.GenerateRequest {
	return invoicedomain.GenerateRequest{
		ResortID:    resortID.String(),
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
		GeneratedBy: "finance@dku.example",
	}
}

func TestGenerate(t *testing.T) {
	f := newFixture(t)
	f.resolver.splits[category.ATV] = sharingdomain.Split{OperatorPct: dec("60"), ResortPct: dec("40")}
	f.seedRecord(t, category.ATV, 10, "100")
	f.seedRecord(t, category.ATV, 12, "300")
	f.seedRecord(t, category.Villa, 20, "2000")

	result, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	invoice := result.Invoice
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Equal(t, format.InvoiceNumber(time.Now().UTC(), 1), invoice.InvoiceNumber)
	assert.Equal(t, "finance@dku.example", invoice.GeneratedBy)
	// The number's month prefix and the row timestamps come from one
	// clock read, so they agree even at a month boundary.
	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, format.MonthPrefix(invoice.CreatedAt)))

	assert.Len(t, result.LineItems, 2)

	atv := result.LineItems[0]
	assert.Equal(t, "ATV", atv.Category)
	assert.True(t, atv.NetRevenue.Equal(dec("400")))
	assert.True(t, atv.OperatorAmount.Equal(dec("240")))
	assert.True(t, atv.ResortAmount.Equal(dec("160")))
	assert.False(t, atv.ConfigFallback)
	assert.Equal(t, int64(2), atv.RecordCount)

	// No config for VILLA: the 70/30 fallback is applied and flagged.
	villa := result.LineItems[1]
	assert.Equal(t, "VILLA", villa.Category)
	assert.True(t, villa.ConfigFallback)
	assert.True(t, villa.OperatorAmount.Equal(dec("1400")))
	assert.True(t, villa.ResortAmount.Equal(dec("600")))

	assert.True(t, invoice.TotalRevenue.Equal(dec("2400")))
	assert.True(t, invoice.OperatorShare.Equal(dec("1640")))
	assert.True(t, invoice.ResortShare.Equal(dec("760")))
}

func TestGenerate_NumberContinuesMonthSequence(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.Spa, 5, "100")

	now := time.Now().UTC()
	existing := invoicedomain.Invoice{
		ID:            f.node.Generate(),
		ResortID:      f.resortID,
		InvoiceNumber: format.InvoiceNumber(now, 7),
		PeriodStart:   now,
		PeriodEnd:     now,
		TotalRevenue:  dec("0"),
		OperatorShare: dec("0"),
		ResortShare:   dec("0"),
		Status:        invoicedomain.InvoiceStatusDraft,
		GeneratedBy:   "system",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	assert.NoError(t, f.db.Create(&existing).Error)

	result, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	assert.Equal(t, format.InvoiceNumber(now, 8), result.Invoice.InvoiceNumber)
}

// plantRival registers a create callback that inserts a rival invoice
// carrying the same freshly allocated number, inside the same transaction,
// just before the service's own insert. oneShot limits it to the first
// attempt; otherwise it fires on every attempt. Returns the attempt counter.
func plantRival(t *testing.T, f *fixture, oneShot bool) *int {
	t.Helper()

	attempts := 0
	inRival := false
	err := f.db.Callback().Create().Before("gorm:create").Register("rival_invoice", func(tx *gorm.DB) {
		if inRival {
			return
		}
		invoice, ok := tx.Statement.Dest.(*invoicedomain.Invoice)
		if !ok {
			return
		}
		if oneShot && attempts > 0 {
			return
		}
		attempts++
		inRival = true
		defer func() { inRival = false }()

		now := time.Now().UTC()
		rival := invoicedomain.Invoice{
			ID:            f.node.Generate(),
			ResortID:      f.resortID,
			InvoiceNumber: invoice.InvoiceNumber,
			PeriodStart:   now,
			PeriodEnd:     now,
			TotalRevenue:  dec("0"),
			OperatorShare: dec("0"),
			ResortShare:   dec("0"),
			Status:        invoicedomain.InvoiceStatusDraft,
			GeneratedBy:   "rival",
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		assert.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	assert.NoError(t, err)
	return &attempts
}

func TestGenerate_RetriesAfterNumberConflict(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")
	attempts := plantRival(t, f, true)

	// First attempt hits the unique index on invoice_number, rolls back
	// and re-reads the month sequence; the second attempt wins.
	result, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	assert.Equal(t, 1, *attempts)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, result.Invoice.Status)
	assert.True(t, result.Invoice.TotalRevenue.Equal(dec("100")))

	var count int64
	assert.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGenerate_AllocationConflictAfterExhaustedRetries(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")
	attempts := plantRival(t, f, false)

	_, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.ErrorIs(t, err, invoicedomain.ErrAllocationConflict)
	assert.Equal(t, 3, *attempts)

	// Every attempt rolled back; nothing half-written survives.
	var count int64
	assert.NoError(t, f.db.Model(&invoicedomain.Invoice{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGenerate_SequenceScopedToMonth(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.Spa, 5, "100")

	// A high sequence from a past month must not leak into this month.
	now := time.Now().UTC()
	lastMonth := time.Date(2020, time.June, 1, 0, 0, 0, 0, time.UTC)
	existing := invoicedomain.Invoice{
		ID:            f.node.Generate(),
		ResortID:      f.resortID,
		InvoiceNumber: format.InvoiceNumber(lastMonth, 42),
		PeriodStart:   lastMonth,
		PeriodEnd:     lastMonth,
		TotalRevenue:  dec("0"),
		OperatorShare: dec("0"),
		ResortShare:   dec("0"),
		Status:        invoicedomain.InvoiceStatusPaid,
		GeneratedBy:   "system",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	assert.NoError(t, f.db.Create(&existing).Error)

	result, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	assert.Equal(t, format.InvoiceNumber(now, 1), result.Invoice.InvoiceNumber)
}

func TestGenerate_EmptyPeriod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.ErrorIs(t, err, invoicedomain.ErrEmptyResult)
}

func TestGenerate_UnknownResort(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Generate(context.Background(), generateRequest(f.node.Generate()))
	assert.ErrorIs(t, err, invoicedomain.ErrResortNotFound)
}

func TestGenerate_InvalidInput(t *testing.T) {
	f := newFixture(t)

	req := generateRequest(f.resortID)
	req.ResortID = "xyz"
	_, err := f.svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidResort)

	req = generateRequest(f.resortID)
	req.PeriodEnd = req.PeriodStart.AddDate(0, 0, -1)
	_, err = f.svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidPeriod)

	req = generateRequest(f.resortID)
	req.Categories = []string{"SUBMARINE"}
	_, err = f.svc.Generate(context.Background(), req)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidCategory)
}

func TestGenerate_CategorySubset(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")
	f.seedRecord(t, category.Villa, 11, "200")

	req := generateRequest(f.resortID)
	req.Categories = []string{"villa"}

	result, err := f.svc.Generate(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, result.LineItems, 1)
	assert.Equal(t, "VILLA", result.LineItems[0].Category)
	assert.True(t, result.Invoice.TotalRevenue.Equal(dec("200")))
}

func TestRecompute(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	first, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	assert.True(t, first.Invoice.TotalRevenue.Equal(dec("100")))

	// A record arrives after generation; the draft picks it up on recompute.
	f.seedRecord(t, category.ATV, 15, "50")

	recomputed, err := f.svc.Recompute(context.Background(), first.Invoice.ID, invoicedomain.RecomputeRequest{
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)

	assert.Equal(t, first.Invoice.ID, recomputed.Invoice.ID)
	assert.Equal(t, first.Invoice.InvoiceNumber, recomputed.Invoice.InvoiceNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusDraft, recomputed.Invoice.Status)
	assert.True(t, recomputed.Invoice.TotalRevenue.Equal(dec("150")))
	assert.Len(t, recomputed.LineItems, 1)
	assert.Equal(t, int64(2), recomputed.LineItems[0].RecordCount)

	// Old line items are gone, not orphaned.
	var count int64
	assert.NoError(t, f.db.Model(&invoicedomain.InvoiceLineItem{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecompute_NonDraftRejected(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.NoError(t, err)

	_, err = f.svc.Recompute(context.Background(), generated.Invoice.ID, invoicedomain.RecomputeRequest{
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotDraft)
}

func TestRecompute_Unknown(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Recompute(context.Background(), f.node.Generate().String(), invoicedomain.RecomputeRequest{
		PeriodStart: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestAdvanceStatus(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	sent, err := f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, sent.Invoice.Status)
	assert.NotNil(t, sent.Invoice.SentAt)
	assert.Nil(t, sent.Invoice.PaidAt)

	paid, err := f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, paid.Invoice.Status)
	assert.NotNil(t, paid.Invoice.PaidAt)
}

func TestAdvanceStatus_SkipRejected(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	// DRAFT may only advance to SENT.
	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusPaid)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)

	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusDraft)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)

	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, "SHIPPED")
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidStatus)
}

func TestAdvanceStatus_TerminalState(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.NoError(t, err)
	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusPaid)
	assert.NoError(t, err)

	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.ErrorIs(t, err, invoicedomain.ErrInvalidTransition)
}

func TestGetWithLineItems(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.Spa, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	fetched, err := f.svc.GetWithLineItems(context.Background(), generated.Invoice.ID)
	assert.NoError(t, err)
	assert.Equal(t, generated.Invoice.InvoiceNumber, fetched.Invoice.InvoiceNumber)
	assert.Len(t, fetched.LineItems, 1)

	_, err = f.svc.GetWithLineItems(context.Background(), f.node.Generate().String())
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.NoError(t, err)

	all, info, err := f.svc.List(context.Background(), invoicedomain.ListRequest{ResortID: f.resortID.String()})
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.False(t, info.HasMore)
	assert.Equal(t, 1, info.Page)

	sent, _, err := f.svc.List(context.Background(), invoicedomain.ListRequest{Status: "sent"})
	assert.NoError(t, err)
	assert.Len(t, sent, 1)

	paid, _, err := f.svc.List(context.Background(), invoicedomain.ListRequest{Status: "PAID"})
	assert.NoError(t, err)
	assert.Len(t, paid, 0)
}

func TestList_Pagination(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	for i := 0; i < 3; i++ {
		_, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
		assert.NoError(t, err)
	}

	first, info, err := f.svc.List(context.Background(), invoicedomain.ListRequest{
		Pagination: pagination.Pagination{Page: 1, PageSize: 2},
	})
	assert.NoError(t, err)
	assert.Len(t, first, 2)
	assert.True(t, info.HasMore)

	second, info, err := f.svc.List(context.Background(), invoicedomain.ListRequest{
		Pagination: pagination.Pagination{Page: 2, PageSize: 2},
	})
	assert.NoError(t, err)
	assert.Len(t, second, 1)
	assert.False(t, info.HasMore)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Delete(context.Background(), generated.Invoice.ID))

	_, err = f.svc.GetWithLineItems(context.Background(), generated.Invoice.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotFound)

	var count int64
	assert.NoError(t, f.db.Model(&invoicedomain.InvoiceLineItem{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDelete_NonDraftRejected(t *testing.T) {
	f := newFixture(t)
	f.seedRecord(t, category.ATV, 10, "100")

	generated, err := f.svc.Generate(context.Background(), generateRequest(f.resortID))
	assert.NoError(t, err)
	_, err = f.svc.AdvanceStatus(context.Background(), generated.Invoice.ID, invoicedomain.InvoiceStatusSent)
	assert.NoError(t, err)

	err = f.svc.Delete(context.Background(), generated.Invoice.ID)
	assert.ErrorIs(t, err, invoicedomain.ErrInvoiceNotDraft)
}
