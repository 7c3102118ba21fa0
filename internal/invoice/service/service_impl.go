package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	invoicedomain "github.com/dkugroup/resortops/internal/invoice/domain"
	"github.com/dkugroup/resortops/internal/invoice/format"
	resortdomain "github.com/dkugroup/resortops/internal/resort/domain"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/dkugroup/resortops/internal/telemetry"
	"github.com/dkugroup/resortops/pkg/db"
	"github.com/dkugroup/resortops/pkg/db/option"
	"github.com/dkugroup/resortops/pkg/db/pagination"
	"github.com/dkugroup/resortops/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allocateAttempts bounds invoice-number retries when two generations race
// for the same month sequence.
const allocateAttempts = 3

type ServiceParam struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Resorts  resortdomain.Directory
	Resolver sharingdomain.Resolver
	Metrics  *telemetry.EngineMetrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	resorts  resortdomain.Directory
	resolver sharingdomain.Resolver
	metrics  *telemetry.EngineMetrics

	invoicerepo repository.Repository[invoicedomain.Invoice]
}

func NewService(p ServiceParam) invoicedomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		resorts:  p.Resorts,
		resolver: p.Resolver,
		metrics:  p.Metrics,

		invoicerepo: repository.ProvideStore[invoicedomain.Invoice](p.DB),
	}
}

func (s *Service) Generate(ctx context.Context, req invoicedomain.GenerateRequest) (*invoicedomain.InvoiceWithLines, error) {
	resortID, err := snowflake.ParseString(strings.TrimSpace(req.ResortID))
	if err != nil || resortID == 0 {
		return nil, invoicedomain.ErrInvalidResort
	}
	if err := validatePeriod(req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	}
	cats, err := category.ParseAll(req.Categories)
	if err != nil {
		return nil, invoicedomain.ErrInvalidCategory
	}

	resort, err := s.resorts.GetResort(ctx, resortID)
	if err != nil {
		return nil, err
	}
	if resort == nil {
		return nil, invoicedomain.ErrResortNotFound
	}

	lines, totals, err := s.computeLines(ctx, resortID, req.PeriodStart, req.PeriodEnd, cats)
	if err != nil {
		return nil, err
	}

	var invoice invoicedomain.Invoice
	var items []invoicedomain.InvoiceLineItem

	// The month sequence is read inside the transaction; a concurrent
	// generation for the same month surfaces as a unique violation on the
	// invoice number, which we retry with a freshly read sequence.
	for attempt := 0; attempt < allocateAttempts; attempt++ {
		invoice = invoicedomain.Invoice{}
		items = nil

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// One clock read: the number's month prefix and the row
			// timestamps must agree even across a month boundary.
			now := time.Now().UTC()

			number, err := s.nextInvoiceNumber(ctx, tx, now)
			if err != nil {
				return err
			}

			invoice = invoicedomain.Invoice{
				ID:             s.genID.Generate(),
				ResortID:       resortID,
				InvoiceNumber:  number,
				PeriodStart:    req.PeriodStart.UTC(),
				PeriodEnd:      req.PeriodEnd.UTC(),
				TotalRevenue:   totals.TotalRevenue,
				OperatorShare:  totals.OperatorShare,
				ResortShare:    totals.ResortShare,
				Status:         invoicedomain.InvoiceStatusDraft,
				GeneratedBy:    strings.TrimSpace(req.GeneratedBy),
				BankAccountRef: req.BankAccountRef,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.WithContext(ctx).Create(&invoice).Error; err != nil {
				return err
			}

			items = s.buildLineItems(invoice.ID, lines, now)
			return tx.WithContext(ctx).Create(&items).Error
		})
		if err == nil {
			break
		}
		if !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
		s.metrics.IncAllocationConflict()
		s.log.Warn("invoice number collision, retrying",
			zap.String("resort_id", resortID.String()),
			zap.Int("attempt", attempt+1),
		)
	}
	if err != nil {
		return nil, invoicedomain.ErrAllocationConflict
	}

	s.metrics.IncInvoiceGenerated()
	s.log.Info("invoice generated",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("resort_id", resortID.String()),
		zap.Int("line_items", len(items)),
	)

	return s.respond(&invoice, items), nil
}

func (s *Service) Recompute(ctx context.Context, invoiceID string, req invoicedomain.RecomputeRequest) (*invoicedomain.InvoiceWithLines, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	if err := validatePeriod(req.PeriodStart, req.PeriodEnd); err != nil {
		return nil, err
	}

	var invoice *invoicedomain.Invoice
	var items []invoicedomain.InvoiceLineItem

	// Delete and rebuild of line items happens inside one transaction so
	// a failure can never leave the invoice without lines.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err = s.loadInvoiceForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		lines, totals, err := s.computeLines(ctx, invoice.ResortID, req.PeriodStart, req.PeriodEnd, nil)
		if err != nil {
			return err
		}

		if err := tx.WithContext(ctx).
			Where("invoice_id = ?", invoice.ID).
			Delete(&invoicedomain.InvoiceLineItem{}).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		invoice.PeriodStart = req.PeriodStart.UTC()
		invoice.PeriodEnd = req.PeriodEnd.UTC()
		invoice.TotalRevenue = totals.TotalRevenue
		invoice.OperatorShare = totals.OperatorShare
		invoice.ResortShare = totals.ResortShare
		if req.BankAccountRef != nil {
			invoice.BankAccountRef = req.BankAccountRef
		}
		invoice.UpdatedAt = now

		if err := tx.WithContext(ctx).Save(invoice).Error; err != nil {
			return err
		}

		items = s.buildLineItems(invoice.ID, lines, now)
		return tx.WithContext(ctx).Create(&items).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncInvoiceRecomputed()
	s.log.Info("invoice recomputed",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("line_items", len(items)),
	)

	return s.respond(invoice, items), nil
}

func (s *Service) AdvanceStatus(ctx context.Context, invoiceID string, next invoicedomain.InvoiceStatus) (*invoicedomain.InvoiceWithLines, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}
	if !next.Valid() {
		return nil, invoicedomain.ErrInvalidStatus
	}

	var invoice *invoicedomain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err = s.loadInvoiceForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}
		if invoice.Status.Next() != next {
			return invoicedomain.ErrInvalidTransition
		}

		now := time.Now().UTC()
		invoice.Status = next
		switch next {
		case invoicedomain.InvoiceStatusSent:
			invoice.SentAt = &now
		case invoicedomain.InvoiceStatusPaid:
			invoice.PaidAt = &now
		}
		invoice.UpdatedAt = now

		return tx.WithContext(ctx).Save(invoice).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("invoice status advanced",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", string(next)),
	)

	items, err := s.loadLineItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	return s.respond(invoice, items), nil
}

func (s *Service) GetWithLineItems(ctx context.Context, invoiceID string) (*invoicedomain.InvoiceWithLines, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return nil, invoicedomain.ErrInvalidInvoiceID
	}

	invoice, err := s.invoicerepo.FindOne(ctx, &invoicedomain.Invoice{ID: id})
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	items, err := s.loadLineItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	return s.respond(invoice, items), nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) ([]invoicedomain.InvoiceResponse, pagination.PageInfo, error) {
	filter := &invoicedomain.Invoice{}
	if raw := strings.TrimSpace(req.ResortID); raw != "" {
		resortID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, pagination.PageInfo{}, invoicedomain.ErrInvalidResort
		}
		filter.ResortID = resortID
	}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status := invoicedomain.InvoiceStatus(strings.ToUpper(raw))
		if !status.Valid() {
			return nil, pagination.PageInfo{}, invoicedomain.ErrInvalidStatus
		}
		filter.Status = status
	}

	invoices, err := s.invoicerepo.Find(ctx, filter,
		option.WithSortBy(option.QuerySortBy{
			Field: "created_at",
			Desc:  true,
			Allow: map[string]bool{"created_at": true},
		}),
		option.ApplyPagination(req.Pagination),
	)
	if err != nil {
		return nil, pagination.PageInfo{}, err
	}

	invoices, info := pagination.BuildPageInfo(invoices, req.Pagination.Limit())
	info.Page = req.Page
	if info.Page < 1 {
		info.Page = 1
	}

	out := make([]invoicedomain.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		out = append(out, toInvoiceResponse(invoice))
	}
	return out, info, nil
}

func (s *Service) Delete(ctx context.Context, invoiceID string) error {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil {
		return invoicedomain.ErrInvalidInvoiceID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.loadInvoiceForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if invoice == nil {
			return invoicedomain.ErrInvoiceNotFound
		}
		if invoice.Status != invoicedomain.InvoiceStatusDraft {
			return invoicedomain.ErrInvoiceNotDraft
		}

		if err := tx.WithContext(ctx).
			Where("invoice_id = ?", id).
			Delete(&invoicedomain.InvoiceLineItem{}).Error; err != nil {
			return err
		}
		return tx.WithContext(ctx).Delete(&invoicedomain.Invoice{}, "id = ?", id).Error
	})
}

// computeLines loads the ledger slice for the scope and runs the pure
// aggregation against the resolved splits.
func (s *Service) computeLines(ctx context.Context, resortID snowflake.ID, start, end time.Time, cats []category.AssetCategory) ([]invoicedomain.LineDraft, invoicedomain.Totals, error) {
	records, err := s.loadRecords(ctx, resortID, start, end, cats)
	if err != nil {
		return nil, invoicedomain.Totals{}, err
	}

	return invoicedomain.Aggregate(ctx, records, func(ctx context.Context, cat category.AssetCategory) (sharingdomain.Split, error) {
		split, err := s.resolver.Resolve(ctx, resortID, cat)
		if err != nil {
			return sharingdomain.Split{}, err
		}
		if split.Fallback {
			s.log.Warn("no profit-sharing config, using 70/30 fallback",
				zap.String("resort_id", resortID.String()),
				zap.String("category", cat.String()),
			)
		}
		return split, nil
	})
}

func (s *Service) loadRecords(ctx context.Context, resortID snowflake.ID, start, end time.Time, cats []category.AssetCategory) ([]revenuedomain.RevenueRecord, error) {
	stmt := s.db.WithContext(ctx).
		Model(&revenuedomain.RevenueRecord{}).
		Where("resort_id = ?", resortID).
		Where("booking_date >= ?", start.UTC()).
		Where("booking_date <= ?", end.UTC())
	if len(cats) > 0 {
		stmt = stmt.Where("category IN ?", cats)
	}

	var records []revenuedomain.RevenueRecord
	if err := stmt.Order("booking_date asc, id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// nextInvoiceNumber reads the month's numbers and returns max sequence + 1.
// Must run inside the insert transaction; uniqueness is enforced by the
// index on invoice_number.
func (s *Service) nextInvoiceNumber(ctx context.Context, tx *gorm.DB, yearMonth time.Time) (string, error) {
	prefix := format.MonthPrefix(yearMonth)

	var numbers []string
	err := tx.WithContext(ctx).Raw(
		`SELECT invoice_number FROM invoices WHERE invoice_number LIKE ?`,
		prefix+"%",
	).Scan(&numbers).Error
	if err != nil {
		return "", err
	}

	var max int64
	for _, number := range numbers {
		if seq, ok := format.ParseSeq(number, prefix); ok && seq > max {
			max = seq
		}
	}

	return format.InvoiceNumber(yearMonth, max+1), nil
}

func (s *Service) loadInvoiceForUpdate(ctx context.Context, tx *gorm.DB, id snowflake.ID) (*invoicedomain.Invoice, error) {
	stmt := tx.WithContext(ctx)
	if db.SupportsRowLock(tx) {
		stmt = stmt.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var invoice invoicedomain.Invoice
	err := stmt.Where("id = ?", id).Limit(1).Find(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (s *Service) loadLineItems(ctx context.Context, invoiceID snowflake.ID) ([]invoicedomain.InvoiceLineItem, error) {
	var items []invoicedomain.InvoiceLineItem
	err := s.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Service) buildLineItems(invoiceID snowflake.ID, lines []invoicedomain.LineDraft, now time.Time) []invoicedomain.InvoiceLineItem {
	items := make([]invoicedomain.InvoiceLineItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, invoicedomain.InvoiceLineItem{
			ID:             s.genID.Generate(),
			InvoiceID:      invoiceID,
			Category:       line.Category,
			NetRevenue:     line.NetRevenue,
			OperatorPct:    line.OperatorPct,
			ResortPct:      line.ResortPct,
			OperatorAmount: line.OperatorAmount,
			ResortAmount:   line.ResortAmount,
			ConfigFallback: line.ConfigFallback,
			RecordCount:    line.RecordCount,
			CreatedAt:      now,
		})
	}
	return items
}

func (s *Service) respond(invoice *invoicedomain.Invoice, items []invoicedomain.InvoiceLineItem) *invoicedomain.InvoiceWithLines {
	lines := make([]invoicedomain.LineItemResponse, 0, len(items))
	for _, item := range items {
		lines = append(lines, invoicedomain.LineItemResponse{
			ID:             item.ID.String(),
			Category:       item.Category.String(),
			NetRevenue:     item.NetRevenue,
			OperatorPct:    item.OperatorPct,
			ResortPct:      item.ResortPct,
			OperatorAmount: item.OperatorAmount,
			ResortAmount:   item.ResortAmount,
			ConfigFallback: item.ConfigFallback,
			RecordCount:    item.RecordCount,
		})
	}
	return &invoicedomain.InvoiceWithLines{
		Invoice:   toInvoiceResponse(invoice),
		LineItems: lines,
	}
}

func toInvoiceResponse(invoice *invoicedomain.Invoice) invoicedomain.InvoiceResponse {
	return invoicedomain.InvoiceResponse{
		ID:             invoice.ID.String(),
		ResortID:       invoice.ResortID.String(),
		InvoiceNumber:  invoice.InvoiceNumber,
		PeriodStart:    invoice.PeriodStart,
		PeriodEnd:      invoice.PeriodEnd,
		TotalRevenue:   invoice.TotalRevenue,
		OperatorShare:  invoice.OperatorShare,
		ResortShare:    invoice.ResortShare,
		Status:         invoice.Status,
		GeneratedBy:    invoice.GeneratedBy,
		BankAccountRef: invoice.BankAccountRef,
		SentAt:         invoice.SentAt,
		PaidAt:         invoice.PaidAt,
		CreatedAt:      invoice.CreatedAt,
		UpdatedAt:      invoice.UpdatedAt,
	}
}

func validatePeriod(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return invoicedomain.ErrInvalidPeriod
	}
	return nil
}
