package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	revenuedomain "github.com/dkugroup/resortops/internal/revenue/domain"
	"github.com/dkugroup/resortops/pkg/db/option"
	"github.com/dkugroup/resortops/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node

	recordrepo repository.Repository[revenuedomain.RevenueRecord]
}

func NewService(p ServiceParam) revenuedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("revenue.service"),
		genID: p.GenID,

		recordrepo: repository.ProvideStore[revenuedomain.RevenueRecord](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req revenuedomain.WriteRequest) (*revenuedomain.Response, error) {
	record, breakdown, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.ID = s.genID.Generate()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := s.recordrepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return s.respond(record, breakdown), nil
}

func (s *Service) Update(ctx context.Context, id string, req revenuedomain.WriteRequest) (*revenuedomain.Response, error) {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, revenuedomain.ErrInvalidRecordID
	}

	existing, err := s.recordrepo.FindOne(ctx, &revenuedomain.RevenueRecord{ID: recordID})
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, revenuedomain.ErrNotFound
	}

	billed, err := s.isBilled(ctx, existing)
	if err != nil {
		return nil, err
	}
	if billed {
		return nil, revenuedomain.ErrRecordBilled
	}

	record, breakdown, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = time.Now().UTC()

	if err := s.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}

	return s.respond(record, breakdown), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return revenuedomain.ErrInvalidRecordID
	}

	existing, err := s.recordrepo.FindOne(ctx, &revenuedomain.RevenueRecord{ID: recordID})
	if err != nil {
		return err
	}
	if existing == nil {
		return revenuedomain.ErrNotFound
	}

	billed, err := s.isBilled(ctx, existing)
	if err != nil {
		return err
	}
	if billed {
		return revenuedomain.ErrRecordBilled
	}

	return s.recordrepo.Delete(ctx, recordID.String())
}

func (s *Service) GetByID(ctx context.Context, id string) (*revenuedomain.Response, error) {
	recordID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, revenuedomain.ErrInvalidRecordID
	}

	record, err := s.recordrepo.FindOne(ctx, &revenuedomain.RevenueRecord{ID: recordID})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, revenuedomain.ErrNotFound
	}

	breakdown, err := revenuedomain.Decompose(record.GrossAmount, record.Discount, record.Tax)
	if err != nil {
		return nil, err
	}
	return s.respond(record, breakdown), nil
}

func (s *Service) List(ctx context.Context, req revenuedomain.ListRequest) ([]revenuedomain.Response, error) {
	filter := &revenuedomain.RevenueRecord{}
	if raw := strings.TrimSpace(req.ResortID); raw != "" {
		resortID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, revenuedomain.ErrInvalidResort
		}
		filter.ResortID = resortID
	}

	options := []option.QueryOption{
		option.WithSortBy(option.QuerySortBy{
			Field: "booking_date",
			Allow: map[string]bool{"booking_date": true},
		}),
	}
	if raw := strings.TrimSpace(req.From); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, revenuedomain.ErrInvalidBookingDate
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "booking_date",
			Operator: option.GTE,
			Value:    from,
		}))
	}
	if raw := strings.TrimSpace(req.To); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, revenuedomain.ErrInvalidBookingDate
		}
		options = append(options, option.ApplyOperator(option.Condition{
			Field:    "booking_date",
			Operator: option.LTE,
			Value:    to,
		}))
	}
	if len(req.Categories) == 1 {
		cat, err := category.Parse(req.Categories[0])
		if err != nil {
			return nil, revenuedomain.ErrInvalidCategory
		}
		filter.Category = cat
	} else if len(req.Categories) > 1 {
		cats, err := category.ParseAll(req.Categories)
		if err != nil {
			return nil, revenuedomain.ErrInvalidCategory
		}
		// struct filters can't express IN, so multi-category goes through
		// a dedicated query.
		return s.listByCategories(ctx, filter.ResortID, req.From, req.To, cats)
	}

	records, err := s.recordrepo.Find(ctx, filter, options...)
	if err != nil {
		return nil, err
	}

	return s.respondAll(records)
}

func (s *Service) listByCategories(ctx context.Context, resortID snowflake.ID, from, to string, cats []category.AssetCategory) ([]revenuedomain.Response, error) {
	stmt := s.db.WithContext(ctx).
		Model(&revenuedomain.RevenueRecord{}).
		Where("category IN ?", cats)
	if resortID != 0 {
		stmt = stmt.Where("resort_id = ?", resortID)
	}
	if raw := strings.TrimSpace(from); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, revenuedomain.ErrInvalidBookingDate
		}
		stmt = stmt.Where("booking_date >= ?", t)
	}
	if raw := strings.TrimSpace(to); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, revenuedomain.ErrInvalidBookingDate
		}
		stmt = stmt.Where("booking_date <= ?", t)
	}

	var records []*revenuedomain.RevenueRecord
	if err := stmt.Order("booking_date asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return s.respondAll(records)
}

func (s *Service) validate(req revenuedomain.WriteRequest) (*revenuedomain.RevenueRecord, revenuedomain.Breakdown, error) {
	resortID, err := snowflake.ParseString(strings.TrimSpace(req.ResortID))
	if err != nil || resortID == 0 {
		return nil, revenuedomain.Breakdown{}, revenuedomain.ErrInvalidResort
	}

	cat, err := category.Parse(req.Category)
	if err != nil {
		return nil, revenuedomain.Breakdown{}, revenuedomain.ErrInvalidCategory
	}

	if req.BookingDate.IsZero() {
		return nil, revenuedomain.Breakdown{}, revenuedomain.ErrInvalidBookingDate
	}

	breakdown, err := revenuedomain.Decompose(req.GrossAmount, req.Discount, req.Tax)
	if err != nil {
		return nil, revenuedomain.Breakdown{}, err
	}

	return &revenuedomain.RevenueRecord{
		ResortID:    resortID,
		Category:    cat,
		BookingDate: req.BookingDate.UTC(),
		ExternalRef: req.ExternalRef,
		GrossAmount: req.GrossAmount,
		Discount:    req.Discount,
		Tax:         req.Tax,
		RecordedBy:  strings.TrimSpace(req.RecordedBy),
	}, breakdown, nil
}

// isBilled reports whether the record falls inside a sent or paid invoice
// covering its category. Draft invoices do not freeze the ledger; their
// totals are recomputed on demand.
func (s *Service) isBilled(ctx context.Context, record *revenuedomain.RevenueRecord) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM invoices i
		 JOIN invoice_line_items li ON li.invoice_id = i.id
		 WHERE i.resort_id = ?
		   AND i.status <> 'DRAFT'
		   AND i.period_start <= ?
		   AND i.period_end >= ?
		   AND li.category = ?`,
		record.ResortID,
		record.BookingDate,
		record.BookingDate,
		record.Category,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Service) respond(record *revenuedomain.RevenueRecord, breakdown revenuedomain.Breakdown) *revenuedomain.Response {
	resp := &revenuedomain.Response{
		ID:          record.ID.String(),
		ResortID:    record.ResortID.String(),
		Category:    record.Category.String(),
		BookingDate: record.BookingDate,
		ExternalRef: record.ExternalRef,
		GrossAmount: record.GrossAmount,
		Discount:    record.Discount,
		Tax:         record.Tax,
		Breakdown:   breakdown,
		RecordedBy:  record.RecordedBy,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	if breakdown.NetAmount.IsNegative() {
		resp.Warning = "decomposed net amount is negative"
		s.log.Warn("negative net amount recorded",
			zap.String("record_id", record.ID.String()),
			zap.String("gross", record.GrossAmount.String()),
			zap.String("net", breakdown.NetAmount.String()),
		)
	}
	return resp
}

func (s *Service) respondAll(records []*revenuedomain.RevenueRecord) ([]revenuedomain.Response, error) {
	out := make([]revenuedomain.Response, 0, len(records))
	for _, record := range records {
		breakdown, err := revenuedomain.Decompose(record.GrossAmount, record.Discount, record.Tax)
		if err != nil {
			return nil, err
		}
		out = append(out, *s.respond(record, breakdown))
	}
	return out, nil
}
