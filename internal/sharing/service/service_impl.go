package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"github.com/dkugroup/resortops/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository sharingdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  sharingdomain.Repository
}

func NewService(p ServiceParam) sharingdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("sharing.service"),
		genID: p.GenID,
		repo:  p.Repository,
	}
}

func (s *Service) Create(ctx context.Context, req sharingdomain.CreateRequest) (*sharingdomain.Response, error) {
	resortID, err := snowflake.ParseString(strings.TrimSpace(req.ResortID))
	if err != nil || resortID == 0 {
		return nil, sharingdomain.ErrInvalidResort
	}

	cat, err := category.Parse(req.Category)
	if err != nil {
		return nil, sharingdomain.ErrInvalidCategory
	}

	if req.OperatorPct.IsNegative() || req.ResortPct.IsNegative() {
		return nil, sharingdomain.ErrInvalidPercentage
	}

	effectiveFrom := time.Now().UTC()
	if req.EffectiveFrom != nil {
		effectiveFrom = req.EffectiveFrom.UTC()
	}

	now := time.Now().UTC()
	cfg := sharingdomain.ProfitSharingConfig{
		ID:            s.genID.Generate(),
		ResortID:      resortID,
		Category:      cat,
		OperatorPct:   req.OperatorPct,
		ResortPct:     req.ResortPct,
		EffectiveFrom: effectiveFrom,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, s.db, &cfg); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Same (resort, category, effective_from) scope already exists.
			return nil, sharingdomain.ErrDuplicateConfig
		}
		return nil, err
	}

	resp := toResponse(&cfg)
	split := sharingdomain.Split{OperatorPct: cfg.OperatorPct, ResortPct: cfg.ResortPct}
	if !split.Balanced() {
		resp.Warning = "operator and resort percentages do not sum to 100"
		s.log.Warn("unbalanced profit-sharing config stored",
			zap.String("resort_id", resortID.String()),
			zap.String("category", cat.String()),
			zap.String("operator_pct", cfg.OperatorPct.String()),
			zap.String("resort_pct", cfg.ResortPct.String()),
		)
	}
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req sharingdomain.ListRequest) ([]sharingdomain.Response, error) {
	filter := sharingdomain.ListFilter{}
	if raw := strings.TrimSpace(req.ResortID); raw != "" {
		resortID, err := snowflake.ParseString(raw)
		if err != nil {
			return nil, sharingdomain.ErrInvalidResort
		}
		filter.ResortID = resortID
	}
	if raw := strings.TrimSpace(req.Category); raw != "" {
		cat, err := category.Parse(raw)
		if err != nil {
			return nil, sharingdomain.ErrInvalidCategory
		}
		filter.Category = cat
	}

	configs, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	out := make([]sharingdomain.Response, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, toResponse(cfg))
	}
	return out, nil
}

func toResponse(cfg *sharingdomain.ProfitSharingConfig) sharingdomain.Response {
	return sharingdomain.Response{
		ID:            cfg.ID.String(),
		ResortID:      cfg.ResortID.String(),
		Category:      cfg.Category.String(),
		OperatorPct:   cfg.OperatorPct,
		ResortPct:     cfg.ResortPct,
		EffectiveFrom: cfg.EffectiveFrom,
		CreatedAt:     cfg.CreatedAt,
	}
}
