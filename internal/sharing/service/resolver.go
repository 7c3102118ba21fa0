package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	sharingdomain "github.com/dkugroup/resortops/internal/sharing/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type resolverParam struct {
	fx.In

	DB         *gorm.DB
	Repository sharingdomain.Repository
}

type resolver struct {
	db   *gorm.DB
	repo sharingdomain.Repository
}

func NewResolver(p resolverParam) sharingdomain.Resolver {
	return &resolver{db: p.DB, repo: p.Repository}
}

// Resolve picks the latest config for the scope, falling back to 70/30.
// Resolution intentionally ignores the revenue record's own date: the
// current config is applied even to historical revenue.
func (r *resolver) Resolve(ctx context.Context, resortID snowflake.ID, cat category.AssetCategory) (sharingdomain.Split, error) {
	cfg, err := r.repo.FindLatest(ctx, r.db, resortID, cat)
	if err != nil {
		return sharingdomain.Split{}, err
	}
	if cfg == nil {
		return sharingdomain.FallbackSplit(), nil
	}
	return sharingdomain.Split{
		OperatorPct: cfg.OperatorPct,
		ResortPct:   cfg.ResortPct,
	}, nil
}
