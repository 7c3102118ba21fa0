package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"github.com/dkugroup/resortops/internal/sharing/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, cfg *domain.ProfitSharingConfig) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO profit_sharing_configs (id, resort_id, category, operator_pct, resort_pct, effective_from, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		cfg.ID,
		cfg.ResortID,
		cfg.Category,
		cfg.OperatorPct,
		cfg.ResortPct,
		cfg.EffectiveFrom,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	).Error
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB, resortID snowflake.ID, cat category.AssetCategory) (*domain.ProfitSharingConfig, error) {
	var cfg domain.ProfitSharingConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, resort_id, category, operator_pct, resort_pct, effective_from, created_at, updated_at
		 FROM profit_sharing_configs
		 WHERE resort_id = ? AND category = ?
		 ORDER BY effective_from DESC
		 LIMIT 1`,
		resortID,
		cat,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.ProfitSharingConfig, error) {
	var configs []*domain.ProfitSharingConfig
	stmt := db.WithContext(ctx).Model(&domain.ProfitSharingConfig{})
	if filter.ResortID != 0 {
		stmt = stmt.Where("resort_id = ?", filter.ResortID)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category = ?", filter.Category)
	}
	err := stmt.
		Order("resort_id, category, effective_from desc").
		Find(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}
