package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, cfg *ProfitSharingConfig) error
	// FindLatest returns the config with the most recent effective_from for
	// the scope, or nil when none exists.
	FindLatest(ctx context.Context, db *gorm.DB, resortID snowflake.ID, cat category.AssetCategory) (*ProfitSharingConfig, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*ProfitSharingConfig, error)
}

type ListFilter struct {
	ResortID snowflake.ID
	Category category.AssetCategory
}
