package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"github.com/shopspring/decimal"
)

// Resolver returns the split in effect for a (resort, category) scope.
// When no explicit config exists the 70/30 fallback is returned with
// Split.Fallback set; resolution never fails on a missing row.
type Resolver interface {
	Resolve(ctx context.Context, resortID snowflake.ID, cat category.AssetCategory) (Split, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type CreateRequest struct {
	ResortID      string          `json:"resort_id"`
	Category      string          `json:"category"`
	OperatorPct   decimal.Decimal `json:"operator_pct"`
	ResortPct     decimal.Decimal `json:"resort_pct"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
}

type ListRequest struct {
	ResortID string `form:"resort_id"`
	Category string `form:"category"`
}

type Response struct {
	ID            string          `json:"id"`
	ResortID      string          `json:"resort_id"`
	Category      string          `json:"category"`
	OperatorPct   decimal.Decimal `json:"operator_pct"`
	ResortPct     decimal.Decimal `json:"resort_pct"`
	EffectiveFrom time.Time       `json:"effective_from"`
	CreatedAt     time.Time       `json:"created_at"`

	// Warning is set when the pair does not sum to 100. The config is
	// stored anyway; the caller decides the policy.
	Warning string `json:"warning,omitempty"`
}
