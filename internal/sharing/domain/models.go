// Package domain contains the profit-sharing configuration model and the
// split calculation applied to recognized net revenue.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"github.com/shopspring/decimal"
)

// ProfitSharingConfig is the percentage split agreed between the operator
// (DKU) and a resort for one asset category. Multiple historical rows may
// exist for the same scope; the latest effective_from wins at resolution
// time regardless of the revenue record's own date.
type ProfitSharingConfig struct {
	ID            snowflake.ID           `gorm:"primaryKey"`
	ResortID      snowflake.ID           `gorm:"not null;index;uniqueIndex:ux_sharing_config_scope"`
	Category      category.AssetCategory `gorm:"type:text;not null;uniqueIndex:ux_sharing_config_scope"`
	OperatorPct   decimal.Decimal        `gorm:"type:numeric(6,2);not null"`
	ResortPct     decimal.Decimal        `gorm:"type:numeric(6,2);not null"`
	EffectiveFrom time.Time              `gorm:"not null;uniqueIndex:ux_sharing_config_scope"`
	CreatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ProfitSharingConfig) TableName() string { return "profit_sharing_configs" }

// Fallback split applied when no explicit config exists for a scope.
var (
	FallbackOperatorPct = decimal.NewFromInt(70)
	FallbackResortPct   = decimal.NewFromInt(30)
)

// Split is a resolved percentage pair. Fallback marks that no explicit
// configuration existed and the 70/30 default was used; callers surface
// this on the invoice line item.
type Split struct {
	OperatorPct decimal.Decimal
	ResortPct   decimal.Decimal
	Fallback    bool
}

func FallbackSplit() Split {
	return Split{
		OperatorPct: FallbackOperatorPct,
		ResortPct:   FallbackResortPct,
		Fallback:    true,
	}
}

var hundred = decimal.NewFromInt(100)

// Apply splits a net amount into operator and resort shares, each rounded
// to 2 decimal places. The percentages are applied exactly as configured;
// a pair not summing to 100 is not renormalized.
func (s Split) Apply(net decimal.Decimal) (operator, resort decimal.Decimal) {
	operator = net.Mul(s.OperatorPct).Div(hundred).Round(2)
	resort = net.Mul(s.ResortPct).Div(hundred).Round(2)
	return operator, resort
}

// Balanced reports whether the configured percentages sum to 100.
func (s Split) Balanced() bool {
	return s.OperatorPct.Add(s.ResortPct).Equal(hundred)
}
