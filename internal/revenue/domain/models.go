// Package domain contains the revenue ledger model and the amount
// decomposition applied to every booking.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"github.com/shopspring/decimal"
)

// AdjustmentType selects how a discount or tax/service component was
// recorded against the gross amount.
type AdjustmentType string

const (
	AdjustmentNone       AdjustmentType = ""
	AdjustmentPercentage AdjustmentType = "PERCENTAGE"
	AdjustmentFixed      AdjustmentType = "FIXED"
)

// AdjustmentSpec describes one inclusive discount or tax component.
// A zero-value spec means the component is absent.
type AdjustmentSpec struct {
	Type  AdjustmentType  `gorm:"type:text" json:"type"`
	Value decimal.Decimal `gorm:"type:numeric(18,2)" json:"value"`
}

func (a AdjustmentSpec) IsZero() bool {
	return a.Type == AdjustmentNone || a.Value.IsZero()
}

// RevenueRecord is one booking in the ledger. GrossAmount already includes
// the discount and the tax/service component; decomposition backs them out.
type RevenueRecord struct {
	ID          snowflake.ID           `gorm:"primaryKey"`
	ResortID    snowflake.ID           `gorm:"not null;index:idx_revenue_scope"`
	Category    category.AssetCategory `gorm:"type:text;not null;index:idx_revenue_scope"`
	BookingDate time.Time              `gorm:"not null;index:idx_revenue_scope"`
	ExternalRef *string                `gorm:"type:text"`
	GrossAmount decimal.Decimal        `gorm:"type:numeric(18,2);not null"`
	Discount    AdjustmentSpec         `gorm:"embedded;embeddedPrefix:discount_"`
	Tax         AdjustmentSpec         `gorm:"embedded;embeddedPrefix:tax_"`
	RecordedBy  string                 `gorm:"type:text;not null"`
	CreatedAt   time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RevenueRecord) TableName() string { return "revenue_records" }
