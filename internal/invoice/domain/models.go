// Package domain contains the invoice models and the pure aggregation
// that turns ledger records into per-category line items.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/dkugroup/resortops/internal/category"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents invoice lifecycle states. Transitions are
// forward-only, one step at a time: DRAFT -> SENT -> PAID.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid:
		return true
	default:
		return false
	}
}

// Next returns the only status this one may advance to, or "".
func (s InvoiceStatus) Next() InvoiceStatus {
	switch s {
	case InvoiceStatusDraft:
		return InvoiceStatusSent
	case InvoiceStatusSent:
		return InvoiceStatusPaid
	default:
		return ""
	}
}

// Invoice is a profit-sharing invoice over a resort's revenue for an
// inclusive date range. Totals are exact sums of the owned line items.
type Invoice struct {
	ID             snowflake.ID    `gorm:"primaryKey"`
	ResortID       snowflake.ID    `gorm:"not null;index"`
	InvoiceNumber  string          `gorm:"type:text;not null;uniqueIndex:ux_invoices_number"`
	PeriodStart    time.Time       `gorm:"not null"`
	PeriodEnd      time.Time       `gorm:"not null"`
	TotalRevenue   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	OperatorShare  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	ResortShare    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status         InvoiceStatus   `gorm:"type:text;not null;default:'DRAFT'"`
	GeneratedBy    string          `gorm:"type:text;not null"`
	BankAccountRef *string         `gorm:"type:text"`
	SentAt         *time.Time      `gorm:""`
	PaidAt         *time.Time      `gorm:""`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceLineItem is one per-category row of an invoice. An invoice owns
// its line items; they are deleted and rebuilt together on recompute.
type InvoiceLineItem struct {
	ID             snowflake.ID           `gorm:"primaryKey"`
	InvoiceID      snowflake.ID           `gorm:"not null;index"`
	Category       category.AssetCategory `gorm:"type:text;not null"`
	NetRevenue     decimal.Decimal        `gorm:"type:numeric(18,2);not null"`
	OperatorPct    decimal.Decimal        `gorm:"type:numeric(6,2);not null"`
	ResortPct      decimal.Decimal        `gorm:"type:numeric(6,2);not null"`
	OperatorAmount decimal.Decimal        `gorm:"type:numeric(18,2);not null"`
	ResortAmount   decimal.Decimal        `gorm:"type:numeric(18,2);not null"`
	ConfigFallback bool                   `gorm:"not null;default:false"`
	RecordCount    int64                  `gorm:"not null;default:0"`
	CreatedAt      time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (InvoiceLineItem) TableName() string { return "invoice_line_items" }
