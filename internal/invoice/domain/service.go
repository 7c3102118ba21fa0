package domain

import (
	"context"
	"time"

	"github.com/dkugroup/resortops/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (*InvoiceWithLines, error)
	// Recompute replaces the line items and totals of a draft invoice,
	// preserving its number and status.
	Recompute(ctx context.Context, invoiceID string, req RecomputeRequest) (*InvoiceWithLines, error)
	AdvanceStatus(ctx context.Context, invoiceID string, next InvoiceStatus) (*InvoiceWithLines, error)
	GetWithLineItems(ctx context.Context, invoiceID string) (*InvoiceWithLines, error)
	List(ctx context.Context, req ListRequest) ([]InvoiceResponse, pagination.PageInfo, error)
	// Delete removes a draft invoice together with its line items.
	Delete(ctx context.Context, invoiceID string) error
}

type GenerateRequest struct {
	ResortID       string    `json:"resort_id"`
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	Categories     []string  `json:"categories,omitempty"`
	BankAccountRef *string   `json:"bank_account_ref,omitempty"`
	GeneratedBy    string    `json:"-"`
}

type RecomputeRequest struct {
	PeriodStart    time.Time `json:"period_start"`
	PeriodEnd      time.Time `json:"period_end"`
	BankAccountRef *string   `json:"bank_account_ref,omitempty"`
}

type ListRequest struct {
	pagination.Pagination

	ResortID string `form:"resort_id"`
	Status   string `form:"status"`
}

type InvoiceResponse struct {
	ID             string          `json:"id"`
	ResortID       string          `json:"resort_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	PeriodStart    time.Time       `json:"period_start"`
	PeriodEnd      time.Time       `json:"period_end"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	OperatorShare  decimal.Decimal `json:"operator_share"`
	ResortShare    decimal.Decimal `json:"resort_share"`
	Status         InvoiceStatus   `json:"status"`
	GeneratedBy    string          `json:"generated_by"`
	BankAccountRef *string         `json:"bank_account_ref,omitempty"`
	SentAt         *time.Time      `json:"sent_at,omitempty"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type LineItemResponse struct {
	ID             string          `json:"id"`
	Category       string          `json:"category"`
	NetRevenue     decimal.Decimal `json:"net_revenue"`
	OperatorPct    decimal.Decimal `json:"operator_pct"`
	ResortPct      decimal.Decimal `json:"resort_pct"`
	OperatorAmount decimal.Decimal `json:"operator_amount"`
	ResortAmount   decimal.Decimal `json:"resort_amount"`
	ConfigFallback bool            `json:"config_fallback"`
	RecordCount    int64           `json:"record_count"`
}

type InvoiceWithLines struct {
	Invoice   InvoiceResponse    `json:"invoice"`
	LineItems []LineItemResponse `json:"line_items"`
}
