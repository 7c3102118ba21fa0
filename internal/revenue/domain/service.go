package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req WriteRequest) (*Response, error)
	// Update is a full overwrite of the record.
	Update(ctx context.Context, id string, req WriteRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
}

type WriteRequest struct {
	ResortID    string          `json:"resort_id"`
	Category    string          `json:"category"`
	BookingDate time.Time       `json:"booking_date"`
	ExternalRef *string         `json:"external_ref,omitempty"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Discount    AdjustmentSpec  `json:"discount"`
	Tax         AdjustmentSpec  `json:"tax"`
	RecordedBy  string          `json:"-"`
}

type ListRequest struct {
	ResortID   string   `form:"resort_id"`
	From       string   `form:"from"`
	To         string   `form:"to"`
	Categories []string `form:"category"`
}

type Response struct {
	ID          string          `json:"id"`
	ResortID    string          `json:"resort_id"`
	Category    string          `json:"category"`
	BookingDate time.Time       `json:"booking_date"`
	ExternalRef *string         `json:"external_ref,omitempty"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
	Discount    AdjustmentSpec  `json:"discount"`
	Tax         AdjustmentSpec  `json:"tax"`
	Breakdown   Breakdown       `json:"breakdown"`
	RecordedBy  string          `json:"recorded_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Warning is set when decomposition yields a negative net amount.
	// The record is stored as-is; the operator decides the correction.
	Warning string `json:"warning,omitempty"`
}
