package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Directory is the lookup surface the invoicing engine depends on.
type Directory interface {
	GetResort(ctx context.Context, id snowflake.ID) (*Resort, error)
}

type Service interface {
	Directory

	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
}

type CreateRequest struct {
	Name            string `json:"name"`
	LegalEntityName string `json:"legal_entity_name"`
	BillingAddress  string `json:"billing_address"`
}

type Response struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	LegalEntityName string    `json:"legal_entity_name"`
	BillingAddress  string    `json:"billing_address"`
	CreatedAt       time.Time `json:"created_at"`
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
