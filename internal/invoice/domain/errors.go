package domain

import "errors"

var (
	ErrInvalidResort      = errors.New("invalid_resort")
	ErrResortNotFound     = errors.New("resort_not_found")
	ErrInvalidPeriod      = errors.New("invalid_period")
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidInvoiceID   = errors.New("invalid_invoice_id")
	ErrInvoiceNotFound    = errors.New("invoice_not_found")
	ErrInvoiceNotDraft    = errors.New("invoice_not_draft")
	ErrInvalidStatus      = errors.New("invalid_status")
	ErrInvalidTransition  = errors.New("invalid_status_transition")
	ErrEmptyResult        = errors.New("empty_result")
	ErrAllocationConflict = errors.New("invoice_number_conflict")
)
