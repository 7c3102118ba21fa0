package domain

import "errors"

var (
	ErrInvalidResort         = errors.New("invalid_resort")
	ErrInvalidCategory       = errors.New("invalid_category")
	ErrInvalidAmount         = errors.New("invalid_amount")
	ErrInvalidRate           = errors.New("invalid_rate")
	ErrInvalidAdjustmentType = errors.New("invalid_adjustment_type")
	ErrAdjustmentExceedsBase = errors.New("adjustment_exceeds_base")
	ErrInvalidBookingDate    = errors.New("invalid_booking_date")
	ErrInvalidRecordID       = errors.New("invalid_record_id")
	ErrNotFound              = errors.New("not_found")
	ErrRecordBilled          = errors.New("record_billed")
)
