package domain

import "errors"

var (
	ErrInvalidResort     = errors.New("invalid_resort")
	ErrInvalidCategory   = errors.New("invalid_category")
	ErrInvalidPercentage = errors.New("invalid_percentage")
	ErrDuplicateConfig   = errors.New("duplicate_config")
	ErrNotFound          = errors.New("not_found")
)
