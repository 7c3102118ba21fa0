package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Resort is a partner property the operator runs assets for.
type Resort struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	Name            string       `gorm:"type:text;not null"`
	LegalEntityName string       `gorm:"type:text;not null"`
	BillingAddress  string       `gorm:"type:text"`
	CreatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Resort) TableName() string { return "resorts" }
