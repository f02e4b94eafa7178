package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Customer struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `json:"email,omitempty"`
	Phone     string       `json:"phone,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Branch is a physical serviced location belonging to a customer.
// Coordinates are optional; the distance calculator treats a branch
// without them as unknown rather than an error.
type Branch struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	CustomerID snowflake.ID `gorm:"not null;index" json:"customer_id"`
	Name       string       `gorm:"not null" json:"name"`
	Email      string       `json:"email,omitempty"`
	Latitude   *float64     `json:"latitude,omitempty"`
	Longitude  *float64     `json:"longitude,omitempty"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
