package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BiocidalProduct is a pest-control chemical tracked for dosage but not
// billed per use.
type BiocidalProduct struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name      string       `gorm:"not null" json:"name"`
	Unit      string       `gorm:"not null" json:"unit"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PaidProduct is a billable consumable with a list price.
type PaidProduct struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name      string       `gorm:"not null" json:"name"`
	Unit      string       `json:"unit,omitempty"`
	ListPrice float64      `gorm:"not null;default:0" json:"list_price"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// CustomerPrice is a per-customer override of a paid product's list price.
type CustomerPrice struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	CustomerID snowflake.ID `gorm:"not null;index:idx_customer_product,unique" json:"customer_id"`
	ProductID  snowflake.ID `gorm:"not null;index:idx_customer_product,unique" json:"product_id"`
	Price      float64      `gorm:"not null" json:"price"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
