package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type SaleStatus string

const (
	SaleStatusPending SaleStatus = "pending"
	SaleStatusPaid    SaleStatus = "paid"
)

// PaidMaterialSale aggregates the billable consumables of one visit.
type PaidMaterialSale struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	VisitID     snowflake.ID `gorm:"not null;uniqueIndex" json:"visit_id"`
	CustomerID  snowflake.ID `gorm:"not null;index" json:"customer_id"`
	TotalAmount float64      `gorm:"not null;default:0" json:"total_amount"`
	Status      SaleStatus   `gorm:"not null;default:'pending'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SaleItem is one billed line: the unit price is resolved at save time
// and copied here so later price changes never alter history.
type SaleItem struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	SaleID     snowflake.ID `gorm:"not null;index" json:"sale_id"`
	ProductID  snowflake.ID `gorm:"not null" json:"product_id"`
	Quantity   float64      `gorm:"not null" json:"quantity"`
	UnitPrice  float64      `gorm:"not null" json:"unit_price"`
	TotalPrice float64      `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
