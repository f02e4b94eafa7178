package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Warehouse is the tenant-scoped stock location for an operator's
// consumables.
type Warehouse struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	OperatorID snowflake.ID `gorm:"not null;index" json:"operator_id"`
	Name       string       `gorm:"not null" json:"name"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// WarehouseItem tracks remaining quantity of one paid product.
type WarehouseItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID   snowflake.ID `gorm:"not null;index" json:"company_id"`
	WarehouseID snowflake.ID `gorm:"not null;index" json:"warehouse_id"`
	ProductID   snowflake.ID `gorm:"not null;index" json:"product_id"`
	Quantity    float64      `gorm:"not null;default:0" json:"quantity"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
