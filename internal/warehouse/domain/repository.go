package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// FindByOperator returns the operator's warehouse, nil when the
	// operator has none.
	FindByOperator(ctx context.Context, db *gorm.DB, companyID, operatorID snowflake.ID) (*Warehouse, error)
	// Decrement reduces stock of a product in one warehouse, flooring
	// at zero. Stock never goes negative.
	Decrement(ctx context.Context, db *gorm.DB, companyID, warehouseID, productID snowflake.ID, quantity float64) error
	ItemQuantity(ctx context.Context, db *gorm.DB, companyID, warehouseID, productID snowflake.ID) (float64, error)
}
