package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/warehouse/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByOperator(ctx context.Context, db *gorm.DB, companyID, operatorID snowflake.ID) (*domain.Warehouse, error) {
	var warehouse domain.Warehouse
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, operator_id, name, created_at, updated_at
		 FROM warehouses WHERE company_id = ? AND operator_id = ?`,
		companyID,
		operatorID,
	).Scan(&warehouse).Error
	if err != nil {
		return nil, err
	}
	if warehouse.ID == 0 {
		return nil, nil
	}
	return &warehouse, nil
}

// The CASE expression floors at zero and is portable across postgres and
// sqlite.
func (r *repo) Decrement(ctx context.Context, db *gorm.DB, companyID, warehouseID, productID snowflake.ID, quantity float64) error {
	if quantity <= 0 {
		return nil
	}
	return db.WithContext(ctx).Exec(
		`UPDATE warehouse_items
		 SET quantity = CASE WHEN quantity > ? THEN quantity - ? ELSE 0 END,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE company_id = ? AND warehouse_id = ? AND product_id = ?`,
		quantity,
		quantity,
		companyID,
		warehouseID,
		productID,
	).Error
}

func (r *repo) ItemQuantity(ctx context.Context, db *gorm.DB, companyID, warehouseID, productID snowflake.ID) (float64, error) {
	var item domain.WarehouseItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, quantity FROM warehouse_items WHERE company_id = ? AND warehouse_id = ? AND product_id = ?`,
		companyID,
		warehouseID,
		productID,
	).Scan(&item).Error
	if err != nil {
		return 0, err
	}
	return item.Quantity, nil
}
