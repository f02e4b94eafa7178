package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/product/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindBiocidalByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.BiocidalProduct, error) {
	var product domain.BiocidalProduct
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, name, unit, created_at, updated_at
		 FROM biocidal_products WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindPaidByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.PaidProduct, error) {
	var product domain.PaidProduct
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, name, unit, list_price, created_at, updated_at
		 FROM paid_products WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, err
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) FindCustomerPrice(ctx context.Context, db *gorm.DB, companyID, customerID, productID snowflake.ID) (*domain.CustomerPrice, error) {
	var override domain.CustomerPrice
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, customer_id, product_id, price, created_at, updated_at
		 FROM customer_prices WHERE company_id = ? AND customer_id = ? AND product_id = ?`,
		companyID,
		customerID,
		productID,
	).Scan(&override).Error
	if err != nil {
		return nil, err
	}
	if override.ID == 0 {
		return nil, nil
	}
	return &override, nil
}
