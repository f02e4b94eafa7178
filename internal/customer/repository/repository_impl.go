package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/customer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindCustomerByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, name, email, phone, created_at, updated_at
		 FROM customers WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, err
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) FindBranchByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Branch, error) {
	var branch domain.Branch
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, customer_id, name, email, latitude, longitude, created_at, updated_at
		 FROM branches WHERE company_id = ? AND id = ?`,
		companyID,
		id,
	).Scan(&branch).Error
	if err != nil {
		return nil, err
	}
	if branch.ID == 0 {
		return nil, nil
	}
	return &branch, nil
}
