package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/sale/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID) (*domain.PaidMaterialSale, error) {
	var sale domain.PaidMaterialSale
	err := db.WithContext(ctx).Raw(
		`SELECT id, company_id, visit_id, customer_id, total_amount, status, created_at, updated_at
		 FROM paid_material_sales WHERE company_id = ? AND visit_id = ?`,
		companyID,
		visitID,
	).Scan(&sale).Error
	if err != nil {
		return nil, err
	}
	if sale.ID == 0 {
		return nil, nil
	}
	return &sale, nil
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, sale *domain.PaidMaterialSale) error {
	return db.WithContext(ctx).Create(sale).Error
}

func (r *repo) UpdateHeader(ctx context.Context, db *gorm.DB, sale *domain.PaidMaterialSale) error {
	return db.WithContext(ctx).Exec(
		`UPDATE paid_material_sales
		 SET total_amount = ?, status = ?, updated_at = ?
		 WHERE company_id = ? AND id = ?`,
		sale.TotalAmount,
		sale.Status,
		sale.UpdatedAt,
		sale.CompanyID,
		sale.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) error {
	if err := r.DeleteItems(ctx, db, companyID, saleID); err != nil {
		return err
	}
	return db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, saleID).
		Delete(&domain.PaidMaterialSale{}).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

func (r *repo) DeleteItems(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) error {
	return db.WithContext(ctx).
		Where("company_id = ? AND sale_id = ?", companyID, saleID).
		Delete(&domain.SaleItem{}).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) ([]domain.SaleItem, error) {
	var items []domain.SaleItem
	err := db.WithContext(ctx).
		Model(&domain.SaleItem{}).
		Where("company_id = ? AND sale_id = ?", companyID, saleID).
		Order("created_at asc, id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
