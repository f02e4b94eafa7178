package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID) (*PaidMaterialSale, error)
	Insert(ctx context.Context, db *gorm.DB, sale *PaidMaterialSale) error
	UpdateHeader(ctx context.Context, db *gorm.DB, sale *PaidMaterialSale) error
	Delete(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) error
	InsertItems(ctx context.Context, db *gorm.DB, items []SaleItem) error
	DeleteItems(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) error
	ListItems(ctx context.Context, db *gorm.DB, companyID, saleID snowflake.ID) ([]SaleItem, error)
}
