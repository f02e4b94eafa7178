package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindBiocidalByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*BiocidalProduct, error)
	FindPaidByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*PaidProduct, error)
	FindCustomerPrice(ctx context.Context, db *gorm.DB, companyID, customerID, productID snowflake.ID) (*CustomerPrice, error)
}
