package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindCustomerByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Customer, error)
	FindBranchByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Branch, error)
}

var ErrNotFound = errors.New("not_found")
