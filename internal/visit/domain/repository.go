package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*Visit, error)
	Update(ctx context.Context, db *gorm.DB, visit *Visit) error
	// FindPreviousCompleted returns the operator's most recent completed
	// visit scheduled before the given time, excluding the visit itself.
	FindPreviousCompleted(ctx context.Context, db *gorm.DB, companyID, operatorID snowflake.ID, before time.Time, excludeID snowflake.ID) (*Visit, error)
}
