package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListByBranch(ctx context.Context, db *gorm.DB, companyID, branchID snowflake.ID) ([]EquipmentInstance, error)
	FindTypes(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) ([]EquipmentType, error)
	InsertInstances(ctx context.Context, db *gorm.DB, instances []EquipmentInstance) error
}
