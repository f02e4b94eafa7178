package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/equipment/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListByBranch(ctx context.Context, db *gorm.DB, companyID, branchID snowflake.ID) ([]domain.EquipmentInstance, error) {
	var instances []domain.EquipmentInstance
	err := db.WithContext(ctx).
		Model(&domain.EquipmentInstance{}).
		Where("company_id = ? AND branch_id = ?", companyID, branchID).
		Order("department asc, sort_order asc, id asc").
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

func (r *repo) FindTypes(ctx context.Context, db *gorm.DB, companyID snowflake.ID, ids []snowflake.ID) ([]domain.EquipmentType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var types []domain.EquipmentType
	err := db.WithContext(ctx).
		Model(&domain.EquipmentType{}).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&types).Error
	if err != nil {
		return nil, err
	}
	return types, nil
}

func (r *repo) InsertInstances(ctx context.Context, db *gorm.DB, instances []domain.EquipmentInstance) error {
	if len(instances) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&instances).Error
}
