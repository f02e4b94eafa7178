package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/visit/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, companyID, id snowflake.ID) (*domain.Visit, error) {
	var visit domain.Visit
	err := db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("company_id = ? AND id = ?", companyID, id).
		Limit(1).
		Find(&visit).Error
	if err != nil {
		return nil, err
	}
	if visit.ID == 0 {
		return nil, nil
	}
	return &visit, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, visit *domain.Visit) error {
	return db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("company_id = ? AND id = ?", visit.CompanyID, visit.ID).
		Select(
			"checklist",
			"pest_types",
			"visit_type",
			"visit_types_all",
			"explanation",
			"notes",
			"paid_amount",
			"legacy_notes",
			"report_number",
			"status",
			"photo_url",
			"photo_path",
			"previous_visit_id",
			"updated_at",
		).
		Updates(visit).Error
}

func (r *repo) FindPreviousCompleted(ctx context.Context, db *gorm.DB, companyID, operatorID snowflake.ID, before time.Time, excludeID snowflake.ID) (*domain.Visit, error) {
	var visit domain.Visit
	err := db.WithContext(ctx).
		Model(&domain.Visit{}).
		Where("company_id = ? AND operator_id = ? AND status = ? AND scheduled_at < ? AND id <> ?",
			companyID, operatorID, domain.StatusCompleted, before, excludeID).
		Order("scheduled_at desc, id desc").
		Limit(1).
		Find(&visit).Error
	if err != nil {
		return nil, err
	}
	if visit.ID == 0 {
		return nil, nil
	}
	return &visit, nil
}
