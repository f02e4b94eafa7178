package consumption

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ReplaceForVisit deletes all prior usage rows for the visit and
	// inserts the given rows. Edit mode recreates rather than diffs.
	ReplaceForVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID, rows []BiocidalUsage) error
	ListByVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID) ([]BiocidalUsage, error)
}

type repo struct{}

func ProvideRepository() Repository {
	return &repo{}
}

func (r *repo) ReplaceForVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID, rows []BiocidalUsage) error {
	err := db.WithContext(ctx).
		Where("company_id = ? AND visit_id = ?", companyID, visitID).
		Delete(&BiocidalUsage{}).Error
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *repo) ListByVisit(ctx context.Context, db *gorm.DB, companyID, visitID snowflake.ID) ([]BiocidalUsage, error) {
	var rows []BiocidalUsage
	err := db.WithContext(ctx).
		Model(&BiocidalUsage{}).
		Where("company_id = ? AND visit_id = ?", companyID, visitID).
		Order("created_at asc, id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
