package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Visit is one service event at a customer branch. It is created by the
// out-of-scope scheduling flow and mutated exactly once by Complete.
type Visit struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID  `gorm:"not null;index" json:"company_id"`
	CustomerID snowflake.ID  `gorm:"not null;index" json:"customer_id"`
	BranchID   *snowflake.ID `gorm:"index" json:"branch_id,omitempty"`
	OperatorID snowflake.ID  `gorm:"not null;index" json:"operator_id"`

	ScheduledAt time.Time `gorm:"not null" json:"scheduled_at"`

	// Checklist holds the equipment check results keyed by instance id
	// then property key; see internal/checklist for the value encoding.
	Checklist datatypes.JSON `gorm:"type:jsonb" json:"checklist,omitempty"`

	PestTypes datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"pest_types,omitempty"`
	// VisitType is the primary tag; the schema models a single value.
	// VisitTypesAll records the full multi-select so nothing is lost.
	VisitType     string                      `json:"visit_type,omitempty"`
	VisitTypesAll datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"visit_types_all,omitempty"`

	Explanation string `json:"explanation,omitempty"`
	Notes       string `json:"notes,omitempty"`
	PaidAmount  string `json:"paid_amount,omitempty"`
	// LegacyNotes keeps the packed single-column form for rows written
	// by the previous system and for exports that still read it.
	LegacyNotes string `json:"-"`

	ReportNumber string `json:"report_number,omitempty"`
	Status       Status `gorm:"not null;default:'scheduled'" json:"status"`

	PhotoURL  *string `json:"photo_url,omitempty"`
	PhotoPath *string `json:"photo_path,omitempty"`

	// PreviousVisitID links the operator's chronologically preceding
	// completed visit within the same company.
	PreviousVisitID *snowflake.ID `json:"previous_visit_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
