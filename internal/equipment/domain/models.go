package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/checklist"
)

// PropertyDescriptor defines one checkable property of an equipment type.
type PropertyDescriptor struct {
	Kind  checklist.Kind `json:"kind"`
	Label string         `json:"label"`
}

// PropertySchema maps property keys to their descriptors.
type PropertySchema map[string]PropertyDescriptor

// EquipmentType defines a kind of installable device and its check schema.
type EquipmentType struct {
	ID        snowflake.ID   `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID   `gorm:"not null;index" json:"company_id"`
	Name      string         `gorm:"not null" json:"name"`
	Schema    PropertySchema `gorm:"type:jsonb;serializer:json" json:"schema"`
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// EquipmentInstance is one physical unit installed at a branch. Immutable
// after creation; visit checks populate the visit's checklist, not the row.
type EquipmentInstance struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID  snowflake.ID `gorm:"not null;index" json:"company_id"`
	BranchID   snowflake.ID `gorm:"not null;index" json:"branch_id"`
	TypeID     snowflake.ID `gorm:"not null;index" json:"type_id"`
	Code       string       `gorm:"not null" json:"code"`
	Department string       `gorm:"not null" json:"department"`
	SortOrder  int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TypeNamePlaceholder is shown when an instance's type row is missing.
const TypeNamePlaceholder = "Bilinmeyen Tip"

// ResolvedInstance is an instance joined to its type. Schema is always
// non-nil; TypeName falls back to TypeNamePlaceholder.
type ResolvedInstance struct {
	Instance EquipmentInstance `json:"instance"`
	TypeName string            `json:"type_name"`
	Schema   PropertySchema    `json:"schema"`
}

// DepartmentGroup groups resolved instances under one department label,
// preserving stored order.
type DepartmentGroup struct {
	Department string             `json:"department"`
	Instances  []ResolvedInstance `json:"instances"`
}
