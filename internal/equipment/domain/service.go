package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/pestora/internal/checklist"
)

type GenerateInstancesRequest struct {
	BranchID   string
	TypeID     string
	Department string
	Count      int
}

type Service interface {
	// LoadBranchEquipment returns the branch's instances joined to their
	// type schemas, grouped by department.
	LoadBranchEquipment(ctx context.Context, branchID string) ([]DepartmentGroup, error)

	// SeedDefaults fills missing checklist entries with kind defaults
	// without overwriting values already present.
	SeedDefaults(store *checklist.Store, groups []DepartmentGroup)

	// GenerateInstances batch-creates N instances for a branch with a
	// type-derived code and a uniqueness suffix.
	GenerateInstances(ctx context.Context, req GenerateInstancesRequest) ([]EquipmentInstance, error)
}

var (
	ErrInvalidCompany = errors.New("invalid_company")
	ErrInvalidBranch  = errors.New("invalid_branch")
	ErrInvalidType    = errors.New("invalid_type")
	ErrInvalidCount   = errors.New("invalid_count")
	ErrTypeNotFound   = errors.New("type_not_found")
)
