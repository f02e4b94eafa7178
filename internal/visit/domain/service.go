package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/pestora/internal/checklist"
	"github.com/smallbiznis/pestora/internal/consumption"
	equipmentdomain "github.com/smallbiznis/pestora/internal/equipment/domain"
)

// PhotoUpload is a pending report photo captured by the operator.
type PhotoUpload struct {
	Data []byte
	Ext  string
}

type CompleteRequest struct {
	VisitID      string
	ReportNumber string

	VisitTypes []string
	PestTypes  []string

	Checklist *checklist.Store
	Ledger    *consumption.Ledger
	// NoPaidProducts flags that no billable material was used; paid
	// lines are then ignored entirely.
	NoPaidProducts bool

	PaidAmount string
	Notes      string
	// Explanation is the customer-facing text. When ExplanationEdited
	// is false it is regenerated from the tag sets on save.
	Explanation       string
	ExplanationEdited bool

	Photo      *PhotoUpload
	ClearPhoto bool

	SendEmail bool
}

type DetailResponse struct {
	Visit     Visit                             `json:"visit"`
	Equipment []equipmentdomain.DepartmentGroup `json:"equipment"`
	Checklist *checklist.Store                  `json:"checklist"`
	// Ledger is rebuilt from the persisted usage and sale rows so the
	// form opens in edit mode with the saved lines.
	Ledger *consumption.Ledger `json:"ledger"`

	PreviousVisit *Visit   `json:"previous_visit,omitempty"`
	DistanceKM    *float64 `json:"distance_km,omitempty"`
}

type Service interface {
	Detail(ctx context.Context, visitID string) (DetailResponse, error)
	Complete(ctx context.Context, req CompleteRequest) (Visit, error)
}

var (
	ErrInvalidCompany      = errors.New("invalid_company")
	ErrInvalidID           = errors.New("invalid_id")
	ErrNotFound            = errors.New("not_found")
	ErrMissingReportNumber = errors.New("missing_report_number")
	ErrMissingVisitType    = errors.New("missing_visit_type")
	ErrPhotoUploadFailed   = errors.New("photo_upload_failed")
)
