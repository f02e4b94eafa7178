package consumption

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BiocidalUsage is one persisted dosage row of a completed visit.
type BiocidalUsage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID snowflake.ID `gorm:"not null;index" json:"company_id"`
	VisitID   snowflake.ID `gorm:"not null;index" json:"visit_id"`
	ProductID snowflake.ID `gorm:"not null" json:"product_id"`
	Quantity  string       `gorm:"not null" json:"quantity"`
	Unit      string       `json:"unit,omitempty"`
	Dosage    string       `json:"dosage,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
