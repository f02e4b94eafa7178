package identity

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Identity is the resolved (operator, company) pair for a session token.
type Identity struct {
	OperatorID snowflake.ID
	CompanyID  snowflake.ID
}

// Provider resolves a session token to an identity. Implementations:
// live (profile table lookup) and cached (redis in front of live),
// selected by configuration.
type Provider interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

var (
	ErrInvalidToken = errors.New("invalid_token")
	ErrNotFound     = errors.New("session_not_found")
)

// Operator is a field technician profile row. SessionToken is managed by
// the out-of-scope authentication flow; this core only reads it.
type Operator struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CompanyID    snowflake.ID `gorm:"not null;index" json:"company_id"`
	Name         string       `gorm:"not null" json:"name"`
	Email        string       `json:"email,omitempty"`
	SessionToken string       `gorm:"index" json:"-"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
