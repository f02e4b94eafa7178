package identity

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LiveProvider resolves identities with a fresh profile query per call.
type LiveProvider struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewLive(db *gorm.DB, log *zap.Logger) *LiveProvider {
	return &LiveProvider{db: db, log: log.Named("identity.live")}
}

func (p *LiveProvider) Resolve(ctx context.Context, token string) (Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, ErrInvalidToken
	}

	var operator Operator
	err := p.db.WithContext(ctx).Raw(
		`SELECT id, company_id FROM operators WHERE session_token = ?`,
		token,
	).Scan(&operator).Error
	if err != nil {
		return Identity{}, err
	}
	if operator.ID == 0 {
		return Identity{}, ErrNotFound
	}

	return Identity{OperatorID: operator.ID, CompanyID: operator.CompanyID}, nil
}
