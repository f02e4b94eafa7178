package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

// PriceResolver resolves the unit price charged for a paid product at the
// moment of use: a customer-specific override wins over the list price;
// an unknown product resolves to 0. The resolved value is persisted on
// the sale item so historical sales survive later price changes.
type PriceResolver interface {
	EffectivePrice(ctx context.Context, customerID, productID snowflake.ID) (float64, error)
}

var ErrInvalidCompany = errors.New("invalid_company")
