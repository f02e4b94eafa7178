package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/pestora/internal/cache"
	"github.com/smallbiznis/pestora/internal/product/domain"
	"github.com/smallbiznis/pestora/internal/tenantctx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  domain.Repository
	Cache cache.PriceResolverCache
}

type Resolver struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	cache cache.PriceResolverCache
}

func NewResolver(p Params) domain.PriceResolver {
	return &Resolver{
		db:    p.DB,
		log:   p.Log.Named("product.price_resolver"),
		repo:  p.Repo,
		cache: p.Cache,
	}
}

// EffectivePrice applies the override-wins rule. A product that cannot be
// found resolves to 0 rather than an error so a stale line never blocks a
// visit save.
func (r *Resolver) EffectivePrice(ctx context.Context, customerID, productID snowflake.ID) (float64, error) {
	companyID, ok := tenantctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return 0, domain.ErrInvalidCompany
	}

	override, err := r.findOverride(ctx, companyID, customerID, productID)
	if err != nil {
		return 0, err
	}
	if override != nil {
		return override.Price, nil
	}

	product, err := r.findPaidProduct(ctx, companyID, productID)
	if err != nil {
		return 0, err
	}
	if product == nil {
		r.log.Warn("paid product not found, resolving price to 0",
			zap.String("product_id", productID.String()),
		)
		return 0, nil
	}
	return product.ListPrice, nil
}

func (r *Resolver) findOverride(ctx context.Context, companyID, customerID, productID snowflake.ID) (*domain.CustomerPrice, error) {
	if cached, ok := r.cache.GetOverride(companyID.String(), customerID.String(), productID.String()); ok {
		return cached, nil
	}
	override, err := r.repo.FindCustomerPrice(ctx, r.db, companyID, customerID, productID)
	if err != nil {
		return nil, err
	}
	r.cache.SetOverride(companyID.String(), customerID.String(), productID.String(), override)
	return override, nil
}

func (r *Resolver) findPaidProduct(ctx context.Context, companyID, productID snowflake.ID) (*domain.PaidProduct, error) {
	if cached, ok := r.cache.GetPaidProduct(companyID.String(), productID.String()); ok {
		return cached, nil
	}
	product, err := r.repo.FindPaidByID(ctx, r.db, companyID, productID)
	if err != nil {
		return nil, err
	}
	r.cache.SetPaidProduct(companyID.String(), productID.String(), product)
	return product, nil
}
