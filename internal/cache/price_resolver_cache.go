package cache

import (
	"strings"
	"time"

	productdomain "github.com/smallbiznis/pestora/internal/product/domain"
)

const (
	defaultProductTTL  = 5 * time.Minute
	defaultOverrideTTL = 1 * time.Minute
)

// PriceResolverCache stores hot-path lookups for paid-material pricing.
type PriceResolverCache interface {
	GetPaidProduct(companyID, productID string) (*productdomain.PaidProduct, bool)
	SetPaidProduct(companyID, productID string, product *productdomain.PaidProduct)
	GetOverride(companyID, customerID, productID string) (*productdomain.CustomerPrice, bool)
	SetOverride(companyID, customerID, productID string, override *productdomain.CustomerPrice)
}

type priceResolverCache struct {
	products    Cache[string, *productdomain.PaidProduct]
	overrides   Cache[string, *productdomain.CustomerPrice]
	productTTL  time.Duration
	overrideTTL time.Duration
}

// NewPriceResolverCache returns an in-memory cache tuned for visit saves.
func NewPriceResolverCache() PriceResolverCache {
	return &priceResolverCache{
		products:    NewTTLCache[string, *productdomain.PaidProduct](),
		overrides:   NewTTLCache[string, *productdomain.CustomerPrice](),
		productTTL:  defaultProductTTL,
		overrideTTL: defaultOverrideTTL,
	}
}

func (c *priceResolverCache) GetPaidProduct(companyID, productID string) (*productdomain.PaidProduct, bool) {
	return c.products.Get(cacheKey(companyID, productID))
}

func (c *priceResolverCache) SetPaidProduct(companyID, productID string, product *productdomain.PaidProduct) {
	if product == nil {
		return
	}
	c.products.Set(cacheKey(companyID, productID), product, c.productTTL)
}

func (c *priceResolverCache) GetOverride(companyID, customerID, productID string) (*productdomain.CustomerPrice, bool) {
	return c.overrides.Get(cacheKey(companyID, customerID, productID))
}

func (c *priceResolverCache) SetOverride(companyID, customerID, productID string, override *productdomain.CustomerPrice) {
	if override == nil {
		return
	}
	c.overrides.Set(cacheKey(companyID, customerID, productID), override, c.overrideTTL)
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "|")
}
