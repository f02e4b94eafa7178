package product

import (
	"github.com/smallbiznis/pestora/internal/cache"
	"github.com/smallbiznis/pestora/internal/product/repository"
	"github.com/smallbiznis/pestora/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product",
	fx.Provide(cache.NewPriceResolverCache),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewResolver),
)
