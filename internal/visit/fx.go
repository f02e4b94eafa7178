package visit

import (
	"github.com/smallbiznis/pestora/internal/visit/repository"
	"github.com/smallbiznis/pestora/internal/visit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("visit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
