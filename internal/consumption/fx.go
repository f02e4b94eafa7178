package consumption

import "go.uber.org/fx"

var Module = fx.Module("consumption",
	fx.Provide(ProvideRepository),
)
