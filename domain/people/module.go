package people

import "go.uber.org/fx"

// Module provides the people domain
var Module = fx.Module("people",
	fx.Provide(NewRepository),
	fx.Provide(NewService),
	fx.Provide(NewHandler),
	fx.Invoke(RegisterRoutes),
)
