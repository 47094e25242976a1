package relatives

import (
	"go.uber.org/fx"
)

// Module provides the relation ledger
var Module = fx.Module("relatives",
	fx.Provide(
		fx.Annotate(NewRepository, fx.As(new(Store))),
		NewIdentityStore,
		NewService,
		NewHandler,
	),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(RegisterAuditJob),
)
