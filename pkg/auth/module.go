package auth

import "go.uber.org/fx"

// Module provides token handling, the auth middleware and the login limiter
var Module = fx.Module("auth",
	fx.Provide(
		NewTokenManager,
		NewMiddleware,
		NewLoginLimiter,
	),
)
