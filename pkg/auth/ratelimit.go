package auth

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/familytree/ledger/internal/config"
	"github.com/familytree/ledger/pkg/apperror"
)

// idleLimiterTTL is how long an unused per-client limiter is kept
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginLimiter throttles login attempts per client key (usually the IP)
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewLoginLimiter creates a limiter from the auth config
func NewLoginLimiter(cfg *config.Config) *LoginLimiter {
	return newLoginLimiter(cfg.Auth.LoginRatePerMin, cfg.Auth.LoginBurst)
}

func newLoginLimiter(perMinute, burst int) *LoginLimiter {
	return &LoginLimiter{
		limiters: make(map[string]*clientLimiter),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow reports whether another attempt from key is allowed now
func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.evictIdle(now)

	cl, ok := l.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// evictIdle drops limiters not used within idleLimiterTTL. Caller holds mu.
func (l *LoginLimiter) evictIdle(now time.Time) {
	for key, cl := range l.limiters {
		if now.Sub(cl.lastSeen) > idleLimiterTTL {
			delete(l.limiters, key)
		}
	}
}

// Middleware rejects requests over the limit with 429
func (l *LoginLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return apperror.ErrTooManyRequests.WithMessage("Too many login attempts, try again later")
			}
			return next(c)
		}
	}
}
