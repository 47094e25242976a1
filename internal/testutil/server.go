package testutil

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/internal/config"
	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/auth"
	"github.com/familytree/ledger/pkg/logger"
)

// TestServer is the API wired by hand on one database handle, usually the
// per-test transaction.
type TestServer struct {
	Echo      *echo.Echo
	Config    *config.Config
	Tokens    *auth.TokenManager
	Users     *users.Service
	People    *people.Service
	Relatives *relatives.Service
}

// NewTestServer registers every API route on db
func NewTestServer(cfg *config.Config, db bun.IDB) *TestServer {
	log := logger.Discard()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(log)

	tokens := auth.NewTokenManager(cfg)
	authMiddleware := auth.NewMiddleware(tokens, log)

	usersSvc := users.NewService(users.NewRepository(db, log), tokens, log)
	users.RegisterRoutes(e, users.NewHandler(usersSvc), authMiddleware, auth.NewLoginLimiter(cfg))

	peopleSvc := people.NewService(people.NewRepository(db, log), log)
	people.RegisterRoutes(e, people.NewHandler(peopleSvc), authMiddleware)

	relativesSvc := relatives.NewService(
		relatives.NewRepository(db, log),
		relatives.NewIdentityStore(usersSvc, peopleSvc),
		log,
	)
	relatives.RegisterRoutes(e, relatives.NewHandler(relativesSvc), authMiddleware)

	return &TestServer{
		Echo:      e,
		Config:    cfg,
		Tokens:    tokens,
		Users:     usersSvc,
		People:    peopleSvc,
		Relatives: relativesSvc,
	}
}
