package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
)

// BaseSuite gives a suite its own database and wraps each test in a
// transaction that is rolled back afterwards.
//
// Usage:
//
//	type LedgerSuite struct {
//	    testutil.BaseSuite
//	}
//
//	func (s *LedgerSuite) TestSomething() {
//	    alice := s.Member("alice", "Alice")
//	    resp := s.Client.GET("/api/relatives", testutil.WithAuth(alice.Token))
//	}
//
// Suites are skipped when no PostgreSQL server is reachable through the
// POSTGRES_* variables.
type BaseSuite struct {
	suite.Suite
	TestDB *TestDB
	Server *TestServer
	Client *HTTPClient
	Ctx    context.Context

	dbSuffix string
}

// SetDBSuffix names the suite's database. Call before BaseSuite.SetupSuite.
func (s *BaseSuite) SetDBSuffix(suffix string) {
	s.dbSuffix = suffix
}

// SetupSuite creates the suite database
func (s *BaseSuite) SetupSuite() {
	s.Ctx = context.Background()

	suffix := s.dbSuffix
	if suffix == "" {
		suffix = "suite"
	}

	testDB, err := SetupTestDB(s.Ctx, suffix)
	if err != nil {
		s.T().Skipf("postgres unavailable: %v", err)
	}
	s.TestDB = testDB
}

// TearDownSuite drops the suite database
func (s *BaseSuite) TearDownSuite() {
	if s.TestDB != nil {
		s.TestDB.Close()
	}
}

// SetupTest opens the test transaction and rebuilds the server on it
func (s *BaseSuite) SetupTest() {
	s.Require().NoError(s.TestDB.BeginTestTx(s.Ctx), "failed to begin test transaction")
	s.Server = NewTestServer(s.TestDB.Config, s.TestDB.GetDB())
	s.Client = NewHTTPClient(s.Server.Echo)
}

// TearDownTest discards everything the test wrote
func (s *BaseSuite) TearDownTest() {
	_ = s.TestDB.RollbackTestTx()
}

// DB returns the test transaction
func (s *BaseSuite) DB() bun.IDB {
	return s.TestDB.GetDB()
}
