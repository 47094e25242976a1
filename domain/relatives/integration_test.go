package relatives_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/internal/testutil"
)

type LedgerSuite struct {
	testutil.BaseSuite
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupSuite() {
	s.SetDBSuffix("relatives")
	s.BaseSuite.SetupSuite()
}

func (s *LedgerSuite) edge(owner, counterpart uuid.UUID) *relatives.Relative {
	var edges []relatives.Relative
	err := s.DB().NewSelect().
		Model(&edges).
		Where("owner_user_id = ?", owner).
		Where("counterpart_user_id = ?", counterpart).
		Scan(s.Ctx)
	s.Require().NoError(err)
	if len(edges) == 0 {
		return nil
	}
	s.Require().Len(edges, 1)
	return &edges[0]
}

func (s *LedgerSuite) countEdges() int {
	n, err := s.DB().NewSelect().Model((*relatives.Relative)(nil)).Count(s.Ctx)
	s.Require().NoError(err)
	return n
}

func (s *LedgerSuite) TestCreateStoresBothEdges() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")

	resp := s.Client.POST("/api/relatives",
		testutil.WithAuth(alice.Token),
		testutil.WithJSON(map[string]string{
			"counterpart_user_id": bob.ID.String(),
			"relation_kind":       "PARENT",
		}))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, resp.String())

	forward := s.edge(alice.ID, bob.ID)
	reverse := s.edge(bob.ID, alice.ID)
	s.Require().NotNil(forward)
	s.Require().NotNil(reverse)
	s.Equal(relatives.KindParent, forward.Kind)
	s.Equal(relatives.KindChild, reverse.Kind)
	s.Equal(2, s.countEdges())

	var details []relatives.RelationDetail
	resp = s.Client.GET("/api/relatives", testutil.WithAuth(alice.Token))
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	s.Require().NoError(resp.JSON(&details))
	s.Require().Len(details, 1)
	s.Equal("Bob", details[0].FirstName)
	s.Equal(relatives.KindParent, details[0].RelationKind)
}

func (s *LedgerSuite) TestDuplicateFromConstraint() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")

	s.Require().NoError(s.Server.Relatives.CreateRelation(s.Ctx, alice.ID, bob.ID, relatives.KindSpouse))

	// skipping validation leaves the unique constraint to reject it
	err := s.Server.Relatives.CreateRelation(s.Ctx, bob.ID, alice.ID, relatives.KindSibling)
	s.ErrorIs(err, relatives.ErrDuplicateRelation)

	s.Equal(2, s.countEdges())
	s.Equal(relatives.KindSpouse, s.edge(bob.ID, alice.ID).Kind)
}

func (s *LedgerSuite) TestPartialConflictRollsBack() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")

	_, err := s.DB().NewInsert().Model(&relatives.Relative{
		OwnerUserID:       bob.ID,
		CounterpartUserID: alice.ID,
		Kind:              relatives.KindChild,
	}).Exec(s.Ctx)
	s.Require().NoError(err)

	err = s.Server.Relatives.CreateRelation(s.Ctx, alice.ID, bob.ID, relatives.KindParent)
	s.ErrorIs(err, relatives.ErrDuplicateRelation)
	s.Nil(s.edge(alice.ID, bob.ID))
	s.Equal(1, s.countEdges())
}

func (s *LedgerSuite) TestSelfLoopRejectedByStore() {
	alice := s.Member("alice", "Alice")

	_, err := s.DB().NewInsert().Model(&relatives.Relative{
		OwnerUserID:       alice.ID,
		CounterpartUserID: alice.ID,
		Kind:              relatives.KindSibling,
	}).Exec(s.Ctx)
	s.Error(err)
}

func (s *LedgerSuite) TestValidateRejections() {
	alice := s.Member("alice", "Alice")
	noProfile := s.Register("nobody")

	tests := []struct {
		counterpart uuid.UUID
		reason      string
	}{
		{uuid.New(), "counterpart_not_found"},
		{alice.ID, "self_relation"},
		{noProfile.ID, "incomplete_profile"},
	}
	for _, tt := range tests {
		var out relatives.ValidationResponse
		resp := s.Client.POST("/api/relatives/validate",
			testutil.WithAuth(alice.Token),
			testutil.WithJSON(map[string]string{
				"counterpart_user_id": tt.counterpart.String(),
				"relation_kind":       "COUSIN",
			}))
		s.Require().Equal(http.StatusOK, resp.StatusCode)
		s.Require().NoError(resp.JSON(&out))
		s.False(out.Accepted)
		s.Equal(tt.reason, out.Reason)
	}
}

func (s *LedgerSuite) TestDeleteIsIdempotent() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")
	s.Require().NoError(s.Server.Relatives.CreateRelation(s.Ctx, alice.ID, bob.ID, relatives.KindGrandparent))

	resp := s.Client.DELETE("/api/relatives/"+bob.ID.String(), testutil.WithAuth(alice.Token))
	s.Equal(http.StatusNoContent, resp.StatusCode)
	s.Zero(s.countEdges())

	resp = s.Client.DELETE("/api/relatives/"+bob.ID.String(), testutil.WithAuth(alice.Token))
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *LedgerSuite) TestDeleteWithMissingReverse() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")
	_, err := s.DB().NewInsert().Model(&relatives.Relative{
		OwnerUserID:       alice.ID,
		CounterpartUserID: bob.ID,
		Kind:              relatives.KindParent,
	}).Exec(s.Ctx)
	s.Require().NoError(err)

	deleted, err := s.Server.Relatives.DeleteRelation(s.Ctx, alice.ID, bob.ID)
	s.Require().NoError(err)
	s.True(deleted)
	s.Zero(s.countEdges())
}

func (s *LedgerSuite) TestCandidatesExcludeSelfAndIncompleteProfiles() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")
	s.Register("nobody")

	candidates, err := s.Server.Relatives.ListCandidateCounterparts(s.Ctx, alice.ID)
	s.Require().NoError(err)
	s.Require().Len(candidates, 1)
	s.Equal(bob.ID, candidates[0].ID)
	s.Equal("Bob Tester", candidates[0].DisplayName)
}

func (s *LedgerSuite) TestAuditRepairsOrphan() {
	alice := s.Member("alice", "Alice")
	bob := s.Member("bob", "Bob")
	_, err := s.DB().NewInsert().Model(&relatives.Relative{
		OwnerUserID:       alice.ID,
		CounterpartUserID: bob.ID,
		Kind:              relatives.KindAuntUncle,
	}).Exec(s.Ctx)
	s.Require().NoError(err)

	report, err := s.Server.Relatives.AuditReverseEdges(s.Ctx, true)
	s.Require().NoError(err)
	s.Len(report.Orphans, 1)
	s.Equal(1, report.Repaired)

	reverse := s.edge(bob.ID, alice.ID)
	s.Require().NotNil(reverse)
	s.Equal(relatives.KindNieceNephew, reverse.Kind)
}
