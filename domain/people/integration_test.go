package people_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/internal/testutil"
)

type PeopleSuite struct {
	testutil.BaseSuite
}

func TestPeopleSuite(t *testing.T) {
	suite.Run(t, new(PeopleSuite))
}

func (s *PeopleSuite) SetupSuite() {
	s.SetDBSuffix("people")
	s.BaseSuite.SetupSuite()
}

func (s *PeopleSuite) TestProfileLifecycle() {
	carol := s.Register("carol")

	resp := s.Client.GET("/api/profile", testutil.WithAuth(carol.Token))
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp = s.Client.PUT("/api/profile",
		testutil.WithAuth(carol.Token),
		testutil.WithJSON(map[string]string{
			"gender":      "female",
			"first_name":  "Carol",
			"middle_name": "Ann",
			"last_name":   "King",
		}))
	s.Require().Equal(http.StatusCreated, resp.StatusCode, resp.String())

	var created people.UpsertResponse
	s.Require().NoError(resp.JSON(&created))
	s.True(created.Created)
	s.Equal("Profile created successfully!", created.Message)
	s.Equal(people.GenderFemale, created.Person.Gender)

	resp = s.Client.PUT("/api/profile",
		testutil.WithAuth(carol.Token),
		testutil.WithJSON(map[string]string{
			"last_name":   "Queen",
			"middle_name": "",
		}))
	s.Require().Equal(http.StatusOK, resp.StatusCode, resp.String())

	var updated people.UpsertResponse
	s.Require().NoError(resp.JSON(&updated))
	s.False(updated.Created)
	s.Equal("Profile updated successfully!", updated.Message)

	resp = s.Client.GET("/api/profile", testutil.WithAuth(carol.Token))
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var person people.Person
	s.Require().NoError(resp.JSON(&person))
	s.Equal("Carol", person.FirstName)
	s.Equal("Queen", person.LastName)
	s.Nil(person.MiddleName)
	s.Equal(people.GenderFemale, person.Gender)
}

func (s *PeopleSuite) TestCreateRequiresNames() {
	carol := s.Register("carol")

	resp := s.Client.PUT("/api/profile",
		testutil.WithAuth(carol.Token),
		testutil.WithJSON(map[string]string{"first_name": "Carol"}))
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *PeopleSuite) TestFindByUserIDs() {
	alice := s.Member("alice", "Alice")
	bob := s.Register("bob")

	found, err := s.Server.People.FindByUserIDs(s.Ctx, []uuid.UUID{alice.ID, bob.ID})
	s.Require().NoError(err)
	s.Len(found, 1)
	s.Equal("Alice", found[alice.ID].FirstName)
}
