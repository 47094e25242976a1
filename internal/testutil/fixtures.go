package testutil

import (
	"github.com/google/uuid"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/pkg/auth"
)

// TestPassword is the password of every fixture user.
const TestPassword = "correct-horse-battery"

// Member is a registered fixture user with an access token
type Member struct {
	ID       uuid.UUID
	Username string
	Token    string
}

// Register creates a user without a profile
func (s *BaseSuite) Register(username string) Member {
	u, err := s.Server.Users.Register(s.Ctx, users.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: TestPassword,
	})
	s.Require().NoError(err)

	token, _, err := s.Server.Tokens.Issue(auth.AuthUser{ID: u.ID, Username: u.Username, IsAdmin: u.IsAdmin})
	s.Require().NoError(err)

	return Member{ID: u.ID, Username: u.Username, Token: token}
}

// Member creates a user with a completed profile
func (s *BaseSuite) Member(username, firstName string) Member {
	m := s.Register(username)
	gender := string(people.GenderOther)
	last := "Tester"
	_, err := s.Server.People.Upsert(s.Ctx, m.ID, people.UpsertRequest{
		FirstName: &firstName,
		LastName:  &last,
		Gender:    &gender,
	})
	s.Require().NoError(err)
	return m
}

// Admin returns a token for m with the admin claim
func (s *BaseSuite) Admin(m Member) string {
	token, _, err := s.Server.Tokens.Issue(auth.AuthUser{ID: m.ID, Username: m.Username, IsAdmin: true})
	s.Require().NoError(err)
	return token
}
