package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const familyYAML = `
users:
  - username: alice
    email: alice@example.com
    password: correct-horse-battery
    admin: true
    person:
      gender: FEMALE
      first_name: Alice
      last_name: Smith
  - username: " bob "
    email: bob@example.com
    password: correct-horse-battery
relations:
  - from: alice
    to: " bob"
    kind: parent
`

func TestParseFixture(t *testing.T) {
	fx, err := ParseFixture(strings.NewReader(familyYAML))
	require.NoError(t, err)

	require.Len(t, fx.Users, 2)
	assert.True(t, fx.Users[0].Admin)
	require.NotNil(t, fx.Users[0].Person)
	assert.Equal(t, "Alice", fx.Users[0].Person.FirstName)
	assert.Equal(t, "bob", fx.Users[1].Username)
	assert.Nil(t, fx.Users[1].Person)

	require.Len(t, fx.Relations, 1)
	assert.Equal(t, FixtureRelation{From: "alice", To: "bob", Kind: "parent"}, fx.Relations[0])
}

func TestParseFixture_Empty(t *testing.T) {
	fx, err := ParseFixture(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, fx.Users)
	assert.Empty(t, fx.Relations)
}

func TestParseFixture_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "unknown field",
			yaml:    "users:\n  - username: a\n    nickname: x\n",
			wantErr: "nickname",
		},
		{
			name:    "missing username",
			yaml:    "users:\n  - email: a@example.com\n",
			wantErr: "users[0]: username is required",
		},
		{
			name:    "duplicate username",
			yaml:    "users:\n  - username: a\n  - username: a\n",
			wantErr: `duplicate username "a"`,
		},
		{
			name:    "unknown user in relation",
			yaml:    "users:\n  - username: a\nrelations:\n  - {from: a, to: z, kind: PARENT}\n",
			wantErr: `relations[0]: unknown user "z"`,
		},
		{
			name:    "unknown kind",
			yaml:    "users:\n  - username: a\n  - username: b\nrelations:\n  - {from: a, to: b, kind: IN_LAW}\n",
			wantErr: `unknown relation kind "IN_LAW"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.yaml")
	require.NoError(t, os.WriteFile(path, []byte(familyYAML), 0o600))

	fx, err := LoadFixture(path)
	require.NoError(t, err)
	assert.Len(t, fx.Users, 2)

	_, err = LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
