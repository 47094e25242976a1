package people

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/familytree/ledger/pkg/apperror"
)

func strPtr(s string) *string { return &s }

func TestParseGender(t *testing.T) {
	for _, in := range []string{"MALE", "male", " Female ", "other"} {
		_, err := ParseGender(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseGender("unknown")
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	p := &Person{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, "Ada Lovelace", p.DisplayName())

	p.MiddleName = strPtr("King")
	assert.Equal(t, "Ada King Lovelace", p.DisplayName())
}

func TestUpsertRequest_Create(t *testing.T) {
	t.Run("requires core fields", func(t *testing.T) {
		err := UpsertRequest{FirstName: strPtr("Ada")}.applyTo(&Person{}, true)
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("fills every field", func(t *testing.T) {
		p := &Person{}
		err := UpsertRequest{
			Gender:     strPtr("female"),
			FirstName:  strPtr(" Ada "),
			MiddleName: strPtr("King"),
			LastName:   strPtr("Lovelace"),
		}.applyTo(p, true)
		require.NoError(t, err)
		assert.Equal(t, GenderFemale, p.Gender)
		assert.Equal(t, "Ada", p.FirstName)
		require.NotNil(t, p.MiddleName)
		assert.Equal(t, "King", *p.MiddleName)
	})
}

func TestUpsertRequest_PartialUpdate(t *testing.T) {
	existing := func() *Person {
		return &Person{Gender: GenderMale, FirstName: "Bob", MiddleName: strPtr("J"), LastName: "Smith"}
	}

	tests := []struct {
		name    string
		req     UpsertRequest
		check   func(t *testing.T, p *Person)
		wantErr bool
	}{
		{
			name: "only last name",
			req:  UpsertRequest{LastName: strPtr("Jones")},
			check: func(t *testing.T, p *Person) {
				assert.Equal(t, "Bob", p.FirstName)
				assert.Equal(t, "Jones", p.LastName)
				assert.Equal(t, GenderMale, p.Gender)
				require.NotNil(t, p.MiddleName)
			},
		},
		{
			name: "empty middle name clears it",
			req:  UpsertRequest{MiddleName: strPtr("  ")},
			check: func(t *testing.T, p *Person) {
				assert.Nil(t, p.MiddleName)
			},
		},
		{
			name:    "empty first name rejected",
			req:     UpsertRequest{FirstName: strPtr("")},
			wantErr: true,
		},
		{
			name:    "bad gender rejected",
			req:     UpsertRequest{Gender: strPtr("robot")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := existing()
			err := tt.req.applyTo(p, false)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			tt.check(t, p)
		})
	}
}
