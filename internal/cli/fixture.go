package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/familytree/ledger/domain/relatives"
)

// Fixture is a seed file: accounts with optional profiles, then the
// relations between them.
type Fixture struct {
	Users     []FixtureUser     `yaml:"users"`
	Relations []FixtureRelation `yaml:"relations"`
}

type FixtureUser struct {
	Username string         `yaml:"username"`
	Email    string         `yaml:"email"`
	Password string         `yaml:"password"`
	Admin    bool           `yaml:"admin"`
	Person   *FixturePerson `yaml:"person"`
}

type FixturePerson struct {
	Gender     string `yaml:"gender"`
	FirstName  string `yaml:"first_name"`
	MiddleName string `yaml:"middle_name"`
	LastName   string `yaml:"last_name"`
}

// FixtureRelation reads as "from says to is their kind".
type FixtureRelation struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
	Kind string `json:"kind" yaml:"kind"`
}

// LoadFixture reads and checks a seed file.
func LoadFixture(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseFixture(f)
}

// ParseFixture decodes a seed file and rejects unknown fields, unknown
// relation kinds and relations naming users the file does not declare.
func ParseFixture(r io.Reader) (*Fixture, error) {
	var fx Fixture
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := fx.validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

func (fx *Fixture) validate() error {
	known := make(map[string]bool, len(fx.Users))
	for i, u := range fx.Users {
		name := strings.TrimSpace(u.Username)
		if name == "" {
			return fmt.Errorf("users[%d]: username is required", i)
		}
		if known[name] {
			return fmt.Errorf("users[%d]: duplicate username %q", i, name)
		}
		known[name] = true
		fx.Users[i].Username = name
	}

	var errs []error
	for i := range fx.Relations {
		rel := &fx.Relations[i]
		rel.From = strings.TrimSpace(rel.From)
		rel.To = strings.TrimSpace(rel.To)
		if !known[rel.From] {
			errs = append(errs, fmt.Errorf("relations[%d]: unknown user %q", i, rel.From))
		}
		if !known[rel.To] {
			errs = append(errs, fmt.Errorf("relations[%d]: unknown user %q", i, rel.To))
		}
		if _, err := relatives.ParseKind(rel.Kind); err != nil {
			errs = append(errs, fmt.Errorf("relations[%d]: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
