package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/familytree/ledger/domain/people"
	"github.com/familytree/ledger/domain/relatives"
	"github.com/familytree/ledger/domain/users"
	"github.com/familytree/ledger/pkg/logger"
)

type accountStore interface {
	Register(ctx context.Context, req users.RegisterRequest) (*users.User, error)
	FindByLogin(ctx context.Context, login string) (*users.User, error)
	SetAdmin(ctx context.Context, id uuid.UUID, admin bool) error
}

type profileStore interface {
	Upsert(ctx context.Context, userID uuid.UUID, req people.UpsertRequest) (*people.UpsertResponse, error)
}

type relationLedger interface {
	ValidateCandidate(ctx context.Context, actingUserID, counterpartUserID uuid.UUID, kind relatives.Kind) (relatives.Rejection, error)
	CreateRelation(ctx context.Context, actingUserID, counterpartUserID uuid.UUID, kind relatives.Kind) error
}

// SeedReport summarizes what a seed run wrote.
type SeedReport struct {
	UsersCreated     int               `json:"users_created" yaml:"users_created"`
	UsersReused      int               `json:"users_reused" yaml:"users_reused"`
	ProfilesSaved    int               `json:"profiles_saved" yaml:"profiles_saved"`
	RelationsCreated int               `json:"relations_created" yaml:"relations_created"`
	Skipped          []SkippedRelation `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type SkippedRelation struct {
	FixtureRelation `yaml:",inline"`
	Reason          string `json:"reason" yaml:"reason"`
}

// Seeder applies a Fixture through the domain services, so relations pass
// the same validation as the API.
type Seeder struct {
	accounts accountStore
	profiles profileStore
	ledger   relationLedger
	log      *slog.Logger
}

func NewSeeder(accounts accountStore, profiles profileStore, ledger relationLedger, log *slog.Logger) *Seeder {
	return &Seeder{
		accounts: accounts,
		profiles: profiles,
		ledger:   ledger,
		log:      log.With(logger.Scope("cli.seed")),
	}
}

// Apply writes the fixture. Existing accounts are reused; rejected
// relations are skipped and listed in the report.
func (s *Seeder) Apply(ctx context.Context, fx *Fixture) (*SeedReport, error) {
	report := &SeedReport{}
	ids := make(map[string]uuid.UUID, len(fx.Users))

	for _, fu := range fx.Users {
		id, created, err := s.ensureUser(ctx, fu)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", fu.Username, err)
		}
		ids[fu.Username] = id
		if created {
			report.UsersCreated++
		} else {
			report.UsersReused++
		}

		if fu.Person != nil {
			if _, err := s.profiles.Upsert(ctx, id, fu.Person.request()); err != nil {
				return nil, fmt.Errorf("profile %q: %w", fu.Username, err)
			}
			report.ProfilesSaved++
		}
	}

	for _, rel := range fx.Relations {
		kind, err := relatives.ParseKind(rel.Kind)
		if err != nil {
			return nil, err
		}
		from, to := ids[rel.From], ids[rel.To]

		rejection, err := s.ledger.ValidateCandidate(ctx, from, to, kind)
		if err != nil {
			return nil, fmt.Errorf("validate %s -> %s: %w", rel.From, rel.To, err)
		}
		if !rejection.OK() {
			s.log.Warn("relation skipped",
				slog.String("from", rel.From),
				slog.String("to", rel.To),
				slog.String("kind", rel.Kind),
				slog.String("reason", rejection.Code()),
			)
			report.Skipped = append(report.Skipped, SkippedRelation{FixtureRelation: rel, Reason: rejection.Code()})
			continue
		}

		if err := s.ledger.CreateRelation(ctx, from, to, kind); err != nil {
			return nil, fmt.Errorf("create %s -> %s: %w", rel.From, rel.To, err)
		}
		report.RelationsCreated++
	}

	return report, nil
}

func (s *Seeder) ensureUser(ctx context.Context, fu FixtureUser) (uuid.UUID, bool, error) {
	existing, err := s.accounts.FindByLogin(ctx, fu.Username)
	if err != nil {
		return uuid.Nil, false, err
	}

	var id uuid.UUID
	created := existing == nil
	if created {
		u, err := s.accounts.Register(ctx, users.RegisterRequest{
			Username: fu.Username,
			Email:    fu.Email,
			Password: fu.Password,
		})
		if err != nil {
			return uuid.Nil, false, err
		}
		id = u.ID
	} else {
		id = existing.ID
	}

	if fu.Admin && (created || !existing.IsAdmin) {
		if err := s.accounts.SetAdmin(ctx, id, true); err != nil {
			return uuid.Nil, false, err
		}
	}
	return id, created, nil
}

func (p *FixturePerson) request() people.UpsertRequest {
	return people.UpsertRequest{
		Gender:     &p.Gender,
		FirstName:  &p.FirstName,
		MiddleName: &p.MiddleName,
		LastName:   &p.LastName,
	}
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users, profiles and relations from a YAML fixture",
	Long: `seed applies a fixture in one transaction. Users that already exist are
reused, and relations that fail validation are skipped with a warning.`,
	Example: `  ledgerctl seed --file family.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fx, err := LoadFixture(seedFile)
		if err != nil {
			return err
		}

		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		var report *SeedReport
		err = e.db.RunInTx(cmd.Context(), nil, func(ctx context.Context, tx bun.Tx) error {
			svc := newServices(e.cfg, tx, e.log)
			report, err = NewSeeder(svc.users, svc.people, svc.relatives, e.log).Apply(ctx, fx)
			return err
		})
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), output, report)
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "path to the fixture file")
	_ = seedCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(seedCmd)
}
