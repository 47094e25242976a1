package relatives

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/familytree/ledger/pkg/apperror"
	"github.com/familytree/ledger/pkg/logger"
	"github.com/familytree/ledger/pkg/tracing"
)

// Service maintains relation edges and their reverse edges
type Service struct {
	store    Store
	identity IdentityStore
	log      *slog.Logger
}

// NewService creates a new relatives service
func NewService(store Store, identity IdentityStore, log *slog.Logger) *Service {
	return &Service{
		store:    store,
		identity: identity,
		log:      log.With(logger.Scope("relatives.svc")),
	}
}

// ValidateCandidate checks a candidate edge without writing anything. Checks
// run in a fixed order and the first failing one decides the rejection:
// counterpart existence, self relation, duplicate edge, then profile
// completeness of both users. The error is set only for store failures.
func (s *Service) ValidateCandidate(ctx context.Context, actingUserID, counterpartUserID uuid.UUID, kind Kind) (Rejection, error) {
	ctx, span := tracing.Start(ctx, "relatives.validate",
		attribute.String("familytree.user.id", actingUserID.String()),
		attribute.String("familytree.counterpart.id", counterpartUserID.String()),
		attribute.String("familytree.relation.kind", kind.String()),
	)
	defer span.End()

	counterpart, err := s.identity.FindUserByID(ctx, counterpartUserID)
	if err != nil {
		tracing.RecordError(span, err)
		return Accepted, err
	}
	if counterpart == nil {
		return s.reject(ctx, CounterpartNotFound, actingUserID, counterpartUserID), nil
	}

	if counterpartUserID == actingUserID {
		return s.reject(ctx, SelfRelationRejected, actingUserID, counterpartUserID), nil
	}

	existing, err := s.store.Find(ctx, actingUserID, counterpartUserID)
	if err != nil {
		tracing.RecordError(span, err)
		return Accepted, err
	}
	if existing != nil {
		return s.reject(ctx, DuplicateRelation, actingUserID, counterpartUserID), nil
	}

	for _, id := range []uuid.UUID{actingUserID, counterpartUserID} {
		complete, err := s.identity.HasCompletedProfile(ctx, id)
		if err != nil {
			tracing.RecordError(span, err)
			return Accepted, err
		}
		if !complete {
			return s.reject(ctx, IncompleteProfile, actingUserID, counterpartUserID), nil
		}
	}

	return Accepted, nil
}

func (s *Service) reject(ctx context.Context, r Rejection, actingUserID, counterpartUserID uuid.UUID) Rejection {
	relationRejections.WithLabelValues(r.Code()).Inc()
	s.log.DebugContext(ctx, "relation candidate rejected",
		slog.String("reason", r.Code()),
		slog.String("user_id", actingUserID.String()),
		slog.String("counterpart_user_id", counterpartUserID.String()),
	)
	return r
}

// CreateRelation stores (acting, counterpart, kind) and its reverse edge in
// one transaction. Callers validate first; this does not re-validate. A
// concurrent insert of the same pair surfaces as ErrDuplicateRelation.
func (s *Service) CreateRelation(ctx context.Context, actingUserID, counterpartUserID uuid.UUID, kind Kind) error {
	ctx, span := tracing.Start(ctx, "relatives.create",
		attribute.String("familytree.user.id", actingUserID.String()),
		attribute.String("familytree.counterpart.id", counterpartUserID.String()),
		attribute.String("familytree.relation.kind", kind.String()),
	)
	defer span.End()

	reverse := ReverseOf(kind)
	if reverse == "" {
		return apperror.NewValidation(fmt.Sprintf("unknown relation kind %q", kind))
	}

	err := s.store.RunInTx(ctx, func(ctx context.Context, q Queries) error {
		if err := q.Lock(ctx, pairKey(actingUserID, counterpartUserID)); err != nil {
			return err
		}
		if err := q.Insert(ctx, &Relative{
			OwnerUserID:       actingUserID,
			CounterpartUserID: counterpartUserID,
			Kind:              kind,
		}); err != nil {
			return err
		}
		return q.Insert(ctx, &Relative{
			OwnerUserID:       counterpartUserID,
			CounterpartUserID: actingUserID,
			Kind:              reverse,
		})
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateRelation) {
			s.reject(ctx, DuplicateRelation, actingUserID, counterpartUserID)
		}
		tracing.RecordError(span, err)
		return err
	}

	relationsCreated.Inc()
	s.log.InfoContext(ctx, "relation created",
		slog.String("user_id", actingUserID.String()),
		slog.String("counterpart_user_id", counterpartUserID.String()),
		slog.String("kind", kind.String()),
		slog.String("reverse_kind", reverse.String()),
	)
	return nil
}

// DeleteRelation removes the edge (acting, counterpart) and its reverse. It
// returns false when the forward edge does not exist. A missing reverse edge
// is logged and counted but does not stop the forward edge from being removed.
func (s *Service) DeleteRelation(ctx context.Context, actingUserID, counterpartUserID uuid.UUID) (bool, error) {
	ctx, span := tracing.Start(ctx, "relatives.delete",
		attribute.String("familytree.user.id", actingUserID.String()),
		attribute.String("familytree.counterpart.id", counterpartUserID.String()),
	)
	defer span.End()

	var deleted, reverseMissing bool
	err := s.store.RunInTx(ctx, func(ctx context.Context, q Queries) error {
		deleted, reverseMissing = false, false

		if err := q.Lock(ctx, pairKey(actingUserID, counterpartUserID)); err != nil {
			return err
		}

		forward, err := q.Find(ctx, actingUserID, counterpartUserID)
		if err != nil {
			return err
		}
		if forward == nil {
			return nil
		}

		reverse, err := q.Find(ctx, counterpartUserID, actingUserID)
		if err != nil {
			return err
		}
		if reverse != nil {
			if err := q.Delete(ctx, reverse.ID); err != nil {
				return err
			}
		} else {
			reverseMissing = true
		}

		if err := q.Delete(ctx, forward.ID); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}

	if reverseMissing {
		reverseEdgeMissing.WithLabelValues("delete").Inc()
		s.log.WarnContext(ctx, "reverse relation missing during delete",
			slog.String("user_id", actingUserID.String()),
			slog.String("counterpart_user_id", counterpartUserID.String()),
		)
	}
	if deleted {
		relationsDeleted.Inc()
		s.log.InfoContext(ctx, "relation deleted",
			slog.String("user_id", actingUserID.String()),
			slog.String("counterpart_user_id", counterpartUserID.String()),
		)
	}
	span.SetAttributes(attribute.Bool("familytree.relation.deleted", deleted))
	return deleted, nil
}

// ListRelationsWithDetails returns the owner's edges with the counterpart's
// name. Edges whose counterpart has no profile are left out.
func (s *Service) ListRelationsWithDetails(ctx context.Context, ownerUserID uuid.UUID) ([]RelationDetail, error) {
	ctx, span := tracing.Start(ctx, "relatives.list",
		attribute.String("familytree.user.id", ownerUserID.String()),
	)
	defer span.End()

	edges, err := s.store.ListByOwner(ctx, ownerUserID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(edges))
	for _, e := range edges {
		ids = append(ids, e.CounterpartUserID)
	}
	profiles, err := s.identity.FindPeople(ctx, ids)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	details := make([]RelationDetail, 0, len(edges))
	for _, e := range edges {
		p, ok := profiles[e.CounterpartUserID]
		if !ok {
			s.log.DebugContext(ctx, "skipping relation without counterpart profile",
				slog.String("user_id", ownerUserID.String()),
				slog.String("counterpart_user_id", e.CounterpartUserID.String()),
			)
			continue
		}
		details = append(details, RelationDetail{
			FirstName:         p.FirstName,
			MiddleName:        p.MiddleName,
			LastName:          p.LastName,
			RelationKind:      e.Kind,
			CounterpartUserID: e.CounterpartUserID,
		})
	}
	return details, nil
}

// ListCandidateCounterparts returns every user other than excludingUserID
// that has a completed profile, in storage order.
func (s *Service) ListCandidateCounterparts(ctx context.Context, excludingUserID uuid.UUID) ([]Candidate, error) {
	ctx, span := tracing.Start(ctx, "relatives.candidates",
		attribute.String("familytree.user.id", excludingUserID.String()),
	)
	defer span.End()

	all, err := s.identity.ListAllUsers(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(all))
	for _, u := range all {
		if u.ID != excludingUserID {
			ids = append(ids, u.ID)
		}
	}
	profiles, err := s.identity.FindPeople(ctx, ids)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	candidates := make([]Candidate, 0, len(ids))
	for _, u := range all {
		if u.ID == excludingUserID {
			continue
		}
		p, ok := profiles[u.ID]
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{ID: u.ID, DisplayName: displayName(p, u.Username)})
	}
	return candidates, nil
}

// Kinds lists the registry with reverse kinds
func (s *Service) Kinds() []KindInfo {
	kinds := AllKinds()
	out := make([]KindInfo, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, KindInfo{Kind: k, Reverse: ReverseOf(k)})
	}
	return out
}

func displayName(p Person, fallback string) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.FirstName, deref(p.MiddleName), p.LastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
