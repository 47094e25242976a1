package relatives

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/familytree/ledger/pkg/tracing"
)

// AuditIssue describes an edge whose reverse is missing or has the wrong kind
type AuditIssue struct {
	OwnerUserID       uuid.UUID `json:"owner_user_id" yaml:"owner_user_id"`
	CounterpartUserID uuid.UUID `json:"counterpart_user_id" yaml:"counterpart_user_id"`
	Kind              Kind      `json:"relation_kind" yaml:"relation_kind"`
	ExpectedReverse   Kind      `json:"expected_reverse" yaml:"expected_reverse"`
	// FoundReverse is empty for orphans
	FoundReverse Kind `json:"found_reverse,omitempty" yaml:"found_reverse,omitempty"`

	edgeID    uuid.UUID
	reverseID uuid.UUID
}

// AuditReport summarizes an audit run
type AuditReport struct {
	Scanned    int          `json:"scanned" yaml:"scanned"`
	Orphans    []AuditIssue `json:"orphans" yaml:"orphans"`
	Mismatched []AuditIssue `json:"mismatched" yaml:"mismatched"`
	Repaired   int          `json:"repaired" yaml:"repaired"`
}

// Clean reports whether no issue was found
func (r *AuditReport) Clean() bool {
	return len(r.Orphans) == 0 && len(r.Mismatched) == 0
}

type edgeKey struct {
	owner, counterpart uuid.UUID
}

// AuditReverseEdges scans all edges for reverse-consistency problems. An
// orphan is an edge with no reverse; a mismatch is a pair whose kinds are not
// each other's reverse. Each mismatched pair is reported once, from the older
// edge, which is treated as authoritative. With repair set, missing reverses
// are inserted and mismatched reverses are rewritten in one transaction.
func (s *Service) AuditReverseEdges(ctx context.Context, repair bool) (*AuditReport, error) {
	ctx, span := tracing.Start(ctx, "relatives.audit",
		attribute.Bool("familytree.audit.repair", repair),
	)
	defer span.End()

	edges, err := s.store.ListAll(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	report := findIssues(edges)

	if len(report.Orphans) > 0 {
		reverseEdgeMissing.WithLabelValues("audit").Add(float64(len(report.Orphans)))
	}

	if repair && !report.Clean() {
		if err := s.repair(ctx, report); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
		report.Repaired = len(report.Orphans) + len(report.Mismatched)
	}

	level := slog.LevelInfo
	if !report.Clean() {
		level = slog.LevelWarn
	}
	s.log.Log(ctx, level, "relation audit finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("orphans", len(report.Orphans)),
		slog.Int("mismatched", len(report.Mismatched)),
		slog.Int("repaired", report.Repaired),
	)
	return report, nil
}

// findIssues expects edges oldest first.
func findIssues(edges []Relative) *AuditReport {
	report := &AuditReport{
		Scanned:    len(edges),
		Orphans:    []AuditIssue{},
		Mismatched: []AuditIssue{},
	}

	index := make(map[edgeKey]Relative, len(edges))
	for _, e := range edges {
		index[edgeKey{e.OwnerUserID, e.CounterpartUserID}] = e
	}

	seen := make(map[edgeKey]bool, len(edges))
	for _, e := range edges {
		expected := ReverseOf(e.Kind)
		if expected == "" {
			continue
		}
		rev, ok := index[edgeKey{e.CounterpartUserID, e.OwnerUserID}]
		issue := AuditIssue{
			OwnerUserID:       e.OwnerUserID,
			CounterpartUserID: e.CounterpartUserID,
			Kind:              e.Kind,
			ExpectedReverse:   expected,
			edgeID:            e.ID,
		}
		switch {
		case !ok:
			report.Orphans = append(report.Orphans, issue)
		case rev.Kind != expected && !seen[edgeKey{e.CounterpartUserID, e.OwnerUserID}]:
			issue.FoundReverse = rev.Kind
			issue.reverseID = rev.ID
			report.Mismatched = append(report.Mismatched, issue)
		}
		seen[edgeKey{e.OwnerUserID, e.CounterpartUserID}] = true
	}
	return report
}

func (s *Service) repair(ctx context.Context, report *AuditReport) error {
	return s.store.RunInTx(ctx, func(ctx context.Context, q Queries) error {
		for _, o := range report.Orphans {
			if err := q.Lock(ctx, pairKey(o.OwnerUserID, o.CounterpartUserID)); err != nil {
				return err
			}
			if err := q.Insert(ctx, &Relative{
				OwnerUserID:       o.CounterpartUserID,
				CounterpartUserID: o.OwnerUserID,
				Kind:              o.ExpectedReverse,
			}); err != nil {
				return err
			}
		}
		for _, m := range report.Mismatched {
			if err := q.Lock(ctx, pairKey(m.OwnerUserID, m.CounterpartUserID)); err != nil {
				return err
			}
			if err := q.UpdateKind(ctx, m.reverseID, m.ExpectedReverse); err != nil {
				return err
			}
		}
		return nil
	})
}
