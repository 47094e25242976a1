package relatives

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditReverseEdges_Clean(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	require.NoError(t, f.svc.CreateRelation(ctx, f.alice, f.bob, KindParent))
	require.NoError(t, f.svc.CreateRelation(ctx, f.bob, f.charlie, KindSpouse))

	report, err := f.svc.AuditReverseEdges(ctx, false)
	require.NoError(t, err)

	assert.True(t, report.Clean())
	assert.Equal(t, 4, report.Scanned)
	assert.Empty(t, report.Orphans)
	assert.Empty(t, report.Mismatched)
	assert.Zero(t, report.Repaired)
}

func TestAuditReverseEdges_ReportsOrphan(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	f.store.seed(f.alice, f.bob, KindParent)
	missing := reverseEdgeMissing.WithLabelValues("audit")
	before := testutil.ToFloat64(missing)

	report, err := f.svc.AuditReverseEdges(ctx, false)
	require.NoError(t, err)

	require.Len(t, report.Orphans, 1)
	o := report.Orphans[0]
	assert.Equal(t, f.alice, o.OwnerUserID)
	assert.Equal(t, f.bob, o.CounterpartUserID)
	assert.Equal(t, KindParent, o.Kind)
	assert.Equal(t, KindChild, o.ExpectedReverse)
	assert.Empty(t, o.FoundReverse)
	assert.Equal(t, before+1, testutil.ToFloat64(missing))

	// report only
	assert.Equal(t, 1, f.store.count())
}

func TestAuditReverseEdges_RepairsOrphan(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	f.store.seed(f.alice, f.bob, KindGrandparent)

	report, err := f.svc.AuditReverseEdges(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Repaired)
	assert.True(t, f.store.has(f.bob, f.alice, KindGrandchild))

	report, err = f.svc.AuditReverseEdges(ctx, false)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}

func TestAuditReverseEdges_MismatchReportedOncePerPair(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	f.store.seed(f.alice, f.bob, KindParent)
	f.store.seed(f.bob, f.alice, KindSibling)

	report, err := f.svc.AuditReverseEdges(ctx, false)
	require.NoError(t, err)

	assert.Empty(t, report.Orphans)
	require.Len(t, report.Mismatched, 1)
	m := report.Mismatched[0]
	assert.Equal(t, f.alice, m.OwnerUserID)
	assert.Equal(t, KindParent, m.Kind)
	assert.Equal(t, KindChild, m.ExpectedReverse)
	assert.Equal(t, KindSibling, m.FoundReverse)
}

func TestAuditReverseEdges_RepairsMismatchFromOlderEdge(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	f.store.seed(f.alice, f.bob, KindAuntUncle)
	f.store.seed(f.bob, f.alice, KindCousin)

	report, err := f.svc.AuditReverseEdges(ctx, true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Repaired)
	assert.True(t, f.store.has(f.alice, f.bob, KindAuntUncle))
	assert.True(t, f.store.has(f.bob, f.alice, KindNieceNephew))
	assert.Equal(t, 2, f.store.count())
}

func TestAuditReverseEdges_StoreFailure(t *testing.T) {
	f := newFamily()
	ctx := context.Background()
	f.store.seed(f.alice, f.bob, KindParent)
	f.store.insertErr = func(*Relative) error { return assert.AnError }

	_, err := f.svc.AuditReverseEdges(ctx, true)

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, f.store.count())
}
