package relatives

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familytree_relatives_created_total",
		Help: "Relation pairs created (forward and reverse edge)",
	})

	relationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "familytree_relatives_deleted_total",
		Help: "Relations deleted on request",
	})

	relationRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familytree_relatives_rejections_total",
		Help: "Candidate relations rejected, by reason",
	}, []string{"reason"})

	reverseEdgeMissing = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "familytree_relatives_reverse_edge_missing_total",
		Help: "Edges found without their reverse edge, by the operation that noticed",
	}, []string{"operation"})
)
