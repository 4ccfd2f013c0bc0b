package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osmgraph_graph_commits_total",
		Help: "Number of commits that published changes",
	})

	commitSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "osmgraph_graph_commit_entities",
		Help:    "Number of changed entities per commit",
		Buckets: []float64{1, 2, 5, 10, 50, 100, 500, 1000},
	})

	rebasedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osmgraph_graph_rebased_entities_total",
		Help: "Number of entities offered to rebase",
	})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osmgraph_graph_transient_cache_hits_total",
		Help: "Number of transient cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "osmgraph_graph_transient_cache_misses_total",
		Help: "Number of transient cache misses",
	})
)
