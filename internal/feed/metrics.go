package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_requests_total",
			Help: "Total number of feed requests by variant",
		},
		[]string{"variant"},
	)

	feedAssemblyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "feed_assembly_duration_seconds",
			Help: "Time spent assembling a feed page",
		},
		[]string{"variant"},
	)

	followGraphFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_follow_graph_fallbacks_total",
			Help: "Feed requests served with empty follow sets after a follow graph failure",
		},
	)

	authorResolutionHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_author_resolution_total",
			Help: "Author resolution outcomes by strategy",
		},
		[]string{"strategy"},
	)

	exploreSeedsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feed_explore_seeds_issued_total",
			Help: "Total number of fresh explore shuffle seeds issued",
		},
	)
)
