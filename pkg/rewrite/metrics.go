package rewrite

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ruleApplicationsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "normalizer",
		Subsystem: "rewrite",
		Name:      "rule_applications_total",
		Help:      "number of successful rewrites, by rule",
	}, []string{"rule"})

	reduceIterationsHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "normalizer",
		Subsystem: "rewrite",
		Name:      "reduce_iterations",
		Help:      "number of successful rewrites performed by a single reduction",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})
)
