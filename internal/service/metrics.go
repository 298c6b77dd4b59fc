package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calai_analyses_total",
			Help: "Total number of meal analyses by provider and result source",
		},
		[]string{"provider", "source"},
	)
	gatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "calai_gateway_duration_seconds",
			Help:    "Text-generation provider call duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
		},
		[]string{"provider", "status"},
	)
	cacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "calai_analysis_cache_operations_total",
			Help: "Analysis cache lookups and writes by result",
		},
		[]string{"operation", "result"},
	)
)
