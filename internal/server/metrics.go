package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	walksGenerated prometheus.Counter
	stepsGenerated prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "randwalk_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "method", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "randwalk_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"route"},
		),
		walksGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "randwalk_walks_generated_total",
			Help: "Total number of walks generated",
		}),
		stepsGenerated: f.NewCounter(prometheus.CounterOpts{
			Name: "randwalk_steps_generated_total",
			Help: "Total number of increments drawn",
		}),
	}
}
