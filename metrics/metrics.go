package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path, and status code.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redbook_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})

	// OperationsTotal counts operation outcomes (ok, validation, provider, empty, unparsable, shape, error).
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "redbook_operations_total",
		Help: "Operation results by outcome.",
	}, []string{"op", "outcome"})

	// OperationDuration tracks end-to-end latency per operation, model call included.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redbook_operation_duration_seconds",
		Help:    "Time spent serving an operation.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"op"})

	// InputChars tracks the size of the text sent for parsing or checking.
	InputChars = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "redbook_input_chars",
		Help:    "Number of characters in operation input text.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 20000},
	}, []string{"op"})
)
