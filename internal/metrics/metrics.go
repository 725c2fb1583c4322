package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/reciplore/reciplore/internal/errors"
)

// Metrics holds all Prometheus metrics for the client
type Metrics struct {
	// Backend API metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec

	// Session lifecycle metrics
	SessionTransitions *prometheus.CounterVec
	TokenRefreshes     *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reciplore_api_requests_total",
				Help: "Total number of backend API requests",
			},
			[]string{"endpoint", "status"},
		),
		APILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reciplore_api_request_duration_seconds",
				Help:    "Backend API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"endpoint"},
		),
		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reciplore_session_transitions_total",
				Help: "Session manager operations by outcome",
			},
			[]string{"op", "result"},
		),
		TokenRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reciplore_token_refresh_total",
				Help: "Access token refresh attempts by outcome",
			},
			[]string{"result"},
		),
		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reciplore_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code"},
		),
	}
}

// ObserveRequest records one backend call. status is the HTTP status, or 0
// when the request never produced a response.
func (m *Metrics) ObserveRequest(endpoint string, start time.Time, status int) {
	if m == nil {
		return
	}

	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}

	m.APIRequests.WithLabelValues(endpoint, label).Inc()
	m.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// RecordTransition records the outcome of a session manager operation.
func (m *Metrics) RecordTransition(op string, err error) {
	if m == nil {
		return
	}

	m.SessionTransitions.WithLabelValues(op, result(err)).Inc()
	m.RecordError(err)
}

// RecordRefresh records a token refresh attempt.
func (m *Metrics) RecordRefresh(err error) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(result(err)).Inc()
}

// RecordError counts coded errors. Uncoded errors count as "unknown".
func (m *Metrics) RecordError(err error) {
	if m == nil || err == nil {
		return
	}

	code := "unknown"
	if appErr, ok := apperrors.As(err); ok {
		code = string(appErr.Code)
	}
	m.Errors.WithLabelValues(code).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
