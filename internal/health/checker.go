// Package health runs the diagnostics behind 'reciplore doctor'.
//
//	manager := health.NewManager()
//	manager.AddChecker(health.NewBackendChecker(client))
//	manager.AddChecker(health.NewCookieStoreChecker(path))
//
//	for _, report := range manager.Check(ctx) {
//	    fmt.Println(report.Name, report.Status)
//	}
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency of the client.
type Checker interface {
	// Name is lowercase with hyphens, e.g. "backend".
	Name() string

	// Check must respect the context deadline.
	Check(ctx context.Context) *Result
}

// Status represents the health check status.
type Status string

const (
	// StatusHealthy indicates the checked component is fully operational.
	StatusHealthy Status = "healthy"

	// StatusDegraded means commands will work with reduced function,
	// for example browsing without being logged in.
	StatusDegraded Status = "degraded"

	// StatusUnhealthy means commands depending on the component will fail.
	StatusUnhealthy Status = "unhealthy"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Result represents the result of a health check.
type Result struct {
	Status  Status                 `json:"status" yaml:"status"`
	Message string                 `json:"message" yaml:"message"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration          `json:"latency" yaml:"latency"`
}

// NewResult creates a new health check result with the given status and message.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WithDetail adds a detail to the result and returns the result for chaining.
func (r *Result) WithDetail(key string, value interface{}) *Result {
	r.Details[key] = value
	return r
}

// Healthy creates a healthy result with the given message.
func Healthy(message string) *Result {
	return NewResult(StatusHealthy, message)
}

// Degraded creates a degraded result with the given message.
func Degraded(message string) *Result {
	return NewResult(StatusDegraded, message)
}

// Unhealthy creates an unhealthy result with the given message.
func Unhealthy(message string) *Result {
	return NewResult(StatusUnhealthy, message)
}
