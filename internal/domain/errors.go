// Package domain defines the core types and errors of the semantic layer.
package domain

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// MetricNotFoundError indicates a requested metric is absent from the
// semantic layer. Compilation aborts: no SQL is produced.
type MetricNotFoundError struct {
	Metric string
}

func (e *MetricNotFoundError) Error() string {
	return fmt.Sprintf("metric %q not found in semantic layer", e.Metric)
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrMetricNotFound creates a MetricNotFoundError for the given metric name.
func ErrMetricNotFound(name string) *MetricNotFoundError {
	return &MetricNotFoundError{Metric: name}
}
