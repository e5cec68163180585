package api

import (
	"errors"
	"net/http"

	"semql/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// An unknown metric is a client mistake in the request body, so it maps to
// 400 alongside validation failures rather than 404.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var metricNotFound *domain.MetricNotFoundError
	var validation *domain.ValidationError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &metricNotFound):
		return http.StatusBadRequest
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
