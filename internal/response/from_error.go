package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/apiclient"
	"github.com/hackpsu/admin-console/internal/table"
)

// FromError maps a service error to the matching envelope. Unknown errors
// become 500 INTERNAL_ERROR.
func FromError(c *gin.Context, err error) {
	status, code := Classify(err)
	// Recorded for the request logger.
	_ = c.Error(err)

	switch code {
	case ErrUnknownColumn, ErrNotSortable, ErrNotEditable, ErrInvalidCellValue:
		FailWithFields(c, status, code, map[string]string{"detail": err.Error()})
	default:
		Fail(c, status, code)
	}
}

// Classify returns the HTTP status and error code for err.
func Classify(err error) (int, ErrCode) {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		switch {
		case apiErr.Status == http.StatusNotFound:
			return http.StatusNotFound, ErrNotFound
		case apiErr.Status == http.StatusConflict:
			return http.StatusConflict, ErrConflict
		case apiErr.Status == http.StatusUnauthorized:
			return http.StatusUnauthorized, ErrTokenInvalid
		case apiErr.Status == http.StatusForbidden:
			return http.StatusForbidden, ErrForbidden
		case apiErr.Status == http.StatusTooManyRequests:
			return http.StatusTooManyRequests, ErrRateLimitExceeded
		case apiErr.Status >= http.StatusInternalServerError:
			return http.StatusBadGateway, ErrUpstreamUnavailable
		default:
			return http.StatusUnprocessableEntity, ErrUpstreamError
		}
	case errors.Is(err, apiclient.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway, ErrUpstreamUnavailable
	case errors.Is(err, table.ErrUnknownColumn):
		return http.StatusBadRequest, ErrUnknownColumn
	case errors.Is(err, table.ErrNotSortable):
		return http.StatusBadRequest, ErrNotSortable
	case errors.Is(err, table.ErrNotEditable):
		return http.StatusBadRequest, ErrNotEditable
	case errors.Is(err, table.ErrInvalidValue):
		return http.StatusBadRequest, ErrInvalidCellValue
	case errors.Is(err, table.ErrRowNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, table.ErrUnsupportedFormat):
		return http.StatusBadRequest, ErrInvalidFormat
	case errors.Is(err, ErrDomain):
		return http.StatusUnprocessableEntity, ErrActionForbidden
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}

// ErrDomain marks rule violations raised by services, e.g. a bulk status
// change on applicants that were already reviewed. Wrap it to return 422.
var ErrDomain = errors.New("action not allowed")
