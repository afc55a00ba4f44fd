package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidFormat  ErrCode = "INVALID_EXPORT_FORMAT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrConflict        ErrCode = "CONFLICT"
	ErrActionForbidden ErrCode = "ACTION_FORBIDDEN"

	// ─── Table editing ─────────────────────────────────────────────────
	ErrUnknownColumn    ErrCode = "UNKNOWN_COLUMN"
	ErrNotSortable      ErrCode = "NOT_SORTABLE"
	ErrNotEditable      ErrCode = "NOT_EDITABLE"
	ErrInvalidCellValue ErrCode = "INVALID_CELL_VALUE"

	// ─── Upstream API ──────────────────────────────────────────────────
	ErrUpstreamError       ErrCode = "UPSTREAM_ERROR"
	ErrUpstreamUnavailable ErrCode = "UPSTREAM_UNAVAILABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrForbidden:
		return "You do not have access to this resource."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidFormat:
		return "Unsupported export format. Use csv or xlsx."

	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrActionForbidden:
		return "This action is not allowed."

	case ErrUnknownColumn:
		return "The table has no such column."
	case ErrNotSortable:
		return "This column cannot be sorted."
	case ErrNotEditable:
		return "This column cannot be edited."
	case ErrInvalidCellValue:
		return "The value does not fit this column."

	case ErrUpstreamError:
		return "The HackPSU API rejected the request."
	case ErrUpstreamUnavailable:
		return "The HackPSU API is unavailable. Please try again."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrInternal:
		return "Internal server error."
	default:
		return "An unexpected error occurred."
	}
}
