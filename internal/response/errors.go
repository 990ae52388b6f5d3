package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Enrollment ────────────────────────────────────────────────────
	ErrAlreadyEnrolled     ErrCode = "ALREADY_ENROLLED"
	ErrCreditLimitExceeded ErrCode = "CREDIT_LIMIT_EXCEEDED"
	ErrScheduleClash       ErrCode = "SCHEDULE_CLASH"
	ErrNotEnrolled         ErrCode = "NOT_ENROLLED"
	ErrBelowMinimumCredit  ErrCode = "BELOW_MINIMUM_CREDIT"
	ErrCourseNotFound      ErrCode = "COURSE_NOT_FOUND"
	ErrEnrollmentBusy      ErrCode = "ENROLLMENT_BUSY"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Matric number or password is incorrect."
	case ErrSessionInvalidated:
		return "Your session has ended or you logged in elsewhere. Please log in again."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Enrollment ────────────────────────────────────────────────────
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this course."
	case ErrCreditLimitExceeded:
		return "Adding this course would exceed the maximum credit load."
	case ErrScheduleClash:
		return "This course clashes with one you are already enrolled in."
	case ErrNotEnrolled:
		return "You are not enrolled in this course."
	case ErrBelowMinimumCredit:
		return "Dropping this course would take you below the minimum credit load."
	case ErrCourseNotFound:
		return "Course not found in the catalog."
	case ErrEnrollmentBusy:
		return "Another change to your enrollment is in progress. Please retry."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
