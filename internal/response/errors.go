package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden          ErrCode = "FORBIDDEN"
	ErrRoleMissing        ErrCode = "ROLE_MISSING"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"
	ErrStudentAccessOnly  ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminSignupBlocked ErrCode = "ADMIN_SIGNUP_DISABLED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidStatus  ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound  ErrCode = "NOT_FOUND"
	ErrDuplicate ErrCode = "DUPLICATE_ENTITY"

	// ─── Payment ───────────────────────────────────────────────────────
	ErrAmountTooLow     ErrCode = "AMOUNT_TOO_LOW"
	ErrInvalidSignature ErrCode = "INVALID_SIGNATURE"

	// ─── Upstream ──────────────────────────────────────────────────────
	ErrServiceUnavailable ErrCode = "SERVICE_UNAVAILABLE"
	ErrUpstream           ErrCode = "UPSTREAM_ERROR"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrRegistrationIncomplete ErrCode = "REGISTRATION_INCOMPLETE"
	ErrInternal               ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid Credentials"
	case ErrTokenRequired:
		return "Access Denied. Token is missing or improperly formatted (must be \"Bearer <token>\")."
	case ErrTokenInvalid:
		return "Invalid token. Access denied."

	case ErrForbidden:
		return "Access Denied."
	case ErrRoleMissing:
		return "Access Denied: User role is missing. Authentication is required first."
	case ErrAdminAccessOnly:
		return "Access Denied. Admin privileges required."
	case ErrStudentAccessOnly:
		return "Access Denied. Student account required."
	case ErrAdminSignupBlocked:
		return "Admin accounts cannot be created through public registration."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrInvalidStatus:
		return "Invalid status provided."

	case ErrNotFound:
		return "Resource not found."
	case ErrDuplicate:
		return "Resource already exists."

	case ErrAmountTooLow:
		return "Calculated amount is too low."
	case ErrInvalidSignature:
		return "Webhook signature verification failed."

	case ErrServiceUnavailable:
		return "Service is not configured or temporarily unavailable."
	case ErrUpstream:
		return "Upstream service failed to produce a response."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrRegistrationIncomplete:
		return "Registration could not be completed. Please try again."
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unexpected error."
	}
}
