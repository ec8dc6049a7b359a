package errors

const (
	HttpInternalError           = "internal_error"
	HttpInvalidJsonError        = "invalid_json"
	HttpInvalidRequestError     = "invalid_request"
	HttpIdentifierRequiredError = "identifier_required"
	HttpSchemaValidationError   = "schema_validation_failed"
	HttpInvalidSchemaError      = "invalid_schema"
	HttpPayloadTooLargeError    = "payload_too_large"
	HttpNotFoundError           = "not_found"
	HttpConflictError           = "conflict"
	HttpUnauthorizedError       = "unauthorized"
	HttpRateLimitedError        = "rate_limited"
)

// ErrorResponse is the error response body shared by every HTTP surface.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     string      `json:"error"`
	ErrorType string      `json:"error_type"`
	Details   interface{} `json:"details,omitempty"`
}

// NewErrorResponse builds a failed envelope.
func NewErrorResponse(errorType, message string, details interface{}) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, ErrorType: errorType, Details: details}
}
