package httputil

// Machine-readable error codes returned alongside human-readable messages.
// Clients should branch on these, not on message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeMissingFields      = "MISSING_FIELDS"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeEmailInUse         = "EMAIL_IN_USE"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeServerConfigError  = "SERVER_CONFIG_ERROR"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadySignedUp    = "ALREADY_SIGNED_UP"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeInternalError      = "INTERNAL_ERROR"
)
