package utils

// Status tags carried by every JSON envelope.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusLimit     = "limit"
	StatusNoCredits = "no_credits"
)

// Response represents a standardized response structure.
// It includes a machine-readable status tag, a message, and optional data.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewStatusResponse creates a Response with an explicit status tag and no data.
func NewStatusResponse(status, message string) Response {
	return Response{
		Status:  status,
		Message: message,
	}
}

// NewSuccessResponse creates a new success Response instance.
func NewSuccessResponse(message string, data interface{}) Response {
	return Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}
}

// NewErrorResponse creates a new error Response instance.
// Data is never set on errors.
func NewErrorResponse(message string) Response {
	return NewStatusResponse(StatusError, message)
}
