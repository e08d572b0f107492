package soundtrack

import "github.com/leofalp/songscene/core/recovery"

// Response is the success envelope served to clients:
// {"success": true, "data": {"locations": [...]}}.
type Response struct {
	Success bool            `json:"success"`
	Data    recovery.Result `json:"data"`
}

// NewResponse wraps a result in a success envelope.
func NewResponse(result recovery.Result) Response {
	return Response{Success: true, Data: result}
}

// ErrorResponse is the failure envelope.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// NewErrorResponse builds the failure envelope for err.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Success:    false,
		StatusCode: StatusCode(err),
		Message:    Message(err),
	}
}
