package model

// Usage is the token usage block of a Messages API response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Error is the inner error object of an Anthropic-style error response.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	// RawError preserves the original upstream or internal error for diagnostics.
	// Omitted from JSON to avoid leaking backend internals.
	RawError error `json:"-"`
}

// ErrorResponse is the client-facing error envelope:
// {"type":"error","error":{"type":...,"message":...}}.
type ErrorResponse struct {
	Type  string `json:"type"`
	Error Error  `json:"error"`
}

type ErrorWithStatusCode struct {
	Error
	StatusCode int `json:"status_code"`
}

// ToResponse wraps the error into the wire envelope.
func (e *ErrorWithStatusCode) ToResponse() ErrorResponse {
	return ErrorResponse{Type: "error", Error: e.Error}
}
