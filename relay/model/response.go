package model

// MessagesResponse is the non-streaming reply in the Messages API shape.
// Content is either a flat string or a []TextBlock depending on which
// endpoint served the request.
type MessagesResponse struct {
	Id         string `json:"id"`
	Type       string `json:"type"`
	Role       string `json:"role"`
	Content    any    `json:"content"`
	Model      string `json:"model"`
	StopReason string `json:"stop_reason,omitempty"`
	Usage      Usage  `json:"usage"`
}
