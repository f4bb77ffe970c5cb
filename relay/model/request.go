package model

// MessagesRequest is the inbound body of a Messages API call. Optional scalar
// tuning fields are pointers so that "absent" survives decoding; absent fields
// must never reach the backend as nulls.
type MessagesRequest struct {
	Model         string    `json:"model,omitempty"`
	Messages      []Message `json:"messages,omitempty"`
	System        any       `json:"system,omitempty"`
	MaxTokens     *int      `json:"max_tokens,omitempty"`
	Temperature   *float64  `json:"temperature,omitempty"`
	TopP          *float64  `json:"top_p,omitempty"`
	TopK          *int      `json:"top_k,omitempty"`
	StopSequences []string  `json:"stop_sequences,omitempty"`
	Stream        *bool     `json:"stream,omitempty"`

	// AnthropicVersion marks the legacy invoke dialect; its presence routes
	// the request through the passthrough path instead of the modern one.
	AnthropicVersion string `json:"anthropic_version,omitempty"`
}

// IsStream reports whether the client asked for a streamed response.
func (r *MessagesRequest) IsStream() bool {
	return r.Stream != nil && *r.Stream
}

// IsLegacyDialect reports whether the body belongs to the legacy invoke
// dialect, identified by the anthropic_version field.
func (r *MessagesRequest) IsLegacyDialect() bool {
	return r.AnthropicVersion != ""
}

// InvokeRequest is the legacy invoke dialect body. It is kept structurally
// separate from the modern dialect so snake_case naming and null-pruning
// passthrough never leak between the two. omitempty on every optional field
// implements the null-pruning rule.
type InvokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        *int      `json:"max_tokens,omitempty"`
	Temperature      *float64  `json:"temperature,omitempty"`
	TopP             *float64  `json:"top_p,omitempty"`
	TopK             *int      `json:"top_k,omitempty"`
	StopSequences    []string  `json:"stop_sequences,omitempty"`
	System           any       `json:"system,omitempty"`
	Messages         []Message `json:"messages"`
}

// ToInvokeRequest projects the request onto the legacy dialect body,
// keeping only the fields that dialect understands.
func (r *MessagesRequest) ToInvokeRequest() *InvokeRequest {
	return &InvokeRequest{
		AnthropicVersion: r.AnthropicVersion,
		MaxTokens:        r.MaxTokens,
		Temperature:      r.Temperature,
		TopP:             r.TopP,
		TopK:             r.TopK,
		StopSequences:    r.StopSequences,
		System:           r.System,
		Messages:         r.Messages,
	}
}
