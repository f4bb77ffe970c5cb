package bedrock

// Wire types of the Converse operation family. The same structures serve both
// transports: marshalled verbatim for the HTTP gateway, converted to SDK input
// types for direct calls. omitempty everywhere implements the omission rule:
// an absent client field never reaches the backend as an explicit null.

type ConverseRequest struct {
	ModelID         string            `json:"modelId"`
	Messages        []ConverseMessage `json:"messages"`
	System          []ConverseText    `json:"system,omitempty"`
	InferenceConfig *InferenceConfig  `json:"inferenceConfig,omitempty"`
}

type ConverseMessage struct {
	Role    string         `json:"role"`
	Content []ConverseText `json:"content"`
}

type ConverseText struct {
	Text string `json:"text"`
}

type InferenceConfig struct {
	MaxTokens     *int     `json:"maxTokens,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
	TopP          *float64 `json:"topP,omitempty"`
	TopK          *int     `json:"topK,omitempty"`
	StopSequences []string `json:"stopSequences,omitempty"`
}

type ConverseResponse struct {
	Output     ConverseOutput `json:"output"`
	StopReason string         `json:"stopReason,omitempty"`
	Usage      ConverseUsage  `json:"usage"`
}

type ConverseOutput struct {
	Message ConverseMessage `json:"message"`
}

type ConverseUsage struct {
	InputTokens  int `json:"inputTokens"`
	OutputTokens int `json:"outputTokens"`
	TotalTokens  int `json:"totalTokens,omitempty"`
}

// StreamEvent is one already-demarshalled backend stream event: a single
// discriminating key (the Converse union member name) and its body.
type StreamEvent struct {
	Key     string
	Payload map[string]any
}
