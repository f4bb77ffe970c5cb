package bedrock

import (
	"encoding/json"
	"strings"

	"github.com/Laisky/errors/v2"

	"github.com/bedrockbridge/bedrock-bridge/common/config"
	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

// ResolveModelID picks the effective model identifier: a path-derived id wins
// over the body-level model field, which falls back to the configured default.
func ResolveModelID(pathModelID, bodyModelID string) string {
	if pathModelID != "" {
		return pathModelID
	}
	if bodyModelID != "" {
		return bodyModelID
	}
	return config.DefaultModelID
}

// ConvertMessagesRequest builds the Converse request from an inbound client
// body. pathModelID, when non-empty, overrides the body's model field.
func ConvertMessagesRequest(req *relaymodel.MessagesRequest, pathModelID string) (*ConverseRequest, error) {
	if req.Messages == nil {
		return nil, errors.Wrap(ErrMalformedRequest, "messages is required")
	}

	messages := make([]ConverseMessage, 0, len(req.Messages))
	for i, msg := range req.Messages {
		if msg.Role == "" {
			return nil, errors.Wrapf(ErrMalformedRequest, "messages[%d] lacks a role", i)
		}
		messages = append(messages, ConverseMessage{
			Role:    msg.Role,
			Content: toConverseBlocks(msg.TextBlocks()),
		})
	}

	out := &ConverseRequest{
		ModelID:  ResolveModelID(pathModelID, req.Model),
		Messages: messages,
	}
	// a blank system prompt is dropped entirely, the backend rejects empty
	// text blocks
	if sys := relaymodel.NormalizeSystem(systemOrEmpty(req.System)); len(sys) > 0 {
		out.System = toConverseBlocks(sys)
	}
	if cfg := buildInferenceConfig(req); cfg != nil {
		out.InferenceConfig = cfg
	}
	return out, nil
}

func systemOrEmpty(system any) any {
	if s, ok := system.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return system
}

func toConverseBlocks(blocks []relaymodel.TextBlock) []ConverseText {
	out := make([]ConverseText, 0, len(blocks))
	for _, blk := range blocks {
		out = append(out, ConverseText{Text: blk.Text})
	}
	return out
}

// buildInferenceConfig returns nil when no tuning parameter is present so the
// container is omitted instead of serialized as an empty object.
func buildInferenceConfig(req *relaymodel.MessagesRequest) *InferenceConfig {
	if req.MaxTokens == nil && req.Temperature == nil && req.TopP == nil &&
		req.TopK == nil && len(req.StopSequences) == 0 {
		return nil
	}
	return &InferenceConfig{
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		TopK:          req.TopK,
		StopSequences: req.StopSequences,
	}
}

// ConvertInvokeRequest builds the legacy invoke body: original snake_case
// field naming, null-pruned, no structural translation.
func ConvertInvokeRequest(req *relaymodel.MessagesRequest) ([]byte, error) {
	if req.Messages == nil {
		return nil, errors.Wrap(ErrMalformedRequest, "messages is required")
	}
	for i, msg := range req.Messages {
		if msg.Role == "" {
			return nil, errors.Wrapf(ErrMalformedRequest, "messages[%d] lacks a role", i)
		}
	}
	body, err := json.Marshal(req.ToInvokeRequest())
	if err != nil {
		return nil, errors.Wrap(err, "marshal invoke body")
	}
	return body, nil
}
