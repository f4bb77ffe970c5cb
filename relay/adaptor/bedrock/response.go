package bedrock

import (
	"github.com/Laisky/errors/v2"

	"github.com/bedrockbridge/bedrock-bridge/common/random"
	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

// ResponseShape selects how assistant content is rendered to the client:
// the simple messages endpoint returns a flat string, the invoke-compatible
// endpoint returns a content-block array. The shape follows the endpoint
// that originated the call, never the backend response.
type ResponseShape int

const (
	ShapeFlatText ResponseShape = iota
	ShapeBlockArray
)

const defaultStopReason = "end_turn"

// ConvertConverseResponse maps a complete backend response into the client
// response shape, minting a fresh message id.
func ConvertConverseResponse(resp *ConverseResponse, modelID string, shape ResponseShape) (*relaymodel.MessagesResponse, error) {
	blocks := resp.Output.Message.Content
	if len(blocks) == 0 {
		return nil, errors.Wrap(ErrUpstreamShape, "output.message.content is empty")
	}

	out := &relaymodel.MessagesResponse{
		Id:         random.MessageID(),
		Type:       "message",
		Role:       "assistant",
		Model:      modelID,
		StopReason: stopReasonOrDefault(resp.StopReason),
		Usage: relaymodel.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}

	switch shape {
	case ShapeBlockArray:
		content := make([]relaymodel.TextBlock, 0, len(blocks))
		for _, blk := range blocks {
			content = append(content, relaymodel.TextBlock{Type: "text", Text: blk.Text})
		}
		out.Content = content
	default:
		out.Content = blocks[0].Text
	}
	return out, nil
}

func stopReasonOrDefault(reason string) string {
	if reason == "" {
		return defaultStopReason
	}
	return reason
}
