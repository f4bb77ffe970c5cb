package bedrock

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

func backendResponse() *ConverseResponse {
	resp := &ConverseResponse{StopReason: "end_turn"}
	resp.Output.Message.Role = "assistant"
	resp.Output.Message.Content = []ConverseText{{Text: "hello"}, {Text: "world"}}
	resp.Usage = ConverseUsage{InputTokens: 3, OutputTokens: 7, TotalTokens: 10}
	return resp
}

func TestConvertConverseResponse_FlatText(t *testing.T) {
	out, err := ConvertConverseResponse(backendResponse(), "us.anthropic.claude-3-5-sonnet-20241022-v2:0", ShapeFlatText)
	require.NoError(t, err)

	assert.Equal(t, "message", out.Type)
	assert.Equal(t, "assistant", out.Role)
	assert.Equal(t, "hello", out.Content)
	assert.Equal(t, "end_turn", out.StopReason)
	assert.Equal(t, relaymodel.Usage{InputTokens: 3, OutputTokens: 7}, out.Usage)
	assert.True(t, strings.HasPrefix(out.Id, "msg_"))
	assert.Len(t, out.Id, len("msg_")+24)
}

func TestConvertConverseResponse_BlockArray(t *testing.T) {
	out, err := ConvertConverseResponse(backendResponse(), "m", ShapeBlockArray)
	require.NoError(t, err)

	assert.Equal(t, []relaymodel.TextBlock{
		{Type: "text", Text: "hello"},
		{Type: "text", Text: "world"},
	}, out.Content)
}

func TestConvertConverseResponse_DefaultStopReason(t *testing.T) {
	resp := backendResponse()
	resp.StopReason = ""
	out, err := ConvertConverseResponse(resp, "m", ShapeFlatText)
	require.NoError(t, err)
	assert.Equal(t, "end_turn", out.StopReason)
}

func TestConvertConverseResponse_EmptyContent(t *testing.T) {
	resp := &ConverseResponse{}
	_, err := ConvertConverseResponse(resp, "m", ShapeFlatText)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamShape)
}

func TestConvertConverseResponse_FreshIDs(t *testing.T) {
	seen := map[string]bool{}
	for range 32 {
		out, err := ConvertConverseResponse(backendResponse(), "m", ShapeFlatText)
		require.NoError(t, err)
		assert.False(t, seen[out.Id], "duplicate id %s", out.Id)
		seen[out.Id] = true
	}
}
