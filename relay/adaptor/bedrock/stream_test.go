package bedrock

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock/eventstream"
)

type sseRecord struct {
	event string
	data  string
}

func parseSSE(t *testing.T, body string) []sseRecord {
	t.Helper()
	var out []sseRecord
	var cur sseRecord
	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "event: "):
			cur.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			cur.data = strings.TrimPrefix(line, "data: ")
			out = append(out, cur)
			cur = sseRecord{}
		}
	}
	return out
}

func newStreamContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/model/m/invoke-with-response-stream", nil)
	return c, recorder
}

func binaryWire(payloads ...string) io.ReadCloser {
	var wire []byte
	for _, p := range payloads {
		wire = append(wire, 0x00, 0x01, 0x02, ':', 'h', 0x07)
		wire = append(wire, eventstream.DefaultMarker...)
		wire = append(wire, p...)
		wire = append(wire, 0xff, 0xfe)
	}
	return io.NopCloser(bytes.NewReader(wire))
}

func TestStreamHandler_BinaryMode_EventOrder(t *testing.T) {
	c, recorder := newStreamContext(t)

	src := &StreamSource{Body: binaryWire(
		`{"role":"assistant"}`,
		`{"delta":{"text":"a"}}`,
		`{"delta":{"text":"b"}}`,
		`{"stopReason":"end_turn"}`,
	)}
	require.Nil(t, StreamHandler(c, src))

	records := parseSSE(t, recorder.Body.String())
	var types []string
	for _, r := range records {
		types = append(types, r.event)
	}
	assert.Equal(t, []string{
		"message_start",
		"content_block_start",
		"content_block_delta",
		"content_block_delta",
		"content_block_stop",
		"message_stop",
	}, types)

	// the block index is owned by the translator and stays 0 throughout
	for _, r := range records[1:5] {
		assert.EqualValues(t, 0, gjson.Get(r.data, "index").Int(), r.event)
	}
	assert.Equal(t, "a", gjson.Get(records[2].data, "delta.text").String())
	assert.Equal(t, "b", gjson.Get(records[3].data, "delta.text").String())
	assert.Equal(t, "end_turn", gjson.Get(records[5].data, "stop_reason").String())
}

func TestStreamHandler_BinaryMode_MetadataAndMalformedUnit(t *testing.T) {
	c, recorder := newStreamContext(t)

	src := &StreamSource{Body: binaryWire(
		`{"role":"assistant"}`,
		`{"delta":{"text":"say \"hi\""}}`,
		`{"contentBlockIndex":0}`,
		`{"broken": oops}`,
		`{"stopReason":"end_turn"}`,
		`{"metrics":{"latencyMs":42},"usage":{"inputTokens":5,"outputTokens":9}}`,
	)}
	require.Nil(t, StreamHandler(c, src))

	records := parseSSE(t, recorder.Body.String())
	var types []string
	for _, r := range records {
		types = append(types, r.event)
	}
	assert.Equal(t, []string{
		"message_start",
		"content_block_start",
		"content_block_delta",
		"content_block_stop",
		"message_stop",
		"metadata",
	}, types)

	assert.Equal(t, `say "hi"`, gjson.Get(records[2].data, "delta.text").String())
	meta := records[len(records)-1]
	assert.EqualValues(t, 5, gjson.Get(meta.data, "usage.input_tokens").Int())
	assert.EqualValues(t, 9, gjson.Get(meta.data, "usage.output_tokens").Int())
}

func TestStreamHandler_BinaryMode_IndexAdvancesAcrossBlocks(t *testing.T) {
	c, recorder := newStreamContext(t)

	src := &StreamSource{Body: binaryWire(
		`{"role":"assistant"}`,
		`{"delta":{"text":"first"}}`,
		`{"contentBlockIndex":0}`,
		`{"delta":{"text":"second"}}`,
		`{"stopReason":"end_turn"}`,
	)}
	require.Nil(t, StreamHandler(c, src))

	records := parseSSE(t, recorder.Body.String())
	// second block opens at index 1 regardless of what the backend sent
	var deltaIndexes []int64
	for _, r := range records {
		if r.event == "content_block_delta" {
			deltaIndexes = append(deltaIndexes, gjson.Get(r.data, "index").Int())
		}
	}
	assert.Equal(t, []int64{0, 1}, deltaIndexes)
}

func TestStreamHandler_StructuredMode(t *testing.T) {
	c, recorder := newStreamContext(t)

	events := make(chan StreamEvent, 8)
	events <- StreamEvent{Key: "messageStart", Payload: map[string]any{"role": "assistant"}}
	events <- StreamEvent{Key: "contentBlockDelta", Payload: map[string]any{
		"contentBlockIndex": 0,
		"delta":             map[string]any{"text": "hi"},
	}}
	events <- StreamEvent{Key: "someFutureEvent", Payload: map[string]any{"x": 1}}
	events <- StreamEvent{Key: "messageStop", Payload: map[string]any{"stopReason": "end_turn"}}
	close(events)

	require.Nil(t, StreamHandler(c, &StreamSource{Events: events}))

	records := parseSSE(t, recorder.Body.String())
	require.Len(t, records, 4)
	assert.Equal(t, "message_start", records[0].event)
	assert.Equal(t, "message_start", gjson.Get(records[0].data, "type").String())
	assert.Equal(t, "assistant", gjson.Get(records[0].data, "role").String())
	assert.Equal(t, "hi", gjson.Get(records[1].data, "delta.text").String())
	// unknown keys fail open under their own name
	assert.Equal(t, "someFutureEvent", records[2].event)
	assert.Equal(t, "end_turn", gjson.Get(records[3].data, "stopReason").String())
}

func TestStreamHandler_NativeChunks(t *testing.T) {
	c, recorder := newStreamContext(t)

	chunks := make(chan []byte, 3)
	chunks <- []byte(`{"type":"message_start","message":{"role":"assistant"}}`)
	chunks <- []byte(`{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"x"}}`)
	chunks <- []byte(`{"type":"message_stop"}`)
	close(chunks)

	require.Nil(t, StreamHandler(c, &StreamSource{Chunks: chunks}))

	records := parseSSE(t, recorder.Body.String())
	require.Len(t, records, 3)
	assert.Equal(t, "message_start", records[0].event)
	assert.Equal(t, "content_block_delta", records[1].event)
	assert.Equal(t, "message_stop", records[2].event)
}

func TestStreamHandler_RawSSEPassthrough(t *testing.T) {
	c, recorder := newStreamContext(t)

	upstream := strings.Join([]string{
		`event: messageStart`,
		`data: {"messageStart":{"role":"assistant"}}`,
		``,
		`data: {"contentBlockDelta":{"contentBlockIndex":0,"delta":{"text":"hi"}}}`,
		``,
		`data: {"type":"message_stop","stop_reason":"end_turn"}`,
		``,
	}, "\n")

	src := &StreamSource{Body: io.NopCloser(strings.NewReader(upstream))}
	require.Nil(t, StreamHandler(c, src))

	records := parseSSE(t, recorder.Body.String())
	require.Len(t, records, 3)
	assert.Equal(t, "message_start", records[0].event)
	assert.Equal(t, "message_start", gjson.Get(records[0].data, "type").String())
	assert.Equal(t, "content_block_delta", records[1].event)
	assert.Equal(t, "hi", gjson.Get(records[1].data, "delta.text").String())
	// self-describing records pass through untouched
	assert.Equal(t, "message_stop", records[2].event)
}

func TestStreamHandler_SetsSSEHeaders(t *testing.T) {
	c, recorder := newStreamContext(t)
	src := &StreamSource{Body: binaryWire(`{"stopReason":"end_turn"}`)}
	require.Nil(t, StreamHandler(c, src))

	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", recorder.Header().Get("Cache-Control"))
}
