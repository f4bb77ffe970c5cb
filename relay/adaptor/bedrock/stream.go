package bedrock

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"

	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bedrockbridge/bedrock-bridge/common"
	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock/eventstream"
	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

// streamEventNames maps backend stream keys to client event type names.
// Keys absent from the table pass through unchanged.
var streamEventNames = map[string]string{
	"messageStart":      "message_start",
	"contentBlockStart": "content_block_start",
	"contentBlockDelta": "content_block_delta",
	"contentBlockStop":  "content_block_stop",
	"messageStop":       "message_stop",
	"metadata":          "metadata",
}

// StreamHandler relays one backend stream to the client as server-sent
// events, picking the consumption strategy from the source shape. Events go
// out in arrival order, flushed one at a time; it returns once the backend
// stream ends or the client disconnects.
func StreamHandler(c *gin.Context, src *StreamSource) *relaymodel.ErrorWithStatusCode {
	defer func() { _ = src.Close() }()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	switch {
	case src.Events != nil:
		relayStructuredStream(c, src)
	case src.Chunks != nil:
		relayNativeChunks(c, src)
	case src.Body != nil:
		relayRawStream(c, src.Body)
	}
	return nil
}

// relayStructuredStream handles already-demarshalled events: translate the
// discriminating key, merge the type tag into the payload, re-emit.
func relayStructuredStream(c *gin.Context, src *StreamSource) {
	lg := gmw.GetLogger(c)
	ctx := gmw.Ctx(c)

	for {
		select {
		case evt, ok := <-src.Events:
			if !ok {
				if err := src.Err(); err != nil {
					lg.Error("backend stream failed", zap.Error(err))
					emitStreamError(c, "api_error", "upstream stream error")
				}
				return
			}
			name, known := streamEventNames[evt.Key]
			if !known {
				// fail open: unknown kinds keep their backend key
				name = evt.Key
			}
			payload := evt.Payload
			if payload == nil {
				payload = map[string]any{}
			}
			payload["type"] = name
			data, err := json.Marshal(payload)
			if err != nil {
				lg.Error("marshal stream event", zap.Error(err))
				continue
			}
			emitSSE(c, name, data)
		case <-ctx.Done():
			return
		}
	}
}

// relayNativeChunks handles the legacy stream, whose payloads are already in
// the client vocabulary and self-describing; forward each under its own type.
func relayNativeChunks(c *gin.Context, src *StreamSource) {
	lg := gmw.GetLogger(c)
	ctx := gmw.Ctx(c)

	for {
		select {
		case chunk, ok := <-src.Chunks:
			if !ok {
				if err := src.Err(); err != nil {
					lg.Error("backend stream failed", zap.Error(err))
					emitStreamError(c, "api_error", "upstream stream error")
				}
				return
			}
			name := gjson.GetBytes(chunk, "type").String()
			emitSSE(c, name, chunk)
		case <-ctx.Done():
			return
		}
	}
}

// relayRawStream handles an undecoded gateway body. The gateway answers in
// one of two framings; sniff the first bytes to tell standard SSE from the
// binary event stream.
func relayRawStream(c *gin.Context, body io.Reader) {
	reader := bufio.NewReader(body)
	head, _ := reader.Peek(16)
	if isSSEHead(head) {
		relaySSEStream(c, reader)
		return
	}
	relayBinaryStream(c, reader)
}

func isSSEHead(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("event:")) || bytes.HasPrefix(trimmed, []byte("data:"))
}

// relaySSEStream re-frames upstream SSE records: self-describing payloads
// pass through, single-key structured payloads get the translated type tag
// injected.
func relaySSEStream(c *gin.Context, reader *bufio.Reader) {
	lg := gmw.GetLogger(c)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		data := bytes.TrimSpace(line[len("data:"):])
		if len(data) == 0 || !gjson.ValidBytes(data) {
			continue
		}

		if name := gjson.GetBytes(data, "type").String(); name != "" {
			emitSSE(c, name, data)
			continue
		}

		key, inner := singleTopLevelKey(data)
		if key == "" {
			lg.Debug("skipping unrecognized sse record", zap.ByteString("data", data))
			continue
		}
		name, known := streamEventNames[key]
		if !known {
			name = key
		}
		payload, err := sjson.SetBytes(inner, "type", name)
		if err != nil {
			lg.Warn("tagging sse record", zap.Error(err))
			continue
		}
		emitSSE(c, name, payload)
	}
	if err := scanner.Err(); err != nil {
		lg.Error("reading backend sse stream", zap.Error(err))
		emitStreamError(c, "api_error", "upstream stream error")
	}
}

// singleTopLevelKey returns the discriminating key and its raw object value
// for a `{"key":{...}}` record, or "" when the record has another shape.
func singleTopLevelKey(data []byte) (string, []byte) {
	var key string
	var inner []byte
	n := 0
	isObject := false
	gjson.ParseBytes(data).ForEach(func(k, v gjson.Result) bool {
		n++
		key = k.String()
		inner = []byte(v.Raw)
		isObject = v.IsObject()
		return n == 1
	})
	if n != 1 || !isObject {
		return "", nil
	}
	return key, inner
}

// relayBinaryStream decodes the proprietary binary framing and synthesizes
// client events from the extracted payloads. The translator owns the content
// block index: it starts at zero, advances on each block stop, and never
// trusts an index carried by the payload itself.
func relayBinaryStream(c *gin.Context, reader io.Reader) {
	lg := gmw.GetLogger(c)
	scanner := eventstream.NewScanner()

	var (
		index     int
		blockOpen bool
		text      strings.Builder
	)

	openBlock := func() {
		emitJSON(c, "content_block_start", map[string]any{
			"type":          "content_block_start",
			"index":         index,
			"content_block": map[string]any{"type": "text", "text": ""},
		})
		blockOpen = true
	}
	closeBlock := func() {
		emitJSON(c, "content_block_stop", map[string]any{
			"type":  "content_block_stop",
			"index": index,
		})
		index++
		blockOpen = false
	}

	buf := make([]byte, 4*1024)
	for {
		n, readErr := reader.Read(buf)
		if n > 0 {
			scanner.Write(buf[:n])
			for {
				payload, ok := scanner.Next()
				if !ok {
					break
				}
				evt, err := eventstream.Classify(payload)
				if err != nil {
					// malformed unit: drop it, keep the stream alive
					lg.Warn("skipping malformed stream payload", zap.Error(err))
					continue
				}
				switch evt.Kind {
				case eventstream.KindTagged:
					emitSSE(c, evt.Type, evt.Raw)
				case eventstream.KindMessageStart:
					emitJSON(c, "message_start", map[string]any{
						"type": "message_start",
						"role": "assistant",
					})
					openBlock()
				case eventstream.KindContentDelta:
					if !blockOpen {
						openBlock()
					}
					text.WriteString(evt.Text)
					emitJSON(c, "content_block_delta", map[string]any{
						"type":  "content_block_delta",
						"index": index,
						"delta": map[string]any{"type": "text_delta", "text": evt.Text},
					})
				case eventstream.KindBlockStop:
					closeBlock()
				case eventstream.KindMessageStop:
					if blockOpen {
						closeBlock()
					}
					emitJSON(c, "message_stop", map[string]any{
						"type":        "message_stop",
						"stop_reason": evt.StopReason,
					})
				case eventstream.KindMetadata:
					emitJSON(c, "metadata", map[string]any{
						"type": "metadata",
						"usage": map[string]any{
							"input_tokens":  evt.InputTokens,
							"output_tokens": evt.OutputTokens,
						},
					})
				default:
					lg.Debug("skipping unclassified stream payload",
						zap.ByteString("payload", evt.Raw))
				}
			}
		}
		if readErr != nil {
			if readErr != io.EOF {
				lg.Error("reading backend binary stream", zap.Error(readErr))
				emitStreamError(c, "api_error", "upstream stream error")
			}
			lg.Debug("binary stream finished",
				zap.Int("blocks", index), zap.Int("text_len", text.Len()))
			return
		}
	}
}

func emitJSON(c *gin.Context, event string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		gmw.GetLogger(c).Error("marshal stream event", zap.Error(err))
		return
	}
	emitSSE(c, event, data)
}

func emitSSE(c *gin.Context, event string, data []byte) {
	c.Render(-1, common.CustomEvent{Event: event, Data: "data: " + string(data)})
	c.Writer.Flush()
}

// emitStreamError sends a best-effort terminal error event on an
// already-started stream, where an HTTP error status is no longer possible.
func emitStreamError(c *gin.Context, errType, message string) {
	payload, err := json.Marshal(relaymodel.ErrorResponse{
		Type:  "error",
		Error: relaymodel.Error{Type: errType, Message: message},
	})
	if err != nil {
		return
	}
	emitSSE(c, "error", payload)
}
