package bedrock

import (
	"context"
	"io"

	"github.com/bedrockbridge/bedrock-bridge/common/config"
)

// NewTransport picks the backend transport from configuration: the HTTP
// gateway when a custom endpoint is set, direct SDK calls otherwise.
func NewTransport(ctx context.Context) (Transport, error) {
	if config.UseCustomEndpoint() {
		return NewHTTPTransport(), nil
	}
	return NewSDKTransport(ctx)
}

// Transport executes backend calls. Two implementations exist: direct SDK
// calls against the service, and an HTTP gateway used in regulated
// environments where the data plane sits behind a private reverse proxy.
// Implementations must support arbitrarily many concurrent in-flight calls;
// timeouts and retries live here, never in the translators.
type Transport interface {
	// Converse executes a non-streaming call.
	Converse(ctx context.Context, req *ConverseRequest) (*ConverseResponse, error)
	// ConverseStream opens a streaming call and returns its event feed.
	ConverseStream(ctx context.Context, req *ConverseRequest) (*StreamSource, error)
	// Invoke executes a legacy non-streaming call with a pre-serialized
	// native body, returning the raw response body.
	Invoke(ctx context.Context, modelID string, body []byte) ([]byte, error)
	// InvokeStream opens a legacy streaming call with a pre-serialized
	// native body.
	InvokeStream(ctx context.Context, modelID string, body []byte) (*StreamSource, error)
	// SupportsInvoke reports whether the legacy operation family is
	// available; when false the caller falls back to the Converse family.
	SupportsInvoke() bool
}

// StreamSource is one backend stream in whichever of three shapes the
// transport produces. Exactly one of the fields is non-nil:
//
//   - Events: discrete Converse stream events, already demarshalled
//   - Chunks: raw native event payloads from the legacy stream
//   - Body: an undecoded byte stream from the HTTP gateway, either standard
//     SSE or the binary framing handled by package eventstream
//
// After Events or Chunks closes, Err reports the terminal stream error, if
// any. Close releases the underlying stream and must always be called.
type StreamSource struct {
	Events <-chan StreamEvent
	Chunks <-chan []byte
	Body   io.ReadCloser

	err     func() error
	closeFn func() error
}

func (s *StreamSource) Err() error {
	if s.err == nil {
		return nil
	}
	return s.err()
}

func (s *StreamSource) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
