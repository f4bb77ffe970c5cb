package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/bedrockbridge/bedrock-bridge/common/config"
	"github.com/bedrockbridge/bedrock-bridge/common/logger"
)

// HTTPTransport speaks to a private data-plane reverse proxy instead of the
// service itself. The gateway exposes path-based Converse operations keyed by
// the short model name and authenticates with a bearer-like header. It has no
// native legacy invoke operations, so SupportsInvoke is false and legacy
// bodies get converted upstream of this transport.
type HTTPTransport struct {
	base  string
	token string
	// sync calls get a hard timeout; stream lifetimes are bounded by the
	// client connection's context instead
	syncClient   *http.Client
	streamClient *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{
		base:         config.CustomEndpointBase,
		token:        config.AccessToken,
		syncClient:   &http.Client{Timeout: config.UpstreamTimeout},
		streamClient: &http.Client{},
	}
}

func (t *HTTPTransport) SupportsInvoke() bool { return false }

func (t *HTTPTransport) Converse(ctx context.Context, req *ConverseRequest) (*ConverseResponse, error) {
	path := fmt.Sprintf("/model/%s/converse", CanonicalModelName(req.ModelID))
	respBody, err := t.post(ctx, t.syncClient, path, req)
	if err != nil {
		return nil, err
	}
	defer respBody.Close()

	data, err := io.ReadAll(respBody)
	if err != nil {
		return nil, errors.Wrap(err, "read converse response")
	}
	var out ConverseResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "decode converse response")
	}
	return &out, nil
}

func (t *HTTPTransport) ConverseStream(ctx context.Context, req *ConverseRequest) (*StreamSource, error) {
	path := fmt.Sprintf("/model/%s/converse-stream", CanonicalModelName(req.ModelID))
	respBody, err := t.post(ctx, t.streamClient, path, req)
	if err != nil {
		return nil, err
	}
	return &StreamSource{Body: respBody, closeFn: respBody.Close}, nil
}

// Invoke is unreachable behind SupportsInvoke() == false; it reports a plain
// error rather than guessing at a gateway path that does not exist.
func (t *HTTPTransport) Invoke(context.Context, string, []byte) ([]byte, error) {
	return nil, errors.New("gateway transport has no native invoke operation")
}

func (t *HTTPTransport) InvokeStream(context.Context, string, []byte) (*StreamSource, error) {
	return nil, errors.New("gateway transport has no native invoke operation")
}

// post executes one gateway call; the caller owns the returned body.
func (t *HTTPTransport) post(ctx context.Context, client *http.Client, path string, payload any) (io.ReadCloser, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "marshal gateway payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+path, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build gateway request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		httpReq.Header.Set("authorization-token", t.token)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "POST %s", path)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		// keep the body for server-side diagnostics only; the client error
		// message carries just the status
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		logger.Logger.Warn("gateway call failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return nil, errors.Errorf("gateway returned status %d for %s", resp.StatusCode, path)
	}
	return resp.Body, nil
}
