package config

import (
	"strings"
	"time"

	"github.com/bedrockbridge/bedrock-bridge/common/env"
)

var (
	// Region selects the AWS region used by the Bedrock runtime client.
	Region = env.String("AWS_DEFAULT_REGION", "us-east-1")
	// AccessKeyID and SecretAccessKey are the static credentials handed to the
	// Bedrock runtime client. When empty the SDK's default credential chain applies.
	AccessKeyID     = env.String("AWS_ACCESS_KEY_ID", "")
	SecretAccessKey = env.String("AWS_SECRET_ACCESS_KEY", "")

	// CustomEndpointBase switches the backend transport from the AWS SDK to a raw
	// HTTP reverse proxy (e.g. a private VPC data-plane endpoint). Trailing slashes
	// are stripped so path joining stays predictable.
	CustomEndpointBase = strings.TrimRight(env.String("BEDROCK_CUSTOM_URL", ""), "/")
	// AccessToken is the optional bearer credential forwarded to the custom endpoint.
	AccessToken = env.String("ACCESS_TOKEN", "")

	// DefaultModelID is applied when neither the request path nor the body names a model.
	DefaultModelID = env.String("DEFAULT_MODEL", "us.anthropic.claude-3-5-sonnet-20241022-v2:0")

	// ServerPort overrides the --port flag when running inside container or PaaS environments.
	ServerPort = strings.TrimSpace(env.String("PORT", ""))
	// GinMode allows forcing Gin into release mode (or other modes) without recompiling.
	GinMode = strings.TrimSpace(env.String("GIN_MODE", ""))

	// DebugEnabled toggles verbose structured logging when DEBUG=true, including
	// request and response body dumps on the relay paths.
	DebugEnabled = env.Bool("DEBUG", false)

	// UpstreamTimeout bounds synchronous calls against the custom endpoint.
	// Streaming calls are not subject to it; their lifetime is the client connection's.
	UpstreamTimeout = time.Second * time.Duration(env.Int("UPSTREAM_TIMEOUT", 90))

	// ShutdownTimeoutSec specifies the graceful shutdown timeout (seconds) for the
	// HTTP server and in-flight request draining.
	ShutdownTimeoutSec = env.Int("SHUTDOWN_TIMEOUT", 30)

	// EnablePrometheusMetrics exposes the /metrics endpoint for Prometheus scrapers when true.
	EnablePrometheusMetrics = env.Bool("ENABLE_PROMETHEUS_METRICS", true)

	// OnlyOneLogFile writes all logs into a single file instead of per-day files.
	OnlyOneLogFile = env.Bool("ONLY_ONE_LOG_FILE", false)
)

// UseCustomEndpoint reports whether the raw HTTP transport is configured.
func UseCustomEndpoint() bool {
	return CustomEndpointBase != ""
}
