package helper

import (
	"fmt"

	"github.com/bedrockbridge/bedrock-bridge/common/random"
)

const RequestIdKey = "X-Bridge-Request-Id"

// GenRequestID produces a sortable per-request identifier: a timestamp prefix
// followed by random characters.
func GenRequestID() string {
	return GetTimeString() + random.GetRandomString(8)
}

// MessageWithRequestId appends the request id to a client-facing message so
// operators can correlate error reports with logs.
func MessageWithRequestId(message, id string) string {
	if id == "" {
		return message
	}
	return fmt.Sprintf("%s (request id: %s)", message, id)
}
