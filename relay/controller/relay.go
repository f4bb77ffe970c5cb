package controller

import (
	"context"

	"github.com/Laisky/errors/v2"

	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock"
)

// transport is the process-wide backend transport, chosen once at startup.
// Handlers never construct transports themselves.
var transport bedrock.Transport

// InitTransport selects and builds the backend transport from configuration.
func InitTransport(ctx context.Context) error {
	t, err := bedrock.NewTransport(ctx)
	if err != nil {
		return errors.Wrap(err, "init backend transport")
	}
	transport = t
	return nil
}

// SetTransport swaps the backend transport; tests install fakes through it.
func SetTransport(t bedrock.Transport) { transport = t }
