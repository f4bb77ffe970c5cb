package bedrock

import "github.com/Laisky/errors/v2"

// Sentinel error kinds the controller maps to HTTP statuses. Wrap them with
// context at the failure site; callers match with errors.Is.
var (
	// ErrMalformedRequest marks a client body missing a required field.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrUpstreamShape marks a backend response missing an expected field.
	ErrUpstreamShape = errors.New("unexpected upstream response shape")
)
