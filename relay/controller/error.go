package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock"
	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

// Client-facing error types, following the Messages API vocabulary.
const (
	ErrTypeInvalidRequest = "invalid_request_error"
	ErrTypeNotFound       = "not_found_error"
	ErrTypeAPIError       = "api_error"
)

// ErrorWrapper maps an internal error onto the client error envelope.
// Malformed client bodies surface as 400s instead of being conflated with
// upstream failures.
func ErrorWrapper(err error) *relaymodel.ErrorWithStatusCode {
	status := http.StatusInternalServerError
	errType := ErrTypeAPIError
	if errors.Is(err, bedrock.ErrMalformedRequest) {
		status = http.StatusBadRequest
		errType = ErrTypeInvalidRequest
	}
	return &relaymodel.ErrorWithStatusCode{
		StatusCode: status,
		Error: relaymodel.Error{
			Type:     errType,
			Message:  err.Error(),
			RawError: err,
		},
	}
}

// WriteError renders the error envelope with its HTTP status.
func WriteError(c *gin.Context, bizErr *relaymodel.ErrorWithStatusCode) {
	c.JSON(bizErr.StatusCode, bizErr.ToResponse())
}

// NotFoundError is the 404-equivalent outcome for unroutable paths; it never
// triggers a backend call.
func NotFoundError(c *gin.Context) {
	WriteError(c, &relaymodel.ErrorWithStatusCode{
		StatusCode: http.StatusNotFound,
		Error: relaymodel.Error{
			Type:    ErrTypeNotFound,
			Message: "unsupported endpoint " + c.Request.URL.Path,
		},
	})
}
