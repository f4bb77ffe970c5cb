package controller

import (
	"net/http"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/assert"

	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock"
)

func TestErrorWrapper_MalformedRequestIs400(t *testing.T) {
	err := errors.Wrap(bedrock.ErrMalformedRequest, "messages is required")
	wrapped := ErrorWrapper(err)

	assert.Equal(t, http.StatusBadRequest, wrapped.StatusCode)
	assert.Equal(t, ErrTypeInvalidRequest, wrapped.Error.Type)
	assert.Contains(t, wrapped.Error.Message, "messages is required")
}

func TestErrorWrapper_OtherErrorsAre500(t *testing.T) {
	for _, err := range []error{
		errors.New("connection refused"),
		errors.Wrap(bedrock.ErrUpstreamShape, "output.message.content is empty"),
	} {
		wrapped := ErrorWrapper(err)
		assert.Equal(t, http.StatusInternalServerError, wrapped.StatusCode)
		assert.Equal(t, ErrTypeAPIError, wrapped.Error.Type)
	}
}

func TestErrorWrapper_EnvelopeShape(t *testing.T) {
	resp := ErrorWrapper(errors.New("boom")).ToResponse()
	assert.Equal(t, "error", resp.Type)
	assert.Equal(t, "boom", resp.Error.Message)
}
