package common

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/Laisky/errors/v2"
	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common/ctxkey"
)

// GetRequestBody reads the request body once and caches it on the gin context
// so translators and debug logging can both see it.
func GetRequestBody(c *gin.Context) ([]byte, error) {
	if body, ok := c.Get(ctxkey.KeyRequestBody); ok {
		return body.([]byte), nil
	}
	requestBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read request body")
	}
	_ = c.Request.Body.Close()
	c.Set(ctxkey.KeyRequestBody, requestBody)
	// restore the body for any downstream reader
	c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
	return requestBody, nil
}

// UnmarshalBodyReusable decodes the cached request body into v without
// consuming it for later readers.
func UnmarshalBodyReusable(c *gin.Context, v any) error {
	requestBody, err := GetRequestBody(c)
	if err != nil {
		return err
	}
	if len(requestBody) == 0 {
		requestBody = []byte("{}")
	}
	if err = json.Unmarshal(requestBody, v); err != nil {
		return errors.Wrap(err, "unmarshal request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
	return nil
}
