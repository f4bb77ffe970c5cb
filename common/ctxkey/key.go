package ctxkey

const (
	// RequestModel is the fully-qualified model identifier resolved for the
	// current request (path segment beats body field beats configured default).
	// Set in: relay/controller before translation.
	RequestModel = "request_model"

	// KeyRequestBody caches the raw request body for reuse (body can only be
	// read once from the wire). Set in: common.GetRequestBody.
	KeyRequestBody = "key_request_body"
)
