package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/bedrockbridge/bedrock-bridge/common"
	"github.com/bedrockbridge/bedrock-bridge/common/ctxkey"
	"github.com/bedrockbridge/bedrock-bridge/relay/adaptor/bedrock"
	relaymodel "github.com/bedrockbridge/bedrock-bridge/relay/model"
)

// RelayInvoke serves POST /model/{model}/invoke.
func RelayInvoke(c *gin.Context) {
	relayInvoke(c, false)
}

// RelayInvokeStream serves POST /model/{model}/invoke-with-response-stream.
func RelayInvokeStream(c *gin.Context) {
	relayInvoke(c, true)
}

// relayInvoke dispatches the invoke-compatible flow. Bodies carrying an
// anthropic_version field keep the legacy dialect end to end when the
// transport speaks it natively; everything else is upgraded to the Converse
// family, which also reports real token usage.
func relayInvoke(c *gin.Context, streaming bool) {
	lg := gmw.GetLogger(c)
	logClientRequestPayload(c, "invoke")

	pathModelID := c.Param("model")
	var req relaymodel.MessagesRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil {
		WriteError(c, ErrorWrapper(errors.Wrapf(bedrock.ErrMalformedRequest, "decode body: %v", err)))
		return
	}
	modelID := bedrock.ResolveModelID(pathModelID, req.Model)
	c.Set(ctxkey.RequestModel, modelID)

	if req.IsLegacyDialect() && transport.SupportsInvoke() {
		relayLegacyInvoke(c, &req, modelID, streaming)
		return
	}

	converseReq, err := bedrock.ConvertMessagesRequest(&req, pathModelID)
	if err != nil {
		WriteError(c, ErrorWrapper(err))
		return
	}

	if streaming {
		src, err := transport.ConverseStream(gmw.Ctx(c), converseReq)
		if err != nil {
			lg.Error("backend converse stream failed",
				zap.String("model", modelID), zap.Error(err))
			WriteError(c, ErrorWrapper(err))
			return
		}
		if bizErr := bedrock.StreamHandler(c, src); bizErr != nil {
			lg.Error("stream relay failed", zap.Any("error", bizErr))
		}
		return
	}

	resp, err := transport.Converse(gmw.Ctx(c), converseReq)
	if err != nil {
		lg.Error("backend converse failed",
			zap.String("model", modelID), zap.Error(err))
		WriteError(c, ErrorWrapper(err))
		return
	}
	out, err := bedrock.ConvertConverseResponse(resp, modelID, bedrock.ShapeBlockArray)
	if err != nil {
		lg.Error("translate backend response", zap.Error(err))
		WriteError(c, ErrorWrapper(err))
		return
	}
	c.JSON(http.StatusOK, out)
}

// relayLegacyInvoke forwards the original snake_case body untranslated (save
// for null-pruning) and returns the backend's native response verbatim.
func relayLegacyInvoke(c *gin.Context, req *relaymodel.MessagesRequest, modelID string, streaming bool) {
	lg := gmw.GetLogger(c)

	body, err := bedrock.ConvertInvokeRequest(req)
	if err != nil {
		WriteError(c, ErrorWrapper(err))
		return
	}

	if streaming {
		src, err := transport.InvokeStream(gmw.Ctx(c), modelID, body)
		if err != nil {
			lg.Error("backend invoke stream failed",
				zap.String("model", modelID), zap.Error(err))
			WriteError(c, ErrorWrapper(err))
			return
		}
		if bizErr := bedrock.StreamHandler(c, src); bizErr != nil {
			lg.Error("stream relay failed", zap.Any("error", bizErr))
		}
		return
	}

	raw, err := transport.Invoke(gmw.Ctx(c), modelID, body)
	if err != nil {
		lg.Error("backend invoke failed",
			zap.String("model", modelID), zap.Error(err))
		WriteError(c, ErrorWrapper(err))
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
