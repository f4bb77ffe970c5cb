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

// RelayMessages serves POST /v1/messages: the simple non-streaming flow with
// flat string content in the reply.
func RelayMessages(c *gin.Context) {
	lg := gmw.GetLogger(c)
	logClientRequestPayload(c, "messages")

	var req relaymodel.MessagesRequest
	if err := common.UnmarshalBodyReusable(c, &req); err != nil {
		WriteError(c, ErrorWrapper(errors.Wrapf(bedrock.ErrMalformedRequest, "decode body: %v", err)))
		return
	}

	converseReq, err := bedrock.ConvertMessagesRequest(&req, "")
	if err != nil {
		WriteError(c, ErrorWrapper(err))
		return
	}
	c.Set(ctxkey.RequestModel, converseReq.ModelID)

	resp, err := transport.Converse(gmw.Ctx(c), converseReq)
	if err != nil {
		lg.Error("backend converse failed",
			zap.String("model", converseReq.ModelID), zap.Error(err))
		WriteError(c, ErrorWrapper(err))
		return
	}

	out, err := bedrock.ConvertConverseResponse(resp, converseReq.ModelID, bedrock.ShapeFlatText)
	if err != nil {
		lg.Error("translate backend response", zap.Error(err))
		WriteError(c, ErrorWrapper(err))
		return
	}
	c.JSON(http.StatusOK, out)
}
