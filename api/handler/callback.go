package handler

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/config"
	"tunehub.io/tunehub-server/common/types"
	"tunehub.io/tunehub-server/component"
)

func NewCallbackHandler(config *config.Config) (*CallbackHandler, error) {
	cc, err := component.NewCallbackComponent(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &CallbackHandler{
		c: cc,
	}, nil
}

type CallbackHandler struct {
	c component.CallbackComponent
}

// RunnerWebhook godoc
// @Security     ApiKey
// @Summary      Receive a status transition from the runner
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        body body types.WebHookEvent true "body"
// @Success      200  {object}  types.Response{} "OK"
// @Failure      400  {object}  types.APIBadRequest "Bad request"
// @Router       /webhook/runner [post]
func (h *CallbackHandler) RunnerWebhook(ctx *gin.Context) {
	var event types.WebHookEvent
	if err := ctx.ShouldBindJSON(&event); err != nil {
		httpbase.BadRequest(ctx, "bad webhook event: "+err.Error())
		return
	}
	if err := h.c.HandleRunnerEvent(ctx.Request.Context(), &event); err != nil {
		slog.Error("failed to handle runner event", slog.Any("error", err),
			slog.String("event_type", string(event.EventType)))
		respondError(ctx, err)
		return
	}
	httpbase.OK(ctx, nil)
}
