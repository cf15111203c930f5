package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"tunehub.io/tunehub-server/api/httpbase"
	"tunehub.io/tunehub-server/common/errorx"
)

// respondError maps component errors onto the response envelope: missing
// resources become 404, request-shaped errors 400, everything else 500.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, errorx.ErrNotFound):
		httpbase.NotFoundError(ctx, err)
	case errors.Is(err, errorx.ErrBadRequest),
		errors.Is(err, errorx.ErrReqBodyFormat),
		errors.Is(err, errorx.ErrReqParamInvalid),
		errors.Is(err, errorx.ErrPipelineSettingsInvalid),
		errors.Is(err, errorx.ErrDatasetBadFormat):
		httpbase.BadRequest(ctx, err.Error())
	default:
		httpbase.ServerError(ctx, err)
	}
}

// proxyStream relays a follow-mode log response from the runner to the
// client, flushing line by line.
func proxyStream(ctx *gin.Context, resp *http.Response) {
	defer resp.Body.Close()
	ctx.Writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	ctx.Writer.Header().Set("Transfer-Encoding", "chunked")
	ctx.Writer.WriteHeader(resp.StatusCode)
	ctx.Writer.Flush()
	buf := make([]byte, 4096)
	ctx.Stream(func(w io.Writer) bool {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			_, _ = w.Write(buf[:n])
		}
		if err != nil {
			return false
		}
		select {
		case <-ctx.Request.Context().Done():
			return false
		default:
			return true
		}
	})
}
