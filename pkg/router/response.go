package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/interaction/pkg/errorx"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

type errorResponse struct {
	Code  int64  `json:"code"`
	Error string `json:"error"`
}

func newErrorResponse(err error) (int, errorResponse) {
	var errx errorx.Error
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	return errx.HTTPStatus(), errorResponse{
		Code:  int64(errx.Code),
		Error: errx.Message,
	}
}

// handleResponse writes the handler result as is. Callers such as Discord
// expect the payload at the top level, so it is not wrapped in an envelope.
func handleResponse(c *gin.Context, ctx context.Context) {
	if err := xcontext.Error(ctx); err != nil {
		status, resp := newErrorResponse(err)
		c.JSON(status, resp)
		return
	}

	resp := xcontext.Response(ctx)
	if resp == nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, resp)
}
