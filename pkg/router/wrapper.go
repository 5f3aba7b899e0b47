package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/interaction/pkg/errorx"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

// RawRequest is implemented by requests which need the unparsed body and the
// headers, e.g. to check a signature over the exact bytes received.
type RawRequest interface {
	BindRaw(header http.Header, body []byte) error
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)
		ctx = xcontext.WithHTTPWriter(ctx, c.Writer)

		ctx = func() context.Context {
			for _, before := range router.befores {
				next, err := before(ctx)
				if err != nil {
					return xcontext.WithError(ctx, err)
				}
				ctx = next
			}

			var req Request
			if err := parseRequest(c, method, &req, router.cfg.ApiServer.MaxBodySize); err != nil {
				return xcontext.WithError(ctx, err)
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return xcontext.WithError(ctx, err)
			}
			if resp != nil {
				ctx = xcontext.WithResponse(ctx, resp)
			}

			return ctx
		}()

		handleResponse(c, ctx)

		for _, closer := range router.closers {
			closer(ctx)
		}
	}
}

func parseRequest(c *gin.Context, method string, req any, maxBodySize int64) error {
	switch method {
	case http.MethodGet:
		if err := c.ShouldBindQuery(req); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid query: %v", err)
		}
		return nil

	case http.MethodPost:
		if maxBodySize > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return errorx.New(errorx.BadRequest, "Request body too large")
			}
			return errorx.New(errorx.BadRequest, "Cannot read request body")
		}

		if raw, ok := req.(RawRequest); ok {
			return raw.BindRaw(c.Request.Header, body)
		}

		if len(body) == 0 {
			return nil
		}

		if err := json.Unmarshal(body, req); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid request body")
		}
		return nil
	}

	return errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
}
