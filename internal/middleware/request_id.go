package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/questx-lab/interaction/pkg/router"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

const RequestIDHeader = "X-Request-Id"

// WithRequestID tags the request with an id, reusing the one sent by a proxy
// when present, and attaches it to the logger.
func WithRequestID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		id := xcontext.HTTPRequest(ctx).Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		if w := xcontext.HTTPWriter(ctx); w != nil {
			w.Header().Set(RequestIDHeader, id)
		}

		ctx = xcontext.WithRequestID(ctx, id)
		ctx = xcontext.WithLogger(ctx, xcontext.Logger(ctx).With("request_id", id))
		return ctx, nil
	}
}
