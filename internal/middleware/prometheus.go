package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/interaction/internal/common"
	"github.com/questx-lab/interaction/pkg/errorx"
	"github.com/questx-lab/interaction/pkg/router"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

func WithStartTime() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		return xcontext.WithStartTime(ctx, time.Now()), nil
	}
}

func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		startTime := xcontext.StartTime(ctx)
		path := xcontext.HTTPRequest(ctx).URL.Path
		code := fmt.Sprint(statusCode(ctx))

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(path, code).Inc()
		if !startTime.IsZero() {
			common.PromHistograms[common.HTTPRequestDurationSeconds].
				WithLabelValues(path, code).
				Observe(time.Since(startTime).Seconds())
		}
	}
}

func statusCode(ctx context.Context) int {
	err := xcontext.Error(ctx)
	if err == nil {
		return 200
	}

	var errx errorx.Error
	if errors.As(err, &errx) {
		return errx.HTTPStatus()
	}
	return errorx.Unknown.HTTPStatus()
}
