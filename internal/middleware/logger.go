package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/questx-lab/interaction/pkg/errorx"
	"github.com/questx-lab/interaction/pkg/router"
	"github.com/questx-lab/interaction/pkg/xcontext"
)

func Logger() router.CloserFunc {
	return func(ctx context.Context) {
		req := xcontext.HTTPRequest(ctx)
		log := xcontext.Logger(ctx)
		info := fmt.Sprintf("%s | %s", req.Method, req.URL.Path)

		if err := xcontext.Error(ctx); err != nil {
			var errx errorx.Error
			if errors.As(err, &errx) {
				log.Warnf("%s | %d | %s", info, errx.Code, errx.Message)
			} else {
				log.Errorf("%s | %d | %v", info, -1, err)
			}
			return
		}

		log.Infof("%s", info)
	}
}
