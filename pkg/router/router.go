package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/interaction/config"
	"github.com/questx-lab/interaction/pkg/logger"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after a handler. It may enrich the context;
// a returned error stops the chain and is written to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs once the response has been written, whatever the outcome.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine *gin.Engine
	cfg    config.Configs
	logger logger.Logger

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(cfg config.Configs, logger logger.Logger) *Router {
	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())

	return &Router{
		engine: engine,
		cfg:    cfg,
		logger: logger,
	}
}

// Branch returns a router sharing the same engine and the middlewares
// registered so far. Middlewares added to the branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		engine:  r.engine,
		cfg:     r.cfg,
		logger:  r.logger,
		befores: append([]MiddlewareFunc(nil), r.befores...),
		closers: append([]CloserFunc(nil), r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

// Mount serves a plain http.Handler, bypassing the middlewares.
func (r *Router) Mount(method, pattern string, h http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(h))
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	if len(r.cfg.ApiServer.AllowOrigins) == 0 {
		return r.engine
	}

	return cors.New(cors.Options{
		AllowedOrigins: r.cfg.ApiServer.AllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Signature-Ed25519", "X-Signature-Timestamp"},
	}).Handler(r.engine)
}
