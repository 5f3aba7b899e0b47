package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/questx-lab/interaction/internal/common"
	"github.com/questx-lab/interaction/internal/middleware"
	"github.com/questx-lab/interaction/pkg/prometheus"
	"github.com/questx-lab/interaction/pkg/router"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(ctx *cli.Context) error {
	if err := s.loadConfig(ctx); err != nil {
		return err
	}
	if err := s.loadLogger(); err != nil {
		return err
	}
	defer s.syncLogger()
	if err := s.loadRedis(ctx.Context); err != nil {
		return err
	}
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := s.configs.ApiServer
	s.server = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router.Handler(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting server on %s", cfg.Address())

		var err error
		if cfg.Cert != "" && cfg.Key != "" {
			err = s.server.ListenAndServeTLS(cfg.Cert, cfg.Key)
		} else {
			err = s.server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
	case <-sigCtx.Done():
	}

	s.logger.Infof("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Warnf("Cannot close redis client: %v", err)
		}
	}

	s.logger.Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(*s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.Before(middleware.WithRequestID())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	if s.configs.Metrics.Enable {
		s.router.Mount(http.MethodGet, s.configs.Metrics.Path, prometheus.NewHandler(common.PromCollectors()...))
	}

	router.GET(s.router, "/health", s.healthDomain.Check)

	// Discord webhook.
	router.POST(s.router, s.configs.Discord.InteractionPath, s.interactionDomain.Interact)
}

func (s *srv) syncLogger() {
	if err := s.logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot flush logs: %v\n", err)
	}
}
