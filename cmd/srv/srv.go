package main

import (
	"context"
	"net/http"

	"github.com/questx-lab/interaction/config"
	"github.com/questx-lab/interaction/internal/domain"
	"github.com/questx-lab/interaction/internal/repository"
	"github.com/questx-lab/interaction/pkg/logger"
	"github.com/questx-lab/interaction/pkg/router"
	"github.com/questx-lab/interaction/pkg/xcontext"
	"github.com/questx-lab/interaction/pkg/xredis"
	"github.com/urfave/cli/v2"
)

type srv struct {
	app *cli.App

	configs *config.Configs
	logger  logger.Logger

	redisClient xredis.Client
	nonceRepo   repository.NonceRepository

	interactionDomain domain.InteractionDomain
	healthDomain      domain.HealthDomain

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig(ctx *cli.Context) error {
	cfg, err := config.Load(ctx.String("config"), ctx.String("env-file"))
	if err != nil {
		return err
	}

	s.configs = &cfg
	return nil
}

func (s *srv) loadLogger() error {
	l, err := logger.NewLoggerWithOptions(logger.Options{
		Level:      s.configs.Log.Level,
		Format:     s.configs.Log.Format,
		File:       s.configs.Log.File,
		MaxSizeMB:  s.configs.Log.MaxSizeMB,
		MaxBackups: s.configs.Log.MaxBackups,
		MaxAgeDays: s.configs.Log.MaxAgeDays,
	})
	if err != nil {
		return err
	}

	s.logger = l
	return nil
}

func (s *srv) loadRedis(ctx context.Context) error {
	if s.configs.Discord.ReplayStore != "redis" {
		return nil
	}

	client, err := xredis.NewClient(xcontext.WithConfigs(ctx, *s.configs))
	if err != nil {
		return err
	}

	s.redisClient = client
	return nil
}

func (s *srv) loadRepos() {
	switch s.configs.Discord.ReplayStore {
	case "redis":
		s.nonceRepo = repository.NewRedisNonceRepository(s.redisClient)
	case "memory":
		s.nonceRepo = repository.NewMemoryNonceRepository()
	}
}

func (s *srv) loadDomains() {
	s.interactionDomain = domain.NewInteractionDomain(s.configs.Discord, s.nonceRepo)
	s.healthDomain = domain.NewHealthDomain()
}
