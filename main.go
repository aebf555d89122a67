package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/orgpulse/orgpulse/config"
	"github.com/orgpulse/orgpulse/github"
	"github.com/orgpulse/orgpulse/logger"
	"github.com/orgpulse/orgpulse/redis"
	"github.com/orgpulse/orgpulse/server"
)

func main() {
	cfg, err := config.NewLoader("APP").Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	mainLog := logger.Named("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var repoCache github.RepoCache
	if cfg.RedisURL != "" {
		rdb, err := redis.ConnectToRedisURL(cfg.RedisURL)
		if err != nil {
			mainLog.Fatal().Err(err).Msg("redis connection failed")
		}
		defer rdb.Close()
		repoCache = redis.NewRepoCache(rdb, cfg.RepoCacheTTL)
	} else {
		repoCache, err = github.NewLRURepoCache(cfg.CacheSize, cfg.RepoCacheTTL)
		if err != nil {
			mainLog.Fatal().Err(err).Msg("repo cache init failed")
		}
	}

	srv := server.New(cfg, ctx, server.DefaultRunnerFactory(cfg, repoCache))

	go func() {
		<-ctx.Done()
		mainLog.Info().Dur("grace", cfg.ShutdownGrace).Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			mainLog.Error().Err(err).Msg("shutdown error")
		}
	}()

	if err := srv.Run(); err != nil {
		mainLog.Fatal().Err(err).Msg("server error")
	}
}
