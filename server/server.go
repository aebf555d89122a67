// Package server exposes the batch analysis over HTTP: one POST that
// validates the request and streams progress back as server-sent events.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/orgpulse/orgpulse/analyzer"
	"github.com/orgpulse/orgpulse/config"
	"github.com/orgpulse/orgpulse/github"
	"github.com/orgpulse/orgpulse/logger"
	"github.com/orgpulse/orgpulse/ratelimit"
	"github.com/orgpulse/orgpulse/scheduler"
)

// BatchRunner runs one batch to completion, emitting events as it goes.
type BatchRunner interface {
	Run(ctx context.Context, companies []analyzer.CompanyInput, since time.Time, emit scheduler.Emitter)
}

// RunnerFactory builds a BatchRunner around the request's bearer token. One
// runner (and one GitHub client) per batch; nothing is shared across batches
// except the repo cache.
type RunnerFactory func(token string) BatchRunner

type Server struct {
	cfg       config.Config
	base      context.Context
	newRunner RunnerFactory
	validate  *validator.Validate
	log       *logger.Logger
	srv       *http.Server
}

func New(cfg config.Config, base context.Context, newRunner RunnerFactory) *Server {
	s := &Server{
		cfg:       cfg,
		base:      base,
		newRunner: newRunner,
		validate:  validator.New(),
		log:       logger.Named("server"),
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/healthz", s.handleHealthz)

	s.srv = &http.Server{
		Addr:              cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// DefaultRunnerFactory wires the production pipeline: a fresh rate-limited
// GitHub client per batch on top of the shared repo cache.
func DefaultRunnerFactory(cfg config.Config, repoCache github.RepoCache) RunnerFactory {
	return func(token string) BatchRunner {
		limiter := ratelimit.New(cfg.GithubRateLimit)
		client := github.NewClient(token, limiter, repoCache, cfg.HTTPClientTimeout)
		pipeline := analyzer.New(client, cfg.GithubConcurrency)
		return scheduler.New(pipeline, cfg.WindowSize)
	}
}

// Run starts the server and blocks until it is shut down.
func (s *Server) Run() error {
	s.log.Info().Str("addr", s.cfg.Port).Msg("http listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
