// Package server receives GitHub webhooks and runs a synchronization pass
// per pull request delivery.
package server

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/synchronize"
)

type Config struct {
	Addr   string `env:"ATTSYNC_HTTP_ADDR" env-default:":8080"`
	Secret string `env:"ATTSYNC_WEBHOOK_SECRET" env-required:"true"`
	// ShutdownTimeout bounds how long in-flight passes may finish on exit
	ShutdownTimeout time.Duration `env:"ATTSYNC_SHUTDOWN_TIMEOUT" env-default:"5m"`
}

// LoadConfig reads the server settings from the environment
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PassFunc runs one synchronization pass for a delivered event. Each call
// opens its own sessions.
type PassFunc func(ctx context.Context, ev *github.Event) (*synchronize.Result, error)

func NewRouter(pass PassFunc, secret string, log *zap.Logger) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(RequestLogger(log))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", handleHealth)
	router.Post("/webhook", Webhook(pass, secret, log))

	return router
}
