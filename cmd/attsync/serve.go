package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mobsuccess-devops/github-actions-asana/internal/app"
	"github.com/mobsuccess-devops/github-actions-asana/internal/config"
	"github.com/mobsuccess-devops/github-actions-asana/internal/github"
	"github.com/mobsuccess-devops/github-actions-asana/internal/logger"
	"github.com/mobsuccess-devops/github-actions-asana/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Receive GitHub webhooks and synchronize every pull request delivery",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	srvCfg, err := server.LoadConfig()
	if err != nil {
		return fmt.Errorf("cannot read server config: %w", err)
	}
	inputs, err := config.LoadInputs()
	if err != nil {
		return fmt.Errorf("failed to read action inputs: %w", err)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	if err := github.CheckAuth(ctx, github.ExecRunner); err != nil {
		return err
	}

	a := app.New(cfg, settingsFrom(inputs), github.ExecRunner, log)
	srv := &http.Server{
		Addr:              srvCfg.Addr,
		Handler:           server.NewRouter(a.Synchronize, srvCfg.Secret, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srvCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), srvCfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
