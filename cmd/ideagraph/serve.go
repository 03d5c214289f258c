package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/ideagraph"
	"github.com/meikuraledutech/ideagraph/fixture"
	"github.com/meikuraledutech/ideagraph/postgres"
	"github.com/meikuraledutech/ideagraph/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the reference roadmap backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			gallery, closeGallery, err := openGallery(ctx)
			if err != nil {
				return err
			}
			defer closeGallery()

			gen, err := loadGenerator()
			if err != nil {
				return err
			}

			app := server.New(gallery, gen, server.Options{
				AllowedOrigin: cfg.Server.AllowedOrigin,
				Logger:        logger,
			})

			errc := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.String("addr", cfg.Server.Addr))
				errc <- app.Listen(cfg.Server.Addr, fiber.ListenConfig{DisableStartupMessage: true})
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
				logger.Info("server stopping")
				return app.Shutdown()
			}
		},
	}
}

func openGallery(ctx context.Context) (ideagraph.Gallery, func(), error) {
	if cfg.Server.DatabaseURL == "" {
		logger.Info("using in-memory gallery")
		return server.NewMemoryGallery(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.Server.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	store := postgres.New(pool)
	if err := store.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("schema: %w", err)
	}
	logger.Info("using postgres gallery")
	return store, pool.Close, nil
}

func loadGenerator() (*fixture.Generator, error) {
	if cfg.Server.Fixtures == "" {
		logger.Warn("no fixtures configured, every concept yields a single node")
		return fixture.Parse(nil)
	}
	return fixture.Load(cfg.Server.Fixtures)
}
