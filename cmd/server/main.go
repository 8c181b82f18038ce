package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hongminglow/hospital-be/internal/config"
	"github.com/hongminglow/hospital-be/internal/logging"
	"github.com/hongminglow/hospital-be/internal/server"
	"github.com/hongminglow/hospital-be/internal/session"
	"github.com/hongminglow/hospital-be/internal/storage"
	"github.com/hongminglow/hospital-be/internal/storage/memory"
	"github.com/hongminglow/hospital-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	rootCmd := &cobra.Command{
		Use:          "hms",
		Short:        "Hospital management backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations need STORAGE_DRIVER=%s", config.StoragePostgres)
			}
			if err := postgres.Migrate(cfg.DatabaseURL); err != nil {
				return err
			}
			fmt.Println("migrations complete")
			return nil
		},
	})
	return cmd
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx := context.Background()
	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer store.Close()

	redisClient, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}
	defer redisClient.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv := server.New(cfg, server.Deps{
		Store:    store,
		Sessions: session.NewRedisStore(redisClient),
		Logger:   logger,
		Registry: registry,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("storage", cfg.StorageDriver).Msg("hospital backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-sigCh:
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (storage.Store, error) {
	if cfg.StorageDriver == config.StorageMemory {
		logger.Warn().Msg("using in-memory storage; data is lost on restart")
		return memory.NewStore(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found; relying on existing environment")
	}
}
