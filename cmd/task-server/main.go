package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // алиас, чтобы не конфликтовать с internal/middleware
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"task-tracker/internal/config"
	"task-tracker/internal/logger"
	"task-tracker/internal/middleware"
	"task-tracker/internal/tasks"
)

const (
	appName = "task-server"
	Version = "0.1.0"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Software task tracking form",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML); env vars override it")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// run здесь только:
// - создание зависимостей;
// - настройка middleware;
// - запуск HTTP-сервера и его остановка по сигналу.
func run(ctx context.Context, configPath, logLevel string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	log, err := logger.New(cfg.Env, os.Stdout)
	if err != nil {
		return err
	}
	if log, err = logger.WithLevel(log, logLevel); err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	log.Info().Str("env", cfg.Env).Msg("read config")

	catalog := tasks.CatalogFromConfig(cfg.Tasks)
	svc := tasks.NewService(log.With().Str("component", "tasks").Logger())
	handler := tasks.NewHandler(svc, catalog, log,
		tasks.WithRequestTimeout(cfg.HTTP.RequestTimeout))

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: chiWithMiddleware(handler.Router(), log),
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("setting up http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("failed to listen and serve http")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown http server")
		return err
	}
	log.Info().Msg("shut down http server")
	return nil
}

// chiWithMiddleware навешивает базовые middleware на уже собранный роутер.
//
// internal/tasks остаётся независимым от общесервисных middleware.
func chiWithMiddleware(h http.Handler, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.SecurityHeadersMiddleware)

	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())
	r.Mount("/", h)
	return r
}
