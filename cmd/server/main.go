package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"frontline-tracker/internal/config"
	"frontline-tracker/internal/constants"
	fxmodules "frontline-tracker/internal/fx"
	"frontline-tracker/internal/geo"
	"frontline-tracker/internal/logger"
	"frontline-tracker/internal/middleware"
	"frontline-tracker/internal/server"
	"frontline-tracker/internal/service"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(func(cfg *config.Config) { logger.ApplyLevel(cfg.LogLevel) }),
		fx.Invoke(runServer),
		fx.Invoke(runCapture),
	).Run()
}

func runServer(
	lc fx.Lifecycle,
	srv *server.Server,
	cfg *config.Config,
	db *sql.DB,
	locator *geo.Locator,
	logger zerolog.Logger,
) {
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := middleware.RequestID(logger)(c.Handler(srv.Routes()))

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: handler,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info().Str("addr", httpSrv.Addr).Msg("server starting")
				if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Fatal().Err(err).Msg("server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := locator.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing geo database")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("server shutdown failed")
				return err
			}
			logger.Info().Msg("server stopped gracefully")
			return nil
		},
	})
}

func runCapture(lc fx.Lifecycle, capture *service.Capture, cfg *config.Config, logger zerolog.Logger) {
	if !cfg.CaptureEnabled {
		logger.Info().Msg("snapshot capture disabled")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				logger.Info().Dur("interval", cfg.CaptureInterval).Msg("capture scheduler started")

				ticker := time.NewTicker(cfg.CaptureInterval)
				defer ticker.Stop()

				if err := capture.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("capture run failed")
				}
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						if err := capture.Run(ctx); err != nil {
							logger.Error().Err(err).Msg("capture run failed")
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			<-done
			logger.Info().Msg("capture scheduler stopped")
			return nil
		},
	})
}
