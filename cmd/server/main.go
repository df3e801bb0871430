package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dharmasatrya/flightscanner/internal/app"
	"github.com/dharmasatrya/flightscanner/internal/config"
	"github.com/dharmasatrya/flightscanner/internal/handler"
	"github.com/dharmasatrya/flightscanner/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init(cfg.Log)
	l := logger.L()

	engine, err := app.New(cfg)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize search engine")
	}
	defer func() {
		if err := engine.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close fare cache")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.ContextLogger(l))
	e.Use(handler.RequestLogger(l))

	handler.Register(e,
		handler.NewSearchHandler(engine.Aggregator),
		handler.NewAirportHandler(engine.Directory),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		l.Info().Str("port", cfg.Server.Port).Strs("hubs", cfg.Search.Hubs).Msg("starting flight scanner server")
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("graceful shutdown failed")
	}
}
