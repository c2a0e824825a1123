package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grussorusso/archbench/internal/bench"
	"github.com/grussorusso/archbench/internal/config"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// RegisterRoutes installs the middleware and the routes of the local server.
func RegisterRoutes(e *echo.Echo, h *bench.Handler) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderContentType},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	s := &server{handler: h}
	e.POST("/invoke", s.Invoke)
	e.GET("/operations", GetOperations)
	e.GET("/status", s.GetStatus)
}

// StartAPIServer serves the benchmark on the configured port until the server is shut down.
func StartAPIServer(e *echo.Echo, h *bench.Handler) {
	RegisterRoutes(e, h)

	portNumber := config.GetInt(config.API_PORT, 1323)
	e.HideBanner = true

	zap.L().Info("Starting API server", zap.Int("port", portNumber))
	if err := e.Start(fmt.Sprintf(":%d", portNumber)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Fatal("shutting down the server", zap.Error(err))
	}
}

// RegisterTerminationHandler shuts down the server on SIGINT/SIGTERM, running cleanup first.
func RegisterTerminationHandler(e *echo.Echo, cleanup func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-c
		zap.L().Info("Terminating", zap.String("signal", sig.String()))
		if cleanup != nil {
			cleanup()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			zap.L().Error("Shutdown failed", zap.Error(err))
		}
	}()
}
