// Package server запускает HTTP сервер сервиса: H2C, отдельный порт
// метрик, graceful shutdown по сигналу.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"flownet/pkg/config"
	"flownet/pkg/logger"
	"flownet/pkg/metrics"
)

// HTTPServer обёртка над http.Server
type HTTPServer struct {
	server      *http.Server
	serviceName string
	config      *config.Config
}

// New создаёт сервер поверх готовой цепочки обработчиков.
// Обработчик оборачивается в h2c, чтобы принимать HTTP/2 без TLS.
func New(cfg *config.Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
			Handler:      h2c.NewHandler(handler, &http2.Server{}),
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		serviceName: cfg.App.Name,
		config:      cfg,
	}
}

// Run запускает сервер и блокируется до SIGINT/SIGTERM или ошибки
// listener'а.
func (s *HTTPServer) Run() error {
	if s.config.Metrics.Enabled && s.config.Metrics.Port != s.config.HTTP.Port {
		go func() {
			logger.Log.Info("Starting metrics server",
				"port", s.config.Metrics.Port,
				"path", s.config.Metrics.Path,
			)
			if err := metrics.StartMetricsServer(s.config.Metrics.Port); err != nil {
				logger.Log.Error("Metrics server failed", "error", err)
			}
		}()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Log.Info("Starting HTTP server",
			"service", s.serviceName,
			"port", s.config.HTTP.Port,
			"protocol", "HTTP/1.1 + H2C",
			"environment", s.config.App.Environment,
			"version", s.config.App.Version,
		)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	return s.waitForShutdown(errCh)
}

func (s *HTTPServer) waitForShutdown(errCh chan error) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Log.Info("Received shutdown signal", "signal", sig)
	}

	timeout := s.config.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logger.Log.Warn("Forcing server stop", "error", err)
		return s.server.Close()
	}

	logger.Log.Info("Server stopped gracefully")
	return nil
}

// Shutdown останавливает сервер gracefully
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr возвращает адрес, на котором слушает сервер
func (s *HTTPServer) Addr() string {
	return s.server.Addr
}
