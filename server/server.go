// Package server assembles the HTTP server: routes, middleware and the
// metrics endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/landingchat/landingchat/internal/observability"
	"github.com/landingchat/landingchat/internal/profile"
	apiv1 "github.com/landingchat/landingchat/server/router/api/v1"
	"github.com/landingchat/landingchat/server/service/chat"
	"github.com/landingchat/landingchat/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	metrics    *observability.Metrics
	registry   *prometheus.Registry
}

func NewServer(ctx context.Context, p *profile.Profile, st *store.Store, chatService *chat.Service, streamer apiv1.CompletionStreamer) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := observability.NewMetricsWith(registry)

	s := &Server{
		Profile: p,
		Store:   st,

		echoServer: e,
		metrics:    metrics,
		registry:   registry,
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	apiService := apiv1.NewAPIV1Service(p, st, chatService, streamer, metrics)
	apiService.RegisterRoutes(e)

	// Ensure the schema is current before serving traffic.
	if err := st.Migrate(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to migrate database")
	}

	return s, nil
}

// Start blocks until the listener fails or is shut down.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	if err := s.echoServer.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "failed to start server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.String("error", err.Error()))
	}
}

// Echo exposes the underlying router for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echoServer
}
