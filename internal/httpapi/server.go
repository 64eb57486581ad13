// Package httpapi provides the HTTP frontend for the RPC gateway: it
// decodes JSON, routes to the dispatcher or the scan engine, and
// encodes responses (spec.md §6, §2 component 7 "external collaborator").
package httpapi

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/nightcrawler/redis-rpc-gateway/internal/dispatch"
	"github.com/nightcrawler/redis-rpc-gateway/internal/gwlog"
	"github.com/nightcrawler/redis-rpc-gateway/internal/keyscan"
	"github.com/nightcrawler/redis-rpc-gateway/internal/metrics"
	"github.com/nightcrawler/redis-rpc-gateway/internal/poolreg"
)

// Server provides the gateway's HTTP endpoints, mounted under /rpc.
type Server struct {
	echo       *echo.Echo
	dispatcher *dispatch.Dispatcher
	scans      *keyscan.Engine
	pools      *poolreg.Registry
	logger     *gwlog.Logger
}

// Config holds HTTP server configuration.
type Config struct {
	Addr string
}

// NewServer builds a Server wiring the dispatcher and scan engine into
// the route table spec.md §6 defines.
func NewServer(pools *poolreg.Registry, d *dispatch.Dispatcher, scans *keyscan.Engine, logger *gwlog.Logger) *Server {
	if logger == nil {
		logger = gwlog.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info(c.Request().Context(), "http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
			)
			return err
		}
	})

	s := &Server{
		echo:       e,
		dispatcher: d,
		scans:      scans,
		pools:      pools,
		logger:     logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	rpc := s.echo.Group("/rpc")

	rpc.POST("/", s.handleRPC)
	rpc.GET("/status", s.handleStatus)
	rpc.GET("/inspect", s.handleInspect)
	rpc.POST("/keys/search/:redis_name", s.handleCreateSearch)
	rpc.GET("/keys/search/info/:search_id", s.handleSearchInfo)
	rpc.POST("/keys/search/refresh-ttl/:search_id", s.handleRefreshTTL)
	rpc.GET("/keys/search/:search_id/page/:page_number", s.handleGetPage)

	for _, path := range []string{
		"/", "/status", "/inspect",
		"/keys/search/:redis_name",
		"/keys/search/info/:search_id",
		"/keys/search/refresh-ttl/:search_id",
		"/keys/search/:search_id/page/:page_number",
	} {
		rpc.OPTIONS(path, handleOptions)
	}

	s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// handleOptions answers CORS preflight with an empty object, as every
// route spec.md §6 lists must (Access-Control-Allow-* is added by a
// reverse proxy in front of this gateway, not by the gateway itself).
func handleOptions(c echo.Context) error {
	return c.JSON(200, map[string]any{})
}

// Start begins serving on addr.
func (s *Server) Start(addr string) error {
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
