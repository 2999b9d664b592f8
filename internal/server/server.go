// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/zuice-storefront/internal/auth"
	"github.com/vyrodovalexey/zuice-storefront/internal/config"
	"github.com/vyrodovalexey/zuice-storefront/internal/handler"
	"github.com/vyrodovalexey/zuice-storefront/internal/middleware"
	"github.com/vyrodovalexey/zuice-storefront/internal/session"
)

// APIPrefix is the path prefix of the session-scoped storefront API.
const APIPrefix = "/api/v1"

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	handler    http.Handler
	config     *config.Config
	logger     *zap.Logger
	wsHandler  *handler.WebSocketHandler
}

// New creates a new Server instance. A nil authenticator disables
// authentication.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	sessions *session.Manager,
	authenticator auth.Authenticator,
	assistant *handler.Assistant,
) *Server {
	s := &Server{
		router: mux.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.setupRoutes(sessions, assistant)
	s.setupMiddleware(authenticator)
	s.setupHTTPServer()

	return s
}

// setupMiddleware wraps the whole router rather than using router.Use, so
// that preflight requests and unmatched routes pass through CORS and the
// request log too.
func (s *Server) setupMiddleware(authenticator auth.Authenticator) {
	chain := []middleware.Middleware{
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logging(s.logger),
	}

	if s.config.MetricsEnabled {
		chain = append(chain, middleware.Metrics())
	}

	chain = append(chain, middleware.CORS(middleware.DefaultCORSConfig()))

	if authenticator != nil {
		s.logger.Info("authentication enabled", zap.String("method", string(authenticator.Method())))
		chain = append(chain, middleware.Auth(authenticator, s.logger))
	} else {
		s.logger.Info("authentication disabled")
	}

	s.handler = middleware.Chain(chain...)(s.router)
}

// setupRoutes configures the probe, metrics, WebSocket and storefront
// routes.
func (s *Server) setupRoutes(sessions *session.Manager, assistant *handler.Assistant) {
	handler.NewRESTHandler(sessions, s.logger).RegisterRoutes(s.router)

	if s.config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	}

	s.wsHandler = handler.NewWebSocketHandler(sessions, assistant, s.logger)
	s.wsHandler.RegisterRoutes(s.router)

	api := s.router.PathPrefix(APIPrefix).Subrouter()
	api.Use(mux.MiddlewareFunc(middleware.Session(sessions, s.logger)))

	handler.NewCatalogHandler(s.logger).RegisterRoutes(api)
	handler.NewCartHandler(s.logger).RegisterRoutes(api)
	handler.NewUserHandler(s.logger).RegisterRoutes(api)
	handler.NewUIHandler(s.logger).RegisterRoutes(api)
	handler.NewChatHandler(assistant, s.logger).RegisterRoutes(api)
}

// setupHTTPServer configures the HTTP server.
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:              s.config.Address(),
		Handler:           s.handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1 MB
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting server",
		zap.String("address", s.config.Address()),
		zap.Bool("metrics_enabled", s.config.MetricsEnabled),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	// Hijacked connections are not tracked by http.Server.
	if s.wsHandler != nil {
		s.wsHandler.CloseAllConnections()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Router returns the server's router for testing purposes.
func (s *Server) Router() *mux.Router {
	return s.router
}
