package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker = sharedobs.ReadinessChecker

// Server is a gin engine behind an http.Server with graceful shutdown.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	logger     *slog.Logger
}

func newServer(addr string, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      engine,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: logger,
	}
}

// loadTemplate parses one embedded page and installs it as the engine's
// template set.
func (s *Server) loadTemplate(fsys fs.FS, name string) {
	s.engine.SetHTMLTemplate(template.Must(template.ParseFS(fsys, "templates/"+name)))
}

// registerHealth adds /healthz and, when ready is non-nil, /readyz and /metrics.
func (s *Server) registerHealth(ready ReadinessChecker) {
	s.engine.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	if ready == nil {
		return
	}
	s.engine.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(ready)))
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
