// Package httpapi exposes the copilot over HTTP with gin.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/custodia-labs/risk-copilot/internal/core/domain"
	"github.com/custodia-labs/risk-copilot/internal/core/ports/driving"
	"github.com/custodia-labs/risk-copilot/internal/logger"
)

// maxUploadMemory bounds the multipart form kept in memory.
const maxUploadMemory = 32 << 20

// Server serves the copilot API.
type Server struct {
	mu       sync.Mutex
	settings domain.ServerSettings
	engine   *gin.Engine
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer builds the router. Upload is optional (can be nil), in which
// case /upload_pdf is not registered.
func NewServer(copilot driving.CopilotService, upload driving.UploadService, settings domain.ServerSettings) *Server {
	engine := gin.New()
	engine.MaxMultipartMemory = maxUploadMemory
	engine.Use(gin.Recovery(), requestLogger())
	if mw := corsMiddleware(settings.CORSOrigins); mw != nil {
		engine.Use(mw)
	}
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	h := &handlers{copilot: copilot, upload: upload}
	engine.GET("/health", h.health)
	engine.GET("/stats", h.stats)
	engine.POST("/rebuild", h.rebuild)
	engine.GET("/ask", h.ask)
	if upload != nil {
		engine.POST("/upload_pdf", h.uploadPDF)
	}

	return &Server{
		settings: settings,
		engine:   engine,
		errChan:  make(chan error, 1),
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	listener, err := net.Listen("tcp", s.settings.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.settings.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Zap().Info("http server listening", zap.String("addr", listener.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run starts the server and blocks until ctx is done or serving fails,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(); err != nil {
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-s.errChan:
	}

	logger.Info("http server stopping")
	if err := s.Stop(); err != nil {
		return err
	}
	return serveErr
}

// Stop shuts down the server, waiting up to the shutdown timeout.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}

	timeout := s.settings.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// corsMiddleware allows the configured browser origins with credentials.
// Origins without an http(s) scheme are ignored.
func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	for _, origin := range origins {
		switch {
		case origin == "*":
			config.AllowAllOrigins = true
			config.AllowCredentials = false
			config.AllowOrigins = nil
			return cors.New(config)
		case strings.HasPrefix(origin, "http://"), strings.HasPrefix(origin, "https://"):
			config.AllowOrigins = append(config.AllowOrigins, origin)
		default:
			logger.Warn("ignoring CORS origin %q: must start with http:// or https://", origin)
		}
	}

	if len(config.AllowOrigins) == 0 {
		return nil
	}
	return cors.New(config)
}

// requestLogger logs one structured line per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Zap().Warn("request", fields...)
			return
		}
		logger.Zap().Debug("request", fields...)
	}
}
