// Package gateway serves the local /api reverse proxy in front of the
// LibaasAI backend.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/libaas/internal/logger"
)

// Prefix is stripped from every proxied path.
const Prefix = "/api"

// RequestIDHeader carries the correlation id added to every request.
const RequestIDHeader = "X-Request-ID"

const shutdownTimeout = 5 * time.Second

var ginMode sync.Once

// Options configures a Server.
type Options struct {
	// Target is the backend root, for example https://backend.example.
	Target string
	// AllowedOrigins restricts CORS. Empty allows every origin.
	AllowedOrigins []string
	Logger         *logger.Logger
}

// Server is a gin engine that forwards /api/* to the backend.
type Server struct {
	engine *gin.Engine
	target *url.URL
	log    *logger.Logger
}

// New builds the router. Target must be an absolute http(s) URL.
func New(opts Options) (*Server, error) {
	target, err := url.Parse(strings.TrimRight(opts.Target, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse gateway target: %w", err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("gateway target %q must be an absolute http(s) URL", opts.Target)
	}

	ginMode.Do(func() { gin.SetMode(gin.ReleaseMode) })
	s := &Server{
		engine: gin.New(),
		target: target,
		log:    opts.Logger.Component("gateway"),
	}

	corsConfig := cors.DefaultConfig()
	if len(opts.AllowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", RequestIDHeader)

	s.engine.Use(gin.Recovery(), s.requestLogger(), cors.New(corsConfig))
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	proxy := s.reverseProxy()
	s.engine.Any(Prefix+"/*path", func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	})
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithFields(map[string]any{"addr": addr, "target": s.target.String()}).Info("gateway listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown gateway: %w", err)
	}
	s.log.Info("gateway stopped")
	return nil
}

func (s *Server) reverseProxy() *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			path := strings.TrimPrefix(pr.In.URL.Path, Prefix)
			if path == "" {
				path = "/"
			}
			pr.Out.URL.Path = path
			pr.Out.URL.RawPath = ""
			pr.SetURL(s.target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.log.WithFields(map[string]any{"path": r.URL.Path}).Error(err, "backend unreachable")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"detail":"Could not reach the LibaasAI service"}`))
		},
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(RequestIDHeader, id)
		}
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		s.log.WithFields(map[string]any{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
		}).Debug("gateway request")
	}
}
