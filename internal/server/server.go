// ABOUTME: HTTP server wiring the gin router to the tracker and session store.
// ABOUTME: Owns middleware, the selected-user cookie, and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/harperreed/shapementor/internal/metrics"
	"github.com/harperreed/shapementor/internal/session"
	"github.com/harperreed/shapementor/internal/tracker"
)

// DefaultCookieName holds the session token.
const DefaultCookieName = "shapementor_session"

// Options configures a Server. Zero values pick defaults.
type Options struct {
	CookieName string
	CookieTTL  time.Duration
	Logger     *log.Logger
	Metrics    *metrics.Metrics
}

// Server serves the tracker over HTTP.
type Server struct {
	tracker    *tracker.Tracker
	sessions   session.Store
	metrics    *metrics.Metrics
	logger     *log.Logger
	cookieName string
	cookieTTL  time.Duration
	router     *gin.Engine
}

// New builds a Server and its routes.
func New(t *tracker.Tracker, sessions session.Store, opts Options) *Server {
	s := &Server{
		tracker:    t,
		sessions:   sessions,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		cookieName: opts.CookieName,
		cookieTTL:  opts.CookieTTL,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.cookieName == "" {
		s.cookieName = DefaultCookieName
	}
	if s.cookieTTL <= 0 {
		s.cookieTTL = session.DefaultTTL
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), s.observe())
	s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	return serve(ctx, s.logger, &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	})
}

// RunMetrics serves the Prometheus registry on addr until ctx is cancelled.
func RunMetrics(ctx context.Context, logger *log.Logger, m *metrics.Metrics, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return serve(ctx, logger, &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	})
}

func serve(ctx context.Context, logger *log.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down", "addr", srv.Addr)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", srv.Addr, err)
	}
	return nil
}

// observe logs each request and records it in the metrics.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		status := c.Writer.Status()

		s.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(status), elapsed.Seconds())
		s.logger.Debug("request",
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration", elapsed,
		)
	}
}

// selectUser binds userID to the client's session, creating one if needed.
func (s *Server) selectUser(c *gin.Context, userID int64) error {
	token, _ := c.Cookie(s.cookieName)
	token, err := s.sessions.Select(c.Request.Context(), token, userID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.cookieTTL.Seconds()), "/", "", false, true)
	return nil
}

// currentUser returns the user ID selected by the client's session.
func (s *Server) currentUser(c *gin.Context) (int64, error) {
	token, err := c.Cookie(s.cookieName)
	if err != nil {
		return 0, session.ErrNoSession
	}
	return s.sessions.UserID(c.Request.Context(), token)
}
