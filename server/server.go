package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contently/auth"
	"contently/logging"
	"contently/posts"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Posts    *posts.Service
	Sessions *auth.Sessions
	// OAuth is optional; without it /auth/login and /auth/callback answer 503.
	OAuth    *auth.OAuthProvider
	Store    Pinger
	Gatherer prometheus.Gatherer
	Logger   logging.Logger

	PublicURL    string
	CookieSecure bool
}

type Server struct {
	posts        *posts.Service
	sessions     *auth.Sessions
	oauth        *auth.OAuthProvider
	store        Pinger
	gatherer     prometheus.Gatherer
	logger       logging.Logger
	publicURL    string
	cookieSecure bool
}

func New(d Deps) (*Server, error) {
	if d.Posts == nil {
		return nil, errors.New("post service required")
	}
	if d.Sessions == nil {
		return nil, errors.New("session issuer required")
	}
	if d.Logger == nil {
		return nil, errors.New("logger required")
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{
		posts:        d.Posts,
		sessions:     d.Sessions,
		oauth:        d.OAuth,
		store:        d.Store,
		gatherer:     d.Gatherer,
		logger:       d.Logger,
		publicURL:    strings.TrimRight(d.PublicURL, "/"),
		cookieSecure: d.CookieSecure,
	}, nil
}

// Routes builds the gin engine.
func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(s.logger))
	router.Use(recoveryMiddleware(s.logger))
	router.Use(corsMiddleware(s.allowedOrigin()))

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))

	authRoutes := router.Group("/auth")
	authRoutes.GET("/login", s.handleLogin)
	authRoutes.GET("/callback", s.handleCallback)
	authRoutes.POST("/signout", s.handleSignOut)

	api := router.Group("/api", auth.Middleware(s.sessions))
	api.GET("/me", s.handleMe)
	api.POST("/generate", s.handleGenerate)
	api.POST("/posts", s.handleCreatePost)
	api.GET("/posts", s.handleListPosts)
	api.GET("/posts/:id", s.handleGetPost)
	api.GET("/posts/:id/html", s.handlePostHTML)

	return router
}

func (s *Server) allowedOrigin() string {
	if s.publicURL == "" {
		return "*"
	}
	return s.publicURL
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			s.logger.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "service": "contently"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "contently"})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Routes(),
		ReadTimeout: 30 * time.Second,
		// No write timeout: /api/generate holds the connection for the whole model call.
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
