// Package api serves drills over HTTP with gin. Sessions live in memory;
// finished scores go to the configured leaderboard like in the terminal UI.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/random"
	"github.com/abhisek/akaun/internal/session"
)

// Options wires the server to its collaborators. Leaderboard is required.
type Options struct {
	Leaderboard leaderboard.Service
	Attempts    session.AttemptRecorder
	Logger      *zap.Logger

	// RequestsPerSecond and Burst bound each client IP; zero disables.
	RequestsPerSecond float64
	Burst             int

	// SubmitTimeout bounds each background score submission.
	SubmitTimeout time.Duration

	// SessionTTL drops sessions idle for longer; zero keeps them forever.
	SessionTTL time.Duration

	// Mode is the gin mode, "release" unless set.
	Mode string

	// NewSource seeds each session; defaults to random.New.
	NewSource func() random.Source
	Now       func() time.Time
}

// Server is the HTTP drill API.
type Server struct {
	engine   *gin.Engine
	opts     Options
	log      *zap.Logger
	sessions *registry
	limiter  *limiter
	metrics  *Metrics

	// scores wraps Leaderboard so finishing a drill never waits on it.
	scores *leaderboard.Async
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewSource == nil {
		opts.NewSource = random.New
	}
	if opts.Mode == "" {
		opts.Mode = gin.ReleaseMode
	}
	gin.SetMode(opts.Mode)

	s := &Server{
		engine:   gin.New(),
		opts:     opts,
		log:      opts.Logger,
		sessions: newRegistry(opts.SessionTTL, opts.Now),
		metrics:  NewMetrics(),
	}
	if opts.Leaderboard != nil {
		s.scores = leaderboard.NewAsync(opts.Leaderboard, opts.Logger, opts.SubmitTimeout)
	}
	if opts.RequestsPerSecond > 0 {
		s.limiter = newLimiter(opts.RequestsPerSecond, max(opts.Burst, 1))
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.engine
	r.Use(gin.Recovery(), s.accessLog(), s.metrics.middleware())

	r.GET("/healthz", s.health)
	r.GET("/metrics", s.metrics.handler())

	v := r.Group("/")
	if s.limiter != nil {
		v.Use(s.limiter.middleware())
	}
	v.GET("/drills", s.listDrills)
	v.POST("/sessions", s.createSession)
	v.GET("/sessions/:id/current", s.current)
	v.POST("/sessions/:id/answers", s.submit)
	v.POST("/sessions/:id/advance", s.advance)
	v.GET("/sessions/:id/summary", s.summary)
	v.GET("/leaderboard/:drillId", s.leaderboard)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()))
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
// Idle sessions and rate-limit buckets are swept once a minute.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		tick := time.NewTicker(time.Minute)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
				s.sweep()
			}
		}
	})
	err := g.Wait()
	if s.scores != nil {
		s.scores.Wait()
	}
	return err
}

func (s *Server) sweep() {
	live := s.sessions.sweep()
	s.metrics.active.Set(float64(live))
	if s.limiter != nil {
		s.limiter.sweep(10 * time.Minute)
	}
}
