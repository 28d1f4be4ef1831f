package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/coach"
	"github.com/abhisek/akaun/internal/config"
	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/llm"
	"github.com/abhisek/akaun/internal/logger"
	"github.com/abhisek/akaun/internal/store"
)

// env is what most commands need: settings, a logger and the local store.
type env struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store

	closers []func()
}

// loadConfig reads the config file named by --config and applies --db.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(file)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Database.Path = p
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db or database.path
// (highest priority), then AKAUN_DB env var, then the default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if p := cfg.Database.Path; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openEnv(cmd *cobra.Command, logOpts logger.Options) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log, logOpts)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	e := &env{cfg: cfg, log: log}
	e.closers = append(e.closers, func() { _ = log.Sync() })

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	e.store = st
	e.closers = append(e.closers, func() { st.Close() })

	log.Debug("environment ready",
		zap.String("config", cfg.File),
		zap.String("db", dbPath))
	return e, nil
}

// Close releases everything in reverse order of acquisition.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
	e.closers = nil
}

// leaderboard opens the configured backend.
func (e *env) leaderboard(ctx context.Context) (leaderboard.Service, error) {
	lb := e.cfg.Leaderboard
	svc, closeFn, err := leaderboard.Open(ctx, leaderboard.Options{
		Backend: lb.Backend,
		URL:     lb.URL,
		Timeout: lb.Timeout,
		Limit:   lb.Limit,
	}, e.store)
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}
	e.closers = append(e.closers, closeFn)
	return svc, nil
}

// provider builds the LLM provider, recording every request in the store.
func (e *env) provider(ctx context.Context) (llm.Provider, error) {
	return llm.New(ctx, e.cfg.LLM, e.store.EventRepo(), e.log)
}

// coach returns the coach service, or nil when it is switched off or the
// provider cannot be built. The app works without it.
func (e *env) coach(ctx context.Context) *coach.Service {
	if !e.cfg.Coach.Enabled {
		return nil
	}
	if !e.cfg.LLM.Configured() {
		e.log.Warn("coach enabled but llm is not configured", zap.String("provider", e.cfg.LLM.Provider))
		return nil
	}
	p, err := e.provider(ctx)
	if err != nil {
		e.log.Warn("coach unavailable", zap.Error(err))
		return nil
	}
	return coach.New(p, coach.DefaultConfig(), e.log)
}
