package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/akaun/internal/api"
	"github.com/abhisek/akaun/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the drills over HTTP",
	Long: `Serve the drill catalog as a JSON API. Sessions are kept in memory and
finished scores go to the configured leaderboard backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd, logger.Options{Console: true})
		if err != nil {
			return err
		}
		defer e.Close()

		cfg := e.cfg.Server
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		board, err := e.leaderboard(ctx)
		if err != nil {
			return err
		}

		srv := api.New(api.Options{
			Leaderboard:       board,
			Attempts:          e.store.AttemptRepo(),
			Logger:            e.log,
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			SessionTTL:        cfg.SessionTTL,
			SubmitTimeout:     e.cfg.Leaderboard.Timeout,
			Mode:              cfg.Mode,
		})
		e.log.Info("serving drills",
			zap.String("addr", cfg.Addr),
			zap.String("leaderboard", e.cfg.Leaderboard.Backend))
		return srv.Run(ctx, cfg.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
