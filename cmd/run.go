package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/app"
	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/logger"
	"github.com/abhisek/akaun/internal/screens/drill"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, opts app.Options) error {
	ctx := cmd.Context()
	e, err := openEnv(cmd, logger.Options{})
	if err != nil {
		return err
	}
	defer e.Close()

	board, err := e.leaderboard(ctx)
	if err != nil {
		return err
	}
	scores := leaderboard.NewAsync(board, e.log, e.cfg.Leaderboard.Timeout)
	// Let in-flight submissions finish before the store closes.
	defer scores.Wait()

	if opts.Home.Player == "" {
		opts.Home.Player = e.cfg.Player.Name
	}
	opts.Home.Leaderboard = scores
	opts.Home.Drill = drill.Deps{
		Scores:   scores,
		Attempts: e.store.AttemptRepo(),
		Coach:    e.coach(ctx),
		Logger:   e.log,
	}
	return app.Run(opts)
}
