package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/leaderboard"
	"github.com/abhisek/akaun/internal/logger"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/ui/layout"
)

var leaderboardCmd = &cobra.Command{
	Use:     "leaderboard",
	Aliases: []string{"lb"},
	Short:   "Show or export drill scores from the configured leaderboard",
}

var leaderboardListCmd = &cobra.Command{
	Use:   "list DRILL",
	Short: "List the best scores of a drill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		entries, err := fetchScores(cmd, args[0])
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No scores yet.")
			return nil
		}
		if limit > 0 && len(entries) > limit {
			entries = entries[:limit]
		}

		fmt.Printf("%-4s  %-24s  %6s  %6s  %s\n", "#", "Name", "Score", "Time", "Date")
		fmt.Println(strings.Repeat("─", 64))
		for i, e := range entries {
			fmt.Printf("%-4d  %-24s  %6d  %6s  %s\n",
				i+1,
				truncate(e.Name, 24),
				e.Score,
				layout.Clock(time.Duration(e.ElapsedSeconds)*time.Second),
				e.Timestamp.Local().Format("2006-01-02 15:04"),
			)
		}
		return nil
	},
}

var leaderboardExportCmd = &cobra.Command{
	Use:   "export DRILL",
	Short: "Write a drill's scores to an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = strings.ToLower(args[0]) + ".xlsx"
		}
		entries, err := fetchScores(cmd, args[0])
		if err != nil {
			return err
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		if err := leaderboard.Export(f, args[0], entries); err != nil {
			f.Close()
			return fmt.Errorf("export: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", out, err)
		}
		fmt.Printf("Wrote %d scores to %s\n", len(entries), out)
		return nil
	},
}

// fetchScores returns the ranked scores of a catalog drill.
func fetchScores(cmd *cobra.Command, drillID string) ([]leaderboard.Entry, error) {
	if _, err := session.Lookup(drillID); err != nil {
		return nil, err
	}
	e, err := openEnv(cmd, logger.Options{})
	if err != nil {
		return nil, err
	}
	defer e.Close()

	svc, err := e.leaderboard(cmd.Context())
	if err != nil {
		return nil, err
	}
	entries, err := svc.FetchScores(cmd.Context(), drillID)
	if err != nil {
		return nil, fmt.Errorf("fetch scores: %w", err)
	}
	return leaderboard.Rank(entries), nil
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func init() {
	leaderboardListCmd.Flags().IntP("limit", "n", 20, "Number of scores to show")
	leaderboardExportCmd.Flags().StringP("output", "o", "", "Output file (default <drill>.xlsx)")

	leaderboardCmd.AddCommand(leaderboardListCmd)
	leaderboardCmd.AddCommand(leaderboardExportCmd)
}
