package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "akaun",
	Short: "Accounting drills for Prinsip Perakaunan",
	Long: `Akaun is a terminal drill for Prinsip Perakaunan: allowances, depreciation,
accruals, bad debts, loans, asset disposal and break-even, graded with
penalty questions for every mistake.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, app.Options{})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default $XDG_CONFIG_HOME/akaun/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides AKAUN_DB env var)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(drillsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
