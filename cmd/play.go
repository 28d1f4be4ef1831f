package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/app"
	"github.com/abhisek/akaun/internal/screen"
	"github.com/abhisek/akaun/internal/screens/home"
	"github.com/abhisek/akaun/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a drill, skipping the welcome screen",
	Long: `Start the terminal UI on the drill menu, or straight into one drill with
--drill. Esc from the drill returns to the menu.`,
	Example: "  akaun play --drill DRILL-TPM --name Aina",
	RunE: func(cmd *cobra.Command, args []string) error {
		drillID, _ := cmd.Flags().GetString("drill")
		name, _ := cmd.Flags().GetString("name")

		opts := app.Options{SkipWelcome: true}
		opts.Home.Player = strings.TrimSpace(name)

		if drillID != "" {
			d, err := session.Lookup(drillID)
			if err != nil {
				return err
			}
			opts.Start = func(h *home.HomeScreen) screen.Screen {
				return h.Launch(d)
			}
		}
		return runApp(cmd, opts)
	},
}

func init() {
	playCmd.Flags().String("drill", "", "Drill ID to start, see `akaun drills`")
	playCmd.Flags().String("name", "", "Player name for the leaderboard (overrides player.name)")
}
