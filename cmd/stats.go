package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/logger"
	"github.com/abhisek/akaun/internal/session"
	"github.com/abhisek/akaun/internal/store"
	"github.com/abhisek/akaun/internal/ui/layout"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show best local scores per drill",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		name = strings.TrimSpace(name)

		e, err := openEnv(cmd, logger.Options{})
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		repo := e.store.ScoreRepo()
		drills, err := repo.Drills(ctx)
		if err != nil {
			return err
		}
		if len(drills) == 0 {
			fmt.Println("No drills finished yet.")
			return nil
		}

		fmt.Printf("%-28s  %5s  %-20s  %6s  %6s\n", "Drill", "Runs", "Best", "Score", "Time")
		fmt.Println(strings.Repeat("─", 74))
		for _, id := range drills {
			recs, err := repo.Top(ctx, id, 0)
			if err != nil {
				return err
			}
			if name != "" {
				recs = byPlayer(recs, name)
			}
			if len(recs) == 0 {
				continue
			}
			best := recs[0]
			fmt.Printf("%-28s  %5d  %-20s  %6d  %6s\n",
				truncate(drillTitle(id), 28),
				len(recs),
				truncate(best.Name, 20),
				best.Score,
				layout.Clock(time.Duration(best.ElapsedSeconds)*time.Second),
			)
		}
		return nil
	},
}

func byPlayer(recs []store.ScoreRecord, name string) []store.ScoreRecord {
	var out []store.ScoreRecord
	for _, r := range recs {
		if strings.EqualFold(r.Name, name) {
			out = append(out, r)
		}
	}
	return out
}

// drillTitle falls back to the ID for drills no longer in the catalog.
func drillTitle(id string) string {
	if d, err := session.Lookup(id); err == nil {
		return d.Title
	}
	return id
}

func init() {
	statsCmd.Flags().String("name", "", "Only count runs by this player")
}
