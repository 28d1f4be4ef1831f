package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/akaun/internal/session"
)

var drillsCmd = &cobra.Command{
	Use:   "drills",
	Short: "List the available drills",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-16s  %-28s  %-20s  %s\n", "ID", "Title", "Family", "Questions")
		fmt.Println(strings.Repeat("─", 80))
		for _, d := range session.Drills() {
			fmt.Printf("%-16s  %-28s  %-20s  %d\n", d.ID, d.Title, d.Family.Label(), d.Size())
		}
	},
}
