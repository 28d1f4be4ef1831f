package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the local database (scores, attempts and LLM requests)",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
			fmt.Println("Nothing to reset.")
			return nil
		}

		if !yes {
			fmt.Printf("Delete %s? [y/N] ", dbPath)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		// SQLite keeps WAL and shared-memory files next to the database.
		for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
		}
		fmt.Println("Local data deleted.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
