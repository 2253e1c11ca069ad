package cmd

import (
	"fmt"

	"github.com/riggerhire/rigmatch/internal/database"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample candidates and jobs",
	Long:  "Insert a small set of Western Australian candidates and jobs. Records that already exist are left alone.",
	RunE: func(cmd *cobra.Command, args []string) error {
		inserted, err := database.Seed()
		if err != nil {
			return fmt.Errorf("seed database: %w", err)
		}

		if inserted == 0 {
			cmd.Println("Sample data already loaded")
			return nil
		}
		cmd.Printf("✓ Inserted %d sample records\n", inserted)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
