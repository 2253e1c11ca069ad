package cmd

import (
	"fmt"

	"github.com/riggerhire/rigmatch/internal/app"
	"github.com/riggerhire/rigmatch/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		cfg := a.Config

		cmd.Println(titleStyle.Render("Configuration"))
		cmd.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		cmd.Printf("%s %s\n", labelStyle.Render("Database:"), cfg.DBPath)
		cmd.Printf("%s %.2f\n", labelStyle.Render("Min Score:"), cfg.MinScore)
		if cfg.MaxDistanceKm > 0 {
			cmd.Printf("%s %.0f km\n", labelStyle.Render("Max Distance:"), cfg.MaxDistanceKm)
		} else {
			cmd.Printf("%s %s\n", labelStyle.Render("Max Distance:"), "disabled")
		}
		cmd.Printf("%s %d\n", labelStyle.Render("Workers:"), cfg.Workers)
		cmd.Printf("%s %t\n", labelStyle.Render("JSON Logs:"), cfg.LogJSON)
		cmd.Printf("%s %t\n", labelStyle.Render("Debug Logs:"), cfg.LogDebug)
		cmd.Printf("%s %s\n", labelStyle.Render("Server Address:"), cfg.ServerAddr)
		return nil
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  rigmatch config set --key min_score --value 0.7
  rigmatch config set --key max_distance_km --value 100
  rigmatch config set --key workers --value 8`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || value == "" {
			return fmt.Errorf("%w: both --key and --value are required", app.ErrInvalidArgument)
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("update config: %w", err)
		}

		cmd.Printf("✓ Configuration updated: %s\n", key)

		// Reload config
		if err := config.Initialize(); err != nil {
			cmd.PrintErrf("Warning: could not reload config: %v\n", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
