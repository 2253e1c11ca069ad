package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riggerhire/rigmatch/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// application is kept so Execute can release it after the command finishes
var application *app.App

var rootCmd = &cobra.Command{
	Use:   "rigmatch",
	Short: "Match riggers and crane crews to jobs",
	Long: `rigmatch scores how well a candidate fits a job from their skills, experience,
distance to site and certifications, and ranks open jobs for a candidate.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		a, err := app.NewApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		application = a

		// Store app in command context
		cmd.SetContext(app.WithApp(cmd.Context(), a))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)

	if application != nil {
		application.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// appFrom returns the App prepared by PersistentPreRunE
func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}
