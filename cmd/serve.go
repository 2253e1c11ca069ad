package cmd

import (
	"github.com/riggerhire/rigmatch/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the matching HTTP API",
	Long: `Serve the scoring and ranking endpoints over HTTP.

Endpoints:
  GET  /healthz
  POST /v1/score
  POST /v1/rank
  POST /v1/candidates/{id}/rank
  GET  /v1/candidates/{id}/matches
  GET  /metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = a.Config.ServerAddr
		}

		srv := server.New(server.Config{
			Addr:     addr,
			Defaults: a.RankOptions(),
		}, a.Matcher, a.Logger)

		return srv.Start(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server_addr from config)")
}
