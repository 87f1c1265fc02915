package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dkazmin/rotabot/internal/adapters/chat/console"
)

func newServeCmd(app *app) *cobra.Command {
	var userID int64

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a console conversation loop (development transport)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loop := console.New(app.router, userID, cmd.InOrStdin(), cmd.OutOrStdout())
			return loop.Run(cmd.Context())
		},
	}

	serveCmd.Flags().Int64Var(&userID, "user", 1, "user identifier for the console session")

	return serveCmd
}
