package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dkazmin/rotabot/internal/adapters/export"
)

func newExportCmd(app *app) *cobra.Command {
	var userID int64

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Print one user's collections as a TOML snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := export.Build(cmd.Context(), app.store, userID, app.now())
			if err != nil {
				return err
			}

			data, err := snapshot.TOML()
			if err != nil {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	exportCmd.Flags().Int64Var(&userID, "user", 0, "user identifier")
	_ = exportCmd.MarkFlagRequired("user")

	return exportCmd
}
