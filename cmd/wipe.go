package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newWipeCmd(app *app) *cobra.Command {
	var (
		includeSeed bool
		confirm     string
	)

	wipeCmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every user's collections (privileged)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if confirm != "bigbang" {
				return errors.New("refusing to wipe without --confirm bigbang")
			}

			if err := app.store.WipeAll(cmd.Context(), includeSeed); err != nil {
				return fmt.Errorf("wipe collections: %w", err)
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "wiped")
			return err
		},
	}

	wipeCmd.Flags().BoolVar(&includeSeed, "seed", false, "also delete the global seed pool")
	wipeCmd.Flags().StringVar(&confirm, "confirm", "", "must be the literal word bigbang")

	return wipeCmd
}
