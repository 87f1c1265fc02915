package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rotabot",
		Short:         "rotabot: a conversational activity-rotation assistant",
		Long:          "rotabot keeps a per-user pool of activity ideas, offers them randomly or by choice, tracks the one current activity, and records completions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newWipeCmd(app),
		newExportCmd(app),
	)

	return rootCmd
}
