package cmd

import (
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start the quiz app (same as running mathquiz without a command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func init() {
	playCmd.Flags().String("log", "", "Write logs to this file")
	playCmd.Flags().Bool("no-splash", false, "Skip the intro animation")
}
