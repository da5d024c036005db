package cmd

import (
	"fmt"

	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		settings.NewService(st.KV(), stderrLogger()).Clear(ctx)
		fmt.Println("Settings reset to defaults.")

		if clear, _ := cmd.Flags().GetBool("history"); clear {
			if err := st.History().Clear(ctx); err != nil {
				return fmt.Errorf("clear history: %w", err)
			}
			fmt.Println("Quiz history cleared.")
		}
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("history", false, "Also delete all recorded quiz results")
}
