package cmd

import (
	"fmt"

	"github.com/abhisek/mathquiz/internal/session"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show quiz statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.History().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		if stats.Sessions == 0 {
			fmt.Println("No quizzes recorded yet.")
			return nil
		}

		fmt.Printf("Quizzes:       %d\n", stats.Sessions)
		fmt.Printf("Average score: %.0f%%\n", stats.AvgPercent)
		fmt.Printf("Best score:    %d%%\n", stats.BestPercent)
		fmt.Printf("Time-ups:      %d\n", stats.TimeUps)
		fmt.Printf("Answers:       %d (%.0f%% correct)\n", stats.Answers, stats.Accuracy()*100)
		fmt.Printf("Time spent:    %s\n", session.FormatClock(stats.TimeSpentSecs))
		return nil
	},
}
