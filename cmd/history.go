package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/store"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if sessionID != "" {
			return printSession(cmd, st.History(), sessionID)
		}

		results, err := st.History().Results(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No quizzes recorded yet.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-7s  %-5s  %-8s  %-6s  %s\n",
			"Session", "Ended", "Score", "Pct", "Time", "Level", "Category")
		fmt.Println(strings.Repeat("─", 100))
		for _, r := range results {
			timeUp := ""
			if r.TimerExpired {
				timeUp = " (time up)"
			}
			fmt.Printf("%-36s  %-16s  %-7s  %-5s  %-8s  %-6s  %s%s\n",
				r.SessionID,
				r.EndedAt.Local().Format("2006-01-02 15:04"),
				fmt.Sprintf("%d/%d", r.Score, r.Total),
				fmt.Sprintf("%d%%", r.Percent),
				session.FormatClock(r.TimeSpentSeconds),
				r.Difficulty,
				r.CategoryLabel(),
				timeUp,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Max number of results to show")
	historyCmd.Flags().String("session", "", "Show the answers of one session")
}

func printSession(cmd *cobra.Command, repo store.HistoryRepo, id string) error {
	ctx := cmd.Context()
	r, err := repo.Result(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("no quiz with session ID %q", id)
	}
	if err != nil {
		return fmt.Errorf("query result: %w", err)
	}
	answers, err := repo.Answers(ctx, id)
	if err != nil {
		return fmt.Errorf("query answers: %w", err)
	}

	fmt.Printf("Session:    %s\n", r.SessionID)
	fmt.Printf("Ended:      %s\n", r.EndedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Score:      %d/%d (%d%%)\n", r.Score, r.Total, r.Percent)
	fmt.Printf("Time spent: %s (avg %.2fs)\n", session.FormatClock(r.TimeSpentSeconds), r.AvgSecondsPerQuestion)
	fmt.Printf("Difficulty: %s\n", r.Difficulty)
	fmt.Printf("Category:   %s\n\n", r.CategoryLabel())

	for _, a := range answers {
		mark := "✓"
		if !a.Correct {
			mark = "✗"
		}
		fmt.Printf("  %s Q%-3d %-12s chose %-5d answer %-5d %5dms\n",
			mark, a.QuestionIndex, a.QuestionText, a.Chosen, a.CorrectAnswer, a.TimeMs)
	}
	return nil
}
