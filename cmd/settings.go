package cmd

import (
	"fmt"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the quiz settings",
	Long: `Show the stored quiz settings. Any flag given changes that setting;
values are clamped to their valid ranges before saving.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		svc := settings.NewService(st.KV(), stderrLogger())
		cur, _ := svc.Load(ctx)

		changed := false
		flags := cmd.Flags()
		if flags.Changed("questions") {
			cur.NumQuestions, _ = flags.GetInt("questions")
			changed = true
		}
		if flags.Changed("options") {
			cur.NumOptions, _ = flags.GetInt("options")
			changed = true
		}
		if flags.Changed("time") {
			cur.TimeLimitMinutes, _ = flags.GetInt("time")
			changed = true
		}
		if flags.Changed("difficulty") {
			raw, _ := flags.GetString("difficulty")
			d, ok := problemgen.ParseDifficulty(raw)
			if !ok {
				return fmt.Errorf("invalid difficulty %q: must be Easy, Medium or Hard", raw)
			}
			cur.Difficulty = d
			changed = true
		}
		if flags.Changed("category") {
			cur.Category, _ = flags.GetString("category")
			changed = true
		}

		if changed {
			cur = svc.Save(ctx, cur)
			fmt.Println("Settings saved.")
		}
		printSettings(cur)
		return nil
	},
}

func init() {
	settingsCmd.Flags().Int("questions", 0, "Number of questions per quiz")
	settingsCmd.Flags().Int("options", 0, "Answer options per question (2-6)")
	settingsCmd.Flags().Int("time", 0, "Time limit in minutes")
	settingsCmd.Flags().String("difficulty", "", "Easy, Medium or Hard")
	settingsCmd.Flags().String("category", "", "Free-text category label")
}

func printSettings(s settings.Settings) {
	fmt.Printf("Questions:   %d\n", s.NumQuestions)
	fmt.Printf("Options:     %d\n", s.NumOptions)
	fmt.Printf("Time limit:  %d min\n", s.TimeLimitMinutes)
	fmt.Printf("Difficulty:  %s\n", s.Difficulty)
	fmt.Printf("Category:    %s\n", s.CategoryLabel())
}
