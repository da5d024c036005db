package cmd

import (
	"bufio"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated questions (no database)",
	Long: `Generate and interactively answer questions at one difficulty.

This is a stateless developer tool: no database, no timer, no history.
Useful for checking operand ranges and distractors.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("difficulty", "Medium", "Easy, Medium or Hard")
	previewCmd.Flags().Int("count", 5, "Number of questions to generate")
	previewCmd.Flags().Int("options", 4, "Answer options per question (2-6)")
	previewCmd.Flags().Uint64("seed", 0, "Random seed (0 picks one)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	diffVal, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	numOptions, _ := cmd.Flags().GetInt("options")
	seed, _ := cmd.Flags().GetUint64("seed")

	difficulty, ok := problemgen.ParseDifficulty(diffVal)
	if !ok {
		return fmt.Errorf("invalid difficulty %q: must be Easy, Medium or Hard", diffVal)
	}
	numOptions = min(6, max(2, numOptions))

	cfg, err := generatorConfig(cmd)
	if err != nil {
		return err
	}
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	gen := problemgen.New(rng, cfg)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Difficulty: %s, %d options\n", difficulty, numOptions)
	fmt.Printf("Generating %d questions...\n\n", count)

	var correct int
	for i := 1; i <= count; i++ {
		q := gen.Generate(difficulty, numOptions)

		fmt.Printf("── Question %d/%d ──\n", i, count)
		fmt.Printf("%s = ?\n", q.Text())
		for j, v := range q.Options {
			fmt.Printf("  %d) %d\n", j+1, v)
		}

		fmt.Print("\nYour answer (option number): ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}

		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(q.Options) && q.Options[n-1] == q.Answer {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %d\n", q.Answer)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, count)
	return nil
}
