package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mathquiz",
	Short: "Timed mental arithmetic quiz",
	Long:  "Mathquiz runs timed multiple-choice arithmetic quizzes in the terminal or in a Telegram chat.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("ops", "", "Comma-separated operators to draw from, e.g. \"+,-\" (default all four)")
	rootCmd.Flags().String("log", "", "Write logs to this file")
	rootCmd.Flags().Bool("no-splash", false, "Skip the intro animation")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(botCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHQUIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by the flags.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// generatorConfig builds the generator config from --ops.
func generatorConfig(cmd *cobra.Command) (problemgen.Config, error) {
	cfg := problemgen.DefaultConfig()
	raw, _ := cmd.Flags().GetString("ops")
	if raw == "" {
		return cfg, nil
	}
	ops, err := parseOperators(raw)
	if err != nil {
		return cfg, err
	}
	cfg.Operators = ops
	return cfg, nil
}

func parseOperators(raw string) ([]problemgen.Operator, error) {
	var ops []problemgen.Operator
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		op, ok := problemgen.ParseOperator(s)
		if !ok {
			return nil, fmt.Errorf("unknown operator %q", s)
		}
		ops = append(ops, op)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("no operators in %q", raw)
	}
	return ops, nil
}
