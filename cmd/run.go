package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/abhisek/mathquiz/internal/app"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	genCfg, err := generatorConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := fileLogger(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		NoSplash: noSplash,
		Source:   problemgen.New(nil, genCfg),
		Settings: settings.NewService(st.KV(), logger),
		History:  st.History(),
		Logger:   logger,
	})
}

// fileLogger returns a logger writing to --log, or a discarding one. The
// TUI owns the terminal, so logs never go to stderr.
func fileLogger(cmd *cobra.Command) (*log.Logger, func(), error) {
	path, _ := cmd.Flags().GetString("log")
	if path == "" {
		return log.New(io.Discard, "", 0), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return log.New(f, "mathquiz: ", log.LstdFlags|log.Lshortfile), func() { f.Close() }, nil
}

// stderrLogger is used by the non-interactive commands.
func stderrLogger() *log.Logger {
	return log.New(os.Stderr, "mathquiz: ", log.LstdFlags|log.Lshortfile)
}
