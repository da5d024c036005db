package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/settings"
	"github.com/abhisek/mathquiz/internal/telegram"
	"github.com/spf13/cobra"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the quiz as a Telegram bot",
	Long: `Run the quiz in a single Telegram chat.

The bot token is read from MATHQUIZ_BOT_TOKEN. MATHQUIZ_BOT_CHAT restricts
the bot to one chat ID; without it the bot binds to the first chat that
writes to it. Settings and history share the database with the terminal app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := telegram.ConfigFromEnv()
		if errors.Is(err, telegram.ErrNoToken) {
			return fmt.Errorf("%w\n\nCreate a bot with @BotFather and export its token", err)
		}
		if err != nil {
			return err
		}
		genCfg, err := generatorConfig(cmd)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		api, err := tgbotapi.NewBotAPI(cfg.Token)
		if err != nil {
			return fmt.Errorf("failed to create bot API: %w", err)
		}
		api.Debug = cfg.Debug

		logger := stderrLogger()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Println("Starting bot polling...")
		return telegram.Serve(ctx, api, telegram.Options{
			ChatID:   cfg.ChatID,
			Source:   problemgen.New(nil, genCfg),
			Settings: settings.NewService(st.KV(), logger),
			Recorder: st.History(),
			Logger:   logger,
		})
	},
}
