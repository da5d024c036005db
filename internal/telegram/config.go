package telegram

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// ErrNoToken is returned when no bot token is configured.
var ErrNoToken = errors.New("telegram: MATHQUIZ_BOT_TOKEN is not set")

// Config holds the bot's connection settings.
type Config struct {
	Token string

	// ChatID is the only chat the bot talks to. Zero binds the bot to the
	// first chat that messages it.
	ChatID int64

	Debug bool
}

// ConfigFromEnv reads MATHQUIZ_BOT_TOKEN, MATHQUIZ_BOT_CHAT and
// MATHQUIZ_BOT_DEBUG.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Token: os.Getenv("MATHQUIZ_BOT_TOKEN"),
		Debug: os.Getenv("MATHQUIZ_BOT_DEBUG") == "true",
	}
	if cfg.Token == "" {
		return cfg, ErrNoToken
	}
	if raw := os.Getenv("MATHQUIZ_BOT_CHAT"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("telegram: invalid MATHQUIZ_BOT_CHAT %q: %w", raw, err)
		}
		cfg.ChatID = id
	}
	return cfg, nil
}
