// Package telegram runs quiz sessions in a single Telegram chat.
//
// All updates and timer callbacks are handled on one goroutine, the loop
// in Run, so the session controller is never touched concurrently.
package telegram

import (
	"context"
	"io"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/mathquiz/internal/clock"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
)

// Sender is the subset of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Options are the collaborators of a Bot.
type Options struct {
	ChatID   int64
	Source   session.QuestionSource
	Settings *settings.Service
	Recorder session.Recorder
	Logger   *log.Logger

	// Scheduler overrides the wall clock, for tests. Its callbacks must run
	// on the goroutine that calls the bot.
	Scheduler clock.Scheduler
}

// Bot is a single-chat quiz bot.
type Bot struct {
	api      Sender
	chatID   int64
	settings *settings.Service
	ctrl     *session.Controller
	logger   *log.Logger

	tasks chan func()
	stop  chan struct{}

	// question numbers every question sent, so buttons of older questions
	// can be told apart.
	question      int
	questionMsgID int
	questionText  string
	remaining     string
}

var _ session.View = (*Bot)(nil)

// New creates a bot. Call Run to start processing updates.
func New(api Sender, opts Options) *Bot {
	b := &Bot{
		api:      api,
		chatID:   opts.ChatID,
		settings: opts.Settings,
		logger:   opts.Logger,
		tasks:    make(chan func(), 16),
		stop:     make(chan struct{}),
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard, "", 0)
	}
	sched := opts.Scheduler
	if sched == nil {
		sched = clock.NewReal(b.post)
	}
	b.ctrl = session.NewController(opts.Source, sched, b)
	if opts.Recorder != nil {
		b.ctrl.SetRecorder(opts.Recorder)
	}
	b.ctrl.SetLogger(opts.Logger)
	return b
}

// post queues f on the event loop. It drops f once the loop has stopped.
func (b *Bot) post(f func()) {
	select {
	case b.tasks <- f:
	case <-b.stop:
	}
}

// Serve polls api for updates and runs the bot until ctx is done.
func Serve(ctx context.Context, api *tgbotapi.BotAPI, opts Options) error {
	b := New(api, opts)
	b.logger.Printf("Authorized on account %s", api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)
	defer api.StopReceivingUpdates()

	return b.Run(ctx, updates)
}

// Run handles updates and timer callbacks until ctx is done or updates is
// closed. A quiz still running at that point is ended.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	defer close(b.stop)
	defer b.ctrl.End()

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-b.tasks:
			f()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(u)
		}
	}
}

// Controller exposes the session controller.
func (b *Bot) Controller() *session.Controller {
	return b.ctrl
}

func (b *Bot) handleUpdate(u tgbotapi.Update) {
	switch {
	case u.CallbackQuery != nil:
		b.handleCallback(u.CallbackQuery)
	case u.Message != nil:
		b.handleMessage(u.Message)
	}
}

// allowed reports whether chatID may use the bot, binding the bot to the
// first chat when none is configured.
func (b *Bot) allowed(chatID int64) bool {
	if b.chatID == 0 {
		b.chatID = chatID
		b.logger.Printf("Bound to chat %d", chatID)
	}
	return chatID == b.chatID
}

func (b *Bot) sendMessage(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Printf("Error sending message: %v", err)
	}
}
