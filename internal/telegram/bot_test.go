package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathquiz/internal/clock"
	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
)

const testChat int64 = 42

type fakeSender struct {
	messages  []tgbotapi.MessageConfig
	edits     []tgbotapi.EditMessageTextConfig
	callbacks []tgbotapi.CallbackConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		f.messages = append(f.messages, m)
	case tgbotapi.EditMessageTextConfig:
		f.edits = append(f.edits, m)
	}
	return tgbotapi.Message{MessageID: len(f.messages)}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		f.callbacks = append(f.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastText() string {
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].Text
}

func (f *fakeSender) lastCallback() string {
	if len(f.callbacks) == 0 {
		return ""
	}
	return f.callbacks[len(f.callbacks)-1].Text
}

type fixedSource struct{}

func (fixedSource) Generate(problemgen.Difficulty, int) problemgen.Question {
	return problemgen.Question{
		OperandA: 3,
		OperandB: 4,
		Operator: problemgen.OpAdd,
		Answer:   7,
		Options:  []int{5, 6, 7, 8},
	}
}

type memStore map[string][]byte

func (m memStore) Get(_ context.Context, k string) ([]byte, error) { return m[k], nil }
func (m memStore) Put(_ context.Context, k string, v []byte) error { m[k] = v; return nil }
func (m memStore) Delete(_ context.Context, k string) error        { delete(m, k); return nil }

type memRecorder struct {
	answers []session.AnswerRecord
	results []session.Summary
}

func (r *memRecorder) RecordAnswer(_ context.Context, rec session.AnswerRecord) error {
	r.answers = append(r.answers, rec)
	return nil
}

func (r *memRecorder) RecordResult(_ context.Context, sum session.Summary) error {
	r.results = append(r.results, sum)
	return nil
}

type fixture struct {
	bot      *Bot
	api      *fakeSender
	clock    *clock.Fake
	settings *settings.Service
	recorder *memRecorder
}

func newFixture(t *testing.T, chatID int64) *fixture {
	t.Helper()
	f := &fixture{
		api:      &fakeSender{},
		clock:    clock.NewFake(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		settings: settings.NewService(memStore{}, nil),
		recorder: &memRecorder{},
	}
	f.bot = New(f.api, Options{
		ChatID:    chatID,
		Source:    fixedSource{},
		Settings:  f.settings,
		Recorder:  f.recorder,
		Scheduler: f.clock,
	})
	return f
}

func command(chatID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func text(chatID int64, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: s,
	}}
}

func press(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
		Data:    data,
	}}
}

func (f *fixture) send(u tgbotapi.Update) {
	f.bot.handleUpdate(u)
}

func TestBot_Help(t *testing.T) {
	f := newFixture(t, testChat)

	f.send(command(testChat, "/help"))
	assert.Contains(t, f.api.lastText(), "/quiz")
	assert.Equal(t, testChat, f.api.messages[0].ChatID)
}

func TestBot_QuizFlow(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/set questions 2"))

	f.send(command(testChat, "/quiz"))
	require.Equal(t, session.PhaseRunning, f.bot.Controller().Phase())
	q := f.api.messages[len(f.api.messages)-1]
	assert.Contains(t, q.Text, "Question 1/2")
	assert.Contains(t, q.Text, "3 + 4 = ?")
	assert.Contains(t, q.Text, "00:01:00 left")

	kb, ok := q.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 3)
	assert.Equal(t, "ans:1:5", *kb.InlineKeyboard[0][0].CallbackData)

	f.send(press(testChat, "ans:1:7"))
	assert.Equal(t, "", f.api.lastCallback())
	require.Len(t, f.api.edits, 1)
	assert.Contains(t, f.api.edits[0].Text, "Correct")
	assert.Equal(t, q.Text+"\n\n✅ Correct!", f.api.edits[0].Text)

	f.clock.Advance(session.FeedbackDelay)
	assert.Contains(t, f.api.lastText(), "Question 2/2")

	f.send(press(testChat, "ans:2:5"))
	assert.Contains(t, f.api.edits[1].Text, "The answer is 7")

	f.clock.Advance(session.FeedbackDelay)
	assert.Equal(t, session.PhaseEnded, f.bot.Controller().Phase())
	assert.Contains(t, f.api.lastText(), "Score: 1/2 (50%)")
	assert.Regexp(t, `Average: \d+\.\d{2}s per question`, f.api.lastText())
	assert.Contains(t, f.api.lastText(), "Category: N/A")
	assert.Len(t, f.recorder.answers, 2)
	assert.Len(t, f.recorder.results, 1)
}

func TestBot_StaleButtonIgnored(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/quiz"))
	f.send(press(testChat, "ans:1:7"))
	f.clock.Advance(session.FeedbackDelay)

	f.send(press(testChat, "ans:1:7"))
	assert.Equal(t, "That question is no longer active.", f.api.lastCallback())
	assert.Equal(t, 1, f.bot.Controller().State().Score)
}

func TestBot_DoubleAnswerRejected(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/quiz"))

	f.send(press(testChat, "ans:1:7"))
	f.send(press(testChat, "ans:1:8"))
	assert.Equal(t, "Answer not accepted.", f.api.lastCallback())
	assert.Len(t, f.recorder.answers, 1)
}

func TestBot_MalformedCallback(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/quiz"))

	f.send(press(testChat, "bogus"))
	require.Len(t, f.api.callbacks, 1)
	assert.Equal(t, 0, f.bot.Controller().State().Score)
}

func TestBot_TypedAnswer(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/quiz"))

	f.send(text(testChat, " 7 "))
	assert.Equal(t, 1, f.bot.Controller().State().Score)

	f.send(text(testChat, "7"))
	assert.Equal(t, "Already answered. Wait for the next question.", f.api.lastText())
	assert.Equal(t, 1, f.bot.Controller().State().Score)

	f.clock.Advance(session.FeedbackDelay)
	f.send(text(testChat, "42"))
	assert.Equal(t, "Pick one of the offered answers.", f.api.lastText())
}

func TestBot_TimeUp(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/quiz"))

	f.clock.Advance(time.Minute)
	require.Equal(t, session.PhaseEnded, f.bot.Controller().Phase())
	n := len(f.api.messages)
	assert.Equal(t, "⏱ Time is up! Quiz frozen.", f.api.messages[n-2].Text)
	assert.Contains(t, f.api.messages[n-1].Text, "Score: 0/10")
}

func TestBot_Stop(t *testing.T) {
	f := newFixture(t, testChat)

	f.send(command(testChat, "/stop"))
	assert.Equal(t, "No quiz is running.", f.api.lastText())

	f.send(command(testChat, "/quiz"))
	f.send(command(testChat, "/quiz"))
	assert.Contains(t, f.api.lastText(), "already running")

	f.send(command(testChat, "/stop"))
	assert.Equal(t, session.PhaseEnded, f.bot.Controller().Phase())
	assert.Contains(t, f.api.lastText(), "Quiz summary")
}

func TestBot_SetAndReset(t *testing.T) {
	f := newFixture(t, testChat)
	ctx := context.Background()

	f.send(command(testChat, "/set difficulty hard"))
	st, ok := f.settings.Load(ctx)
	require.True(t, ok)
	assert.Equal(t, problemgen.DifficultyHard, st.Difficulty)

	f.send(command(testChat, "/set options 9"))
	st, _ = f.settings.Load(ctx)
	assert.Equal(t, 6, st.NumOptions)

	f.send(command(testChat, "/set category times tables"))
	st, _ = f.settings.Load(ctx)
	assert.Equal(t, "times tables", st.Category)

	f.send(command(testChat, "/set difficulty extreme"))
	assert.Contains(t, f.api.lastText(), "Easy, Medium or Hard")

	f.send(command(testChat, "/set questions many"))
	assert.Contains(t, f.api.lastText(), "not a number")

	f.send(command(testChat, "/set colour blue"))
	assert.Contains(t, f.api.lastText(), "Unknown field")

	f.send(command(testChat, "/reset"))
	_, ok = f.settings.Load(ctx)
	assert.False(t, ok)
	assert.Contains(t, f.api.lastText(), "Difficulty: Medium")
}

func TestBot_SettingsApplyAtNextStart(t *testing.T) {
	f := newFixture(t, testChat)
	f.send(command(testChat, "/set time 2"))
	f.send(command(testChat, "/quiz"))

	assert.Equal(t, 120, f.bot.Controller().State().RemainingSeconds)
}

func TestBot_OtherChatsIgnored(t *testing.T) {
	f := newFixture(t, testChat)

	f.send(command(7, "/quiz"))
	f.send(press(7, "ans:1:7"))
	assert.Empty(t, f.api.messages)
	assert.Empty(t, f.api.callbacks)
	assert.Equal(t, session.PhaseIdle, f.bot.Controller().Phase())
}

func TestBot_BindsFirstChat(t *testing.T) {
	f := newFixture(t, 0)

	f.send(command(9, "/help"))
	f.send(command(10, "/help"))
	require.Len(t, f.api.messages, 1)
	assert.Equal(t, int64(9), f.api.messages[0].ChatID)
}

func TestBot_UnknownCommand(t *testing.T) {
	f := newFixture(t, testChat)

	f.send(text(testChat, "hello"))
	assert.Contains(t, f.api.lastText(), "Unknown command")
}

func TestBot_RunEndsQuizOnShutdown(t *testing.T) {
	f := newFixture(t, testChat)
	updates := make(chan tgbotapi.Update, 2)
	updates <- command(testChat, "/quiz")
	close(updates)

	err := f.bot.Run(context.Background(), updates)
	require.NoError(t, err)
	assert.Equal(t, session.PhaseEnded, f.bot.Controller().Phase())
	assert.Len(t, f.recorder.results, 1)
}

func TestBot_RunRealClockPostsToLoop(t *testing.T) {
	api := &fakeSender{}
	b := New(api, Options{ChatID: testChat, Source: fixedSource{}})

	ran := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx, make(chan tgbotapi.Update)) }()

	b.post(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted task did not run")
	}
	cancel()
	require.NoError(t, <-done)

	// Posting after shutdown must not block.
	b.post(func() {})
}

func TestParseCallbackData(t *testing.T) {
	tests := []struct {
		data     string
		question int
		value    int
		ok       bool
	}{
		{"ans:3:12", 3, 12, true},
		{"ans:1:0", 1, 0, true},
		{callbackData(7, 9), 7, 9, true},
		{"ans:1", 0, 0, false},
		{"ans:x:1", 0, 0, false},
		{"ans:1:y", 0, 0, false},
		{"answer:1:2", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			q, v, ok := parseCallbackData(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.question, q)
				assert.Equal(t, tt.value, v)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("MATHQUIZ_BOT_TOKEN", "")
	_, err := ConfigFromEnv()
	assert.ErrorIs(t, err, ErrNoToken)

	t.Setenv("MATHQUIZ_BOT_TOKEN", "123:abc")
	t.Setenv("MATHQUIZ_BOT_CHAT", "-100200")
	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Token)
	assert.Equal(t, int64(-100200), cfg.ChatID)

	t.Setenv("MATHQUIZ_BOT_CHAT", "abc")
	_, err = ConfigFromEnv()
	assert.Error(t, err)
}
