package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abhisek/mathquiz/internal/problemgen"
	"github.com/abhisek/mathquiz/internal/session"
	"github.com/abhisek/mathquiz/internal/settings"
)

const (
	cmdStart    = "start"
	cmdQuiz     = "quiz"
	cmdStop     = "stop"
	cmdSettings = "settings"
	cmdSet      = "set"
	cmdReset    = "reset"
	cmdHelp     = "help"

	callbackPrefix = "ans:"

	// buttonsPerRow lays options out in rows of at most three.
	buttonsPerRow = 3
)

const helpText = `Mental arithmetic quiz.

/quiz - start a quiz with the current settings
/stop - end the running quiz
/settings - show the current settings
/set <field> <value> - change a setting
    fields: questions, options, time, difficulty, category
/reset - restore the default settings
/help - show this message`

func (b *Bot) handleMessage(m *tgbotapi.Message) {
	if m.Chat == nil || !b.allowed(m.Chat.ID) {
		return
	}

	switch m.Command() {
	case cmdQuiz:
		b.startQuiz()
	case cmdStop:
		if b.ctrl.Phase() != session.PhaseRunning {
			b.sendMessage("No quiz is running.")
			return
		}
		b.ctrl.End()
	case cmdSettings:
		b.sendMessage(settingsText(b.loadSettings()))
	case cmdSet:
		b.handleSet(m.CommandArguments())
	case cmdReset:
		if b.settings != nil {
			b.settings.Clear(context.Background())
		}
		b.sendMessage("Settings reset to defaults.\n\n" + settingsText(settings.Defaults()))
	case cmdStart, cmdHelp:
		b.sendMessage(helpText)
	default:
		if b.ctrl.Phase() == session.PhaseRunning && !m.IsCommand() {
			// Typed answers are accepted as well as button presses.
			if b.ctrl.State().Answered {
				b.sendMessage("Already answered. Wait for the next question.")
				return
			}
			if !b.ctrl.SubmitText(m.Text) {
				b.sendMessage("Pick one of the offered answers.")
			}
			return
		}
		b.sendMessage("Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) startQuiz() {
	if b.ctrl.Phase() == session.PhaseRunning {
		b.sendMessage("A quiz is already running. Use /stop to end it.")
		return
	}
	st := b.loadSettings()
	b.sendMessage(fmt.Sprintf("Starting quiz: %s. You have %s.",
		settingsLine(st), session.FormatClock(st.TimeLimitSeconds())))
	b.ctrl.Start(st)
}

func (b *Bot) loadSettings() settings.Settings {
	if b.settings == nil {
		return settings.Defaults()
	}
	st, _ := b.settings.Load(context.Background())
	return st
}

func (b *Bot) handleSet(args string) {
	fields := strings.Fields(args)
	if len(fields) < 1 {
		b.sendMessage("Usage: /set <field> <value>")
		return
	}
	st := b.loadSettings()
	field, value := strings.ToLower(fields[0]), strings.Join(fields[1:], " ")

	switch field {
	case "questions", "options", "time":
		n, err := strconv.Atoi(value)
		if err != nil {
			b.sendMessage(fmt.Sprintf("%q is not a number.", value))
			return
		}
		switch field {
		case "questions":
			st.NumQuestions = n
		case "options":
			st.NumOptions = n
		default:
			st.TimeLimitMinutes = n
		}
	case "difficulty":
		d, ok := problemgen.ParseDifficulty(value)
		if !ok {
			b.sendMessage("Difficulty must be Easy, Medium or Hard.")
			return
		}
		st.Difficulty = d
	case "category":
		st.Category = value
	default:
		b.sendMessage(fmt.Sprintf("Unknown field %q.", fields[0]))
		return
	}

	if b.settings != nil {
		st = b.settings.Save(context.Background(), st)
	} else {
		st = st.Normalize()
	}
	b.sendMessage("Saved.\n\n" + settingsText(st))
}

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil || !b.allowed(cq.Message.Chat.ID) {
		return
	}

	reply := ""
	question, value, ok := parseCallbackData(cq.Data)
	switch {
	case !ok:
		b.logger.Printf("Ignoring callback data %q", cq.Data)
	case question != b.question:
		reply = "That question is no longer active."
	case !b.ctrl.SubmitAnswer(value):
		reply = "Answer not accepted."
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, reply)); err != nil {
		b.logger.Printf("Error answering callback: %v", err)
	}
}

// OnQuestionReady sends the question with one button per option.
func (b *Bot) OnQuestionReady(text string, options []int) {
	b.question++
	b.questionText = fmt.Sprintf("Question %d/%d  (%s left)\n\n%s = ?",
		b.ctrl.State().QuestionIndex, b.ctrl.Settings().NumQuestions, b.remaining, text)

	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, v := range options {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(strconv.Itoa(v), callbackData(b.question, v)))
		if len(row) == buttonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	msg := tgbotapi.NewMessage(b.chatID, b.questionText)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Printf("Error sending question: %v", err)
		return
	}
	b.questionMsgID = sent.MessageID
}

// OnAnswerResult replaces the keyboard with the verdict.
func (b *Bot) OnAnswerResult(correct bool, correctValue int) {
	verdict := "✅ Correct!"
	if !correct {
		verdict = fmt.Sprintf("❌ Not quite. The answer is %d.", correctValue)
	}
	edit := tgbotapi.NewEditMessageText(b.chatID, b.questionMsgID, b.questionText+"\n\n"+verdict)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Printf("Error editing question: %v", err)
	}
}

// OnTick only records the countdown; it is shown with each question.
func (b *Bot) OnTick(remaining string) {
	b.remaining = remaining
}

func (b *Bot) OnSessionEnded(sum session.Summary) {
	if sum.TimerExpired {
		b.sendMessage("⏱ Time is up! Quiz frozen.")
	}
	b.sendMessage(summaryText(sum))
}

func callbackData(question, value int) string {
	return fmt.Sprintf("%s%d:%d", callbackPrefix, question, value)
}

func parseCallbackData(data string) (question, value int, ok bool) {
	rest, found := strings.CutPrefix(data, callbackPrefix)
	if !found {
		return 0, 0, false
	}
	q, v, found := strings.Cut(rest, ":")
	if !found {
		return 0, 0, false
	}
	question, err := strconv.Atoi(q)
	if err != nil {
		return 0, 0, false
	}
	value, err = strconv.Atoi(v)
	if err != nil {
		return 0, 0, false
	}
	return question, value, true
}

func settingsLine(st settings.Settings) string {
	return fmt.Sprintf("%d questions, %d options, %s", st.NumQuestions, st.NumOptions, st.Difficulty)
}

func settingsText(st settings.Settings) string {
	return fmt.Sprintf("Questions: %d\nOptions: %d\nTime limit: %d min\nDifficulty: %s\nCategory: %s",
		st.NumQuestions, st.NumOptions, st.TimeLimitMinutes, st.Difficulty, st.CategoryLabel())
}

func summaryText(sum session.Summary) string {
	return fmt.Sprintf("Quiz summary\n\nScore: %d/%d (%d%%)\nAnswered: %d\nTime spent: %s\nAverage: %.2fs per question\nDifficulty: %s\nCategory: %s",
		sum.Score, sum.Total, sum.Percent,
		sum.Answered,
		session.FormatClock(sum.TimeSpentSeconds),
		sum.AvgSecondsPerQuestion,
		sum.Difficulty,
		sum.CategoryLabel())
}
