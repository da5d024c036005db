// Package settings holds the quiz preferences, their validation rules and
// their persisted form.
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/abhisek/mathquiz/internal/problemgen"
)

// StorageKey is the key the settings record is stored under.
const StorageKey = "simple_quiz_settings_v1"

// Limits applied by Normalize.
const (
	MinQuestions = 1
	MinOptions   = 2
	MaxOptions   = 6
	MinTimeLimit = 1
)

// Settings is one immutable quiz configuration.
type Settings struct {
	NumQuestions     int                   `json:"numQuestions"`
	NumOptions       int                   `json:"numOptions"`
	TimeLimitMinutes int                   `json:"timeLimit"`
	Difficulty       problemgen.Difficulty `json:"difficulty"`
	Category         string                `json:"category"`
}

// Defaults returns the settings used when nothing valid is stored.
func Defaults() Settings {
	return Settings{
		NumQuestions:     10,
		NumOptions:       4,
		TimeLimitMinutes: 1,
		Difficulty:       problemgen.DifficultyMedium,
		Category:         "",
	}
}

// Normalize clamps every field into its valid range.
func (s Settings) Normalize() Settings {
	s.NumQuestions = max(MinQuestions, s.NumQuestions)
	s.NumOptions = max(MinOptions, min(MaxOptions, s.NumOptions))
	s.TimeLimitMinutes = max(MinTimeLimit, s.TimeLimitMinutes)
	if d, ok := problemgen.ParseDifficulty(string(s.Difficulty)); ok {
		s.Difficulty = d
	} else {
		s.Difficulty = Defaults().Difficulty
	}
	s.Category = strings.TrimSpace(s.Category)
	return s
}

// TimeLimitSeconds returns the session length in whole seconds.
func (s Settings) TimeLimitSeconds() int {
	return s.TimeLimitMinutes * 60
}

// CategoryLabel returns the category for display, or "N/A" when unset.
func (s Settings) CategoryLabel() string {
	if s.Category == "" {
		return "N/A"
	}
	return s.Category
}

// Encode serializes s as the flat JSON record.
func Encode(s Settings) ([]byte, error) {
	return json.Marshal(s.Normalize())
}

// Decode parses a stored record leniently. Numbers may be JSON numbers or
// numeric strings. A missing, zero or unparsable field takes its default;
// the returned notes name every field that fell back. The result is
// normalized. Malformed JSON returns the defaults and an error.
func Decode(raw []byte) (Settings, []string, error) {
	def := Defaults()

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return def, nil, fmt.Errorf("decode settings: %w", err)
	}
	if fields == nil {
		return def, nil, fmt.Errorf("decode settings: not an object")
	}

	var notes []string
	s := def

	intField := func(name string, dst *int, fallback int) {
		v, present := fields[name]
		if !present {
			return
		}
		n, ok := toInt(v)
		if !ok || n == 0 {
			notes = append(notes, fmt.Sprintf("%s: invalid value %v, using %d", name, v, fallback))
			*dst = fallback
			return
		}
		*dst = n
	}
	intField("numQuestions", &s.NumQuestions, def.NumQuestions)
	intField("numOptions", &s.NumOptions, def.NumOptions)
	intField("timeLimit", &s.TimeLimitMinutes, def.TimeLimitMinutes)

	if v, present := fields["difficulty"]; present {
		str, _ := v.(string)
		if d, ok := problemgen.ParseDifficulty(str); ok {
			s.Difficulty = d
		} else {
			notes = append(notes, fmt.Sprintf("difficulty: invalid value %v, using %s", v, def.Difficulty))
		}
	}

	if v, present := fields["category"]; present {
		switch c := v.(type) {
		case string:
			s.Category = c
		case nil:
		default:
			notes = append(notes, fmt.Sprintf("category: invalid value %v, using default", v))
		}
	}

	return s.Normalize(), notes, nil
}

// toInt coerces a JSON number or numeric string, flooring fractions.
func toInt(v any) (int, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Floor(f)
	if f > math.MaxInt32 {
		f = math.MaxInt32
	}
	if f < math.MinInt32 {
		f = math.MinInt32
	}
	return int(f), true
}
