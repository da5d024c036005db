package problemgen

import (
	"fmt"
	"strings"
)

// Difficulty selects the operand magnitude range.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the supported difficulties in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty matches s case-insensitively against the known difficulties.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// Range is an inclusive operand range.
type Range struct {
	Min int
	Max int
}

// Range returns the operand range for d. Unknown values get the Medium range.
func (d Difficulty) Range() Range {
	switch d {
	case DifficultyEasy:
		return Range{Min: 2, Max: 10}
	case DifficultyHard:
		return Range{Min: 2, Max: 50}
	default:
		return Range{Min: 2, Max: 20}
	}
}

// Operator is one of the four arithmetic operations.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

// Operators lists every operator.
var Operators = []Operator{OpAdd, OpSub, OpMul, OpDiv}

// String returns the display glyph.
func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	}
	return "?"
}

// Apply computes a op b. Division truncates toward zero.
func (o Operator) Apply(a, b int) int {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if b == 0 {
			return 0
		}
		return a / b
	}
	return 0
}

// ParseOperator accepts the display glyphs and their ASCII stand-ins.
func ParseOperator(s string) (Operator, bool) {
	switch strings.TrimSpace(s) {
	case "+":
		return OpAdd, true
	case "-", "−":
		return OpSub, true
	case "*", "x", "×":
		return OpMul, true
	case "/", "÷":
		return OpDiv, true
	}
	return 0, false
}

// Question is one generated problem with its answer options.
type Question struct {
	OperandA int
	OperandB int
	Operator Operator

	// Answer is the correct result.
	Answer int

	// Options holds the unique answer choices in display order.
	// It always contains Answer.
	Options []int
}

// Text renders the problem, e.g. "12 ÷ 4".
func (q Question) Text() string {
	return fmt.Sprintf("%d %s %d", q.OperandA, q.Operator, q.OperandB)
}

// OptionIndex returns the position of v in Options, or -1.
func (q Question) OptionIndex(v int) int {
	for i, o := range q.Options {
		if o == v {
			return i
		}
	}
	return -1
}

// HasOption reports whether v is one of the options.
func (q Question) HasOption(v int) bool {
	return q.OptionIndex(v) >= 0
}
