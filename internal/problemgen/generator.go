// Package problemgen builds arithmetic questions with multiple-choice answers.
package problemgen

import (
	"math/rand/v2"
)

// maxDivisionFactor caps divisor and quotient so division stays within the
// times tables.
const maxDivisionFactor = 12

// easyProductCap is the largest product allowed for Easy multiplication.
const easyProductCap = 100

// Generator produces questions from an injected random source.
// It is not safe for concurrent use.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a Generator. A nil rng gets a randomly seeded source.
func New(rng *rand.Rand, cfg Config) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Generator{cfg: cfg.withDefaults(), rng: rng}
}

// Generate returns one question at difficulty d with numOptions unique
// answer options. numOptions below 1 is treated as 1.
func (g *Generator) Generate(d Difficulty, numOptions int) Question {
	op := g.cfg.Operators[g.rng.IntN(len(g.cfg.Operators))]
	a, b := g.operands(d, op)
	return g.build(a, b, op, numOptions)
}

// Build creates a question for fixed operands, applying the same operand
// rules as Generate (subtraction swap) and synthesizing the options.
func (g *Generator) Build(a, b int, op Operator, numOptions int) Question {
	if op == OpSub && a < b {
		a, b = b, a
	}
	return g.build(a, b, op, numOptions)
}

func (g *Generator) build(a, b int, op Operator, numOptions int) Question {
	answer := op.Apply(a, b)
	return Question{
		OperandA: a,
		OperandB: b,
		Operator: op,
		Answer:   answer,
		Options:  g.options(answer, numOptions),
	}
}

// operands draws the two operands for op at difficulty d.
func (g *Generator) operands(d Difficulty, op Operator) (int, int) {
	r := d.Range()

	if op == OpDiv {
		hi := max(2, min(r.Max, maxDivisionFactor))
		divisor := g.intIn(2, hi)
		quotient := g.intIn(2, hi)
		return divisor * quotient, divisor
	}

	a := g.intIn(r.Min, r.Max)
	b := g.intIn(r.Min, r.Max)

	if op == OpSub && a < b {
		a, b = b, a
	}

	if op == OpMul && d == DifficultyEasy && a*b > easyProductCap {
		hi := min(10, r.Max)
		a = g.intIn(r.Min, hi)
		b = g.intIn(r.Min, hi)
	}

	return a, b
}

// options returns n unique values including answer, in random order.
func (g *Generator) options(answer, n int) []int {
	if n < 1 {
		n = 1
	}

	seen := map[int]bool{answer: true}
	opts := make([]int, 0, n)
	opts = append(opts, answer)

	add := func(v int) {
		if !seen[v] {
			seen[v] = true
			opts = append(opts, v)
		}
	}

	offsets := g.cfg.Offsets
	attempts, widenings := 0, 0
	for len(opts) < n {
		if attempts >= g.cfg.MaxAttempts {
			if widenings >= g.cfg.MaxWidenings {
				// Pool exhausted: take the next unused values above answer.
				for v := answer + 1; len(opts) < n; v++ {
					if v > 0 {
						add(v)
					}
				}
				break
			}
			offsets = widen(offsets, g.cfg.WidenBy)
			widenings++
			attempts = 0
		}
		attempts++

		offset := offsets[g.rng.IntN(len(offsets))]
		sign := 1
		if g.rng.IntN(2) == 0 {
			sign = -1
		}
		candidate := answer + sign*offset
		if candidate <= 0 {
			candidate = abs(candidate) + 1
		}
		add(candidate)
	}

	g.shuffle(opts)
	return opts
}

// shuffle is an in-place Fisher-Yates shuffle.
func (g *Generator) shuffle(xs []int) {
	for i := len(xs) - 1; i > 0; i-- {
		j := g.rng.IntN(i + 1)
		xs[i], xs[j] = xs[j], xs[i]
	}
}

func (g *Generator) intIn(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// widen returns a copy of offsets extended by k values above its maximum.
func widen(offsets []int, k int) []int {
	top := 0
	for _, o := range offsets {
		top = max(top, o)
	}
	out := make([]int, len(offsets), len(offsets)+k)
	copy(out, offsets)
	for i := 1; i <= k; i++ {
		out = append(out, top+i)
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
