package problemgen

// Config controls the behavior of the Generator.
type Config struct {
	// Offsets is the pool of distances from the correct answer that
	// distractors are drawn from. A random sign is applied to each draw.
	Offsets []int

	// MaxAttempts caps the draws made from the current pool before it is
	// widened.
	MaxAttempts int

	// WidenBy is how many larger offsets are appended to the pool each time
	// MaxAttempts is exhausted.
	WidenBy int

	// MaxWidenings bounds how often the pool is widened. Once reached, the
	// remaining options are filled with the next unused values above the
	// answer.
	MaxWidenings int

	// Operators restricts the operators drawn from. Empty means all four.
	Operators []Operator
}

// DefaultConfig returns the standard offset pool 1..8 and retry limits.
func DefaultConfig() Config {
	return Config{
		Offsets:      []int{1, 2, 3, 4, 5, 6, 7, 8},
		MaxAttempts:  64,
		WidenBy:      8,
		MaxWidenings: 4,
		Operators:    Operators,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.Offsets) == 0 {
		c.Offsets = def.Offsets
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.WidenBy <= 0 {
		c.WidenBy = def.WidenBy
	}
	if c.MaxWidenings < 0 {
		c.MaxWidenings = 0
	}
	if len(c.Operators) == 0 {
		c.Operators = def.Operators
	}
	return c
}
