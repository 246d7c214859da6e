// ABOUTME: Frame clock generator for the serial audio link
// ABOUTME: Derives bit clock and word select from a single tick counter
package i2s

// FrameClock divides the reference tick into the two timing signals of
// the serial link: a bit clock at reference/8 with 50% duty, and a
// word-select level that flips every 16 bit periods.
//
// Both signals decode from one counter. Deriving them from two
// independently advanced counters is the classic way for the pair to
// drift out of phase, so the counter is the single source of truth and
// a word-select flip always lands on a bit-clock rising edge.
type FrameClock struct {
	counter uint32
}

// NewFrameClock returns a frame clock at the start of a Left phase.
func NewFrameClock() *FrameClock {
	return &FrameClock{}
}

// Tick advances one reference tick and returns the signal levels for
// that tick. Word select low is the Left phase, high is Right.
func (c *FrameClock) Tick() (bitClock, wordSelect bool) {
	n := c.counter
	c.counter = (c.counter + 1) % TicksPerFrame

	bitClock = n%ClockDivider < ClockDivider/2
	wordSelect = n >= TicksPerPhase
	return bitClock, wordSelect
}

// Reset returns the clock to the start of a Left phase.
func (c *FrameClock) Reset() {
	c.counter = 0
}
