// ABOUTME: Core types and timing constants for the serial audio link
// ABOUTME: Defines frames, channel phases and the shared clock geometry
package i2s

const (
	// WordBits is the number of payload bits per channel word.
	WordBits = 16

	// ClockDivider is the number of reference ticks per bit period.
	// The bit clock is high for the first half of each period.
	ClockDivider = 8

	// TicksPerPhase is the number of reference ticks one channel
	// phase (Left or Right) occupies: 16 bit periods.
	TicksPerPhase = ClockDivider * WordBits

	// TicksPerFrame is the number of reference ticks per full stereo
	// frame (Left phase + Right phase).
	TicksPerFrame = 2 * TicksPerPhase
)

// Phase identifies which channel word is on the wire.
type Phase int

const (
	PhaseLeft Phase = iota
	PhaseRight
)

func (p Phase) String() string {
	if p == PhaseLeft {
		return "left"
	}
	return "right"
}

// phaseFor maps the word-select level to a channel phase.
// Word select low selects the left channel.
func phaseFor(wordSelect bool) Phase {
	if wordSelect {
		return PhaseRight
	}
	return PhaseLeft
}

// Frame is one complete stereo sample pair. A receiver produces it
// atomically once both channel words of a frame have shifted in.
type Frame struct {
	Left  int16
	Right int16
	Valid bool
}

// Source supplies frames to a transmitter. NextFrame returns the next
// frame and true, or ok=false when no fresh frame is available, in
// which case the transmitter repeats its latched frame.
type Source interface {
	NextFrame() (Frame, bool)
}
