// ABOUTME: Serial transmitter state machine for the audio link
// ABOUTME: Serializes latched stereo frames onto the data line
package i2s

// Transmitter drives the serial data line from a latched stereo
// frame. It mirrors Receiver with the roles inverted: the line changes
// on the falling (trailing) edge of the bit clock so that a receiver
// sampling on the rising (leading) edge always sees a settled level.
//
// On the word-select transition that opens a Left phase the
// transmitter pulses its sample request and asks its Source for a
// fresh frame. When the source has nothing, the previously latched
// frame is transmitted again; the line never goes quiet just because
// the producer is late.
type Transmitter struct {
	src Source

	prevBitClock   bool
	prevWordSelect bool
	synced         bool

	latched Frame
	shift   uint16
	bits    int
	line    bool

	repeats uint64
}

// NewTransmitter returns a transmitter fed by src. src may be nil, in
// which case the transmitter repeats its zero-value frame until
// Latch is called.
func NewTransmitter(src Source) *Transmitter {
	return &Transmitter{src: src}
}

// Tick evaluates one reference tick against the clock levels
// committed on the previous tick. It returns the data line level to
// commit for this tick and whether the sample-request pulse is high.
func (t *Transmitter) Tick(bitClock, wordSelect bool) (line, request bool) {
	rising := bitClock && !t.prevBitClock
	falling := !bitClock && t.prevBitClock
	t.prevBitClock = bitClock

	if rising {
		wsChanged := wordSelect != t.prevWordSelect
		t.prevWordSelect = wordSelect
		if wsChanged {
			t.synced = true
			if phaseFor(wordSelect) == PhaseLeft {
				request = true
				if t.src != nil {
					if f, ok := t.src.NextFrame(); ok {
						t.latched = f
					} else {
						t.repeats++
					}
				}
				t.shift = uint16(t.latched.Left)
			} else {
				t.shift = uint16(t.latched.Right)
			}
			t.bits = 0
		}
	}

	// The word's MSB goes out on the first falling edge after the
	// boundary, which a receiver samples one bit period after the
	// word-select transition. The LSB lands on the boundary edge of
	// the next phase.
	if falling && t.synced && t.bits < WordBits {
		t.line = t.shift&0x8000 != 0
		t.shift <<= 1
		t.bits++
	}

	return t.line, request
}

// Latch replaces the latched frame directly, bypassing the source.
func (t *Transmitter) Latch(f Frame) {
	t.latched = f
}

// Repeats reports how many sample requests found no fresh frame and
// fell back to retransmitting the latched one.
func (t *Transmitter) Repeats() uint64 {
	return t.repeats
}

// Reset returns the transmitter to its power-on state, keeping src.
func (t *Transmitter) Reset() {
	src := t.src
	*t = Transmitter{src: src}
}
