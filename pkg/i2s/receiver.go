// ABOUTME: Serial receiver state machine for the audio link
// ABOUTME: Shifts line bits into channel words and emits stereo frames
package i2s

// Receiver deserializes the audio line. It samples the data line on
// each rising edge of the bit clock and assembles 16-bit channel
// words, MSB first.
//
// The line carries a word's MSB one bit period after the word-select
// transition that opens its phase; the LSB therefore arrives on the
// rising edge coincident with the next transition. bits counts
// accepted transfers of the word in flight: 0 right after a boundary,
// WordBits when the word is complete.
//
// A word-select transition arriving before a word has all its bits is
// a framing desync (line noise, upstream glitch). The receiver drops
// the partial word and realigns to the new phase on the spot; it never
// waits for a completion that cannot come.
type Receiver struct {
	prevBitClock   bool
	prevWordSelect bool

	phase Phase
	bits  int
	shift uint16

	left     uint16
	haveLeft bool

	// synced is false until the first observed boundary; everything
	// on the line before that is unframed garbage.
	synced bool

	desyncs uint64
}

// NewReceiver returns a receiver that will align itself to the first
// word-select transition it observes.
func NewReceiver() *Receiver {
	return &Receiver{}
}

// Tick evaluates one reference tick. bitClock and wordSelect are the
// levels committed by the frame clock on the previous tick; data is
// the serial line level. When the tick completes a stereo frame the
// returned frame has Valid set and ok is true.
func (r *Receiver) Tick(bitClock, wordSelect, data bool) (Frame, bool) {
	rising := bitClock && !r.prevBitClock
	r.prevBitClock = bitClock
	if !rising {
		return Frame{}, false
	}

	wsChanged := wordSelect != r.prevWordSelect
	r.prevWordSelect = wordSelect

	if !wsChanged {
		if r.synced && r.bits < WordBits {
			r.shift = r.shift<<1 | bit(data)
			r.bits++
		}
		return Frame{}, false
	}

	// Boundary edge. It carries the final bit of the word whose phase
	// just ended, provided all preceding bits were accepted.
	completed := false
	var word uint16
	if r.synced {
		if r.bits == WordBits-1 {
			word = r.shift<<1 | bit(data)
			completed = true
		} else {
			r.desyncs++
			r.haveLeft = false
		}
	}

	ended := r.phase
	r.phase = phaseFor(wordSelect)
	r.bits = 0
	r.shift = 0
	r.synced = true

	if !completed {
		return Frame{}, false
	}
	if ended == PhaseLeft {
		r.left = word
		r.haveLeft = true
		return Frame{}, false
	}
	if !r.haveLeft {
		return Frame{}, false
	}
	r.haveLeft = false
	return Frame{Left: int16(r.left), Right: int16(word), Valid: true}, true
}

// Desyncs reports how many partial words have been dropped due to
// early word-select transitions since construction.
func (r *Receiver) Desyncs() uint64 {
	return r.desyncs
}

// Reset returns the receiver to its unsynchronized power-on state.
func (r *Receiver) Reset() {
	*r = Receiver{}
}

func bit(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}
