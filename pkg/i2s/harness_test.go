// ABOUTME: Shared test helpers for the serial link state machines
// ABOUTME: Builds per-slot line traces and clocks machines in lockstep
package i2s

// A slot is one bit period on the line: the levels present at one
// rising edge of the bit clock. serialize builds the data and
// word-select levels for a run of frames using the link convention:
// slot 0 of a phase is the boundary slot and carries the LSB of the
// word whose phase just ended; slots 1..15 carry the current word's
// bits MSB first.
//
// The trace opens with a dummy Right phase so a freshly reset
// receiver observes a word-select transition on its very first slot,
// and closes with one extra boundary slot so the last word's LSB is
// delivered.
func serialize(frames []Frame) (data, ws []bool) {
	type phase struct {
		word uint16
		ws   bool
	}
	phases := []phase{{0, true}}
	for _, f := range frames {
		phases = append(phases, phase{uint16(f.Left), false})
		phases = append(phases, phase{uint16(f.Right), true})
	}

	prev := uint16(0)
	for _, p := range phases {
		data = append(data, prev&1 != 0) // boundary slot: previous LSB
		ws = append(ws, p.ws)
		for j := 1; j < WordBits; j++ {
			data = append(data, p.word&(1<<(WordBits-j)) != 0)
			ws = append(ws, p.ws)
		}
		prev = p.word
	}

	// Closing boundary delivers the final word's LSB.
	data = append(data, prev&1 != 0)
	ws = append(ws, false)
	return data, ws
}

// runSlots clocks rx through the given per-slot levels, two ticks per
// slot (rising then falling), and collects emitted frames.
func runSlots(rx *Receiver, data, ws []bool) []Frame {
	var out []Frame
	for i := range data {
		if f, ok := rx.Tick(true, ws[i], data[i]); ok {
			out = append(out, f)
		}
		rx.Tick(false, ws[i], data[i])
	}
	return out
}

// frameSource feeds frames from a fixed queue.
type frameSource struct {
	frames []Frame
}

func (s *frameSource) NextFrame() (Frame, bool) {
	if len(s.frames) == 0 {
		return Frame{}, false
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, true
}
