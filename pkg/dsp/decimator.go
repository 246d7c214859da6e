// ABOUTME: Sample-and-hold decimator for 16-bit PCM samples
// ABOUTME: Latches every Nth valid sample and holds it in between
package dsp

const (
	// MinDecimation and MaxDecimation bound the decimation factor.
	MinDecimation = 1
	MaxDecimation = 64
)

// Decimator is a hold-and-skip filter. Each call to Update is one
// valid-strobe event; over any window of factor consecutive events the
// held value changes exactly once. Factor 1 is a bypass: every event
// latches.
//
// The factor is a per-call argument rather than stored state so a
// control-side parameter change simply takes effect on the next
// strobe.
type Decimator struct {
	countdown int
	held      int16
	primed    bool
}

// NewDecimator returns a decimator holding silence.
func NewDecimator() *Decimator {
	return &Decimator{}
}

// Update feeds one valid sample through the decimator and returns the
// held value. Factor is clamped to [1, 64].
func (d *Decimator) Update(sample int16, factor int) int16 {
	if factor < MinDecimation {
		factor = MinDecimation
	} else if factor > MaxDecimation {
		factor = MaxDecimation
	}

	if !d.primed || d.countdown == 0 {
		d.held = sample
		d.primed = true
		d.countdown = factor - 1
	} else {
		d.countdown--
	}
	return d.held
}

// Held returns the current held value without consuming a strobe.
func (d *Decimator) Held() int16 {
	return d.held
}

// Reset clears the hold state; the next Update latches immediately.
func (d *Decimator) Reset() {
	*d = Decimator{}
}
