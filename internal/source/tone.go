// ABOUTME: Test tone generator source
// ABOUTME: Endless sine wave for running the pipeline without a file
package source

import "math"

// DefaultSampleRate is the pipeline's native rate.
const DefaultSampleRate = 44100

// Tone generates an endless sine wave on both channels.
type Tone struct {
	frequency   float64
	sampleIndex uint64
}

// NewTone returns a stereo sine generator at the given frequency.
func NewTone(frequency float64) *Tone {
	return &Tone{frequency: frequency}
}

func (t *Tone) Read(samples []int16) (int, error) {
	pairs := len(samples) / 2
	for i := 0; i < pairs; i++ {
		at := float64(t.sampleIndex+uint64(i)) / float64(DefaultSampleRate)
		v := int16(math.Sin(2*math.Pi*t.frequency*at) * 32767.0 * 0.5)
		samples[i*2] = v
		samples[i*2+1] = v
	}
	t.sampleIndex += uint64(pairs)
	return pairs * 2, nil
}

func (t *Tone) SampleRate() int { return DefaultSampleRate }
func (t *Tone) Close() error    { return nil }
