// ABOUTME: Audio output using oto library
// ABOUTME: Streams processed PCM to the default device with volume control
package output

import (
	"encoding/binary"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Output streams interleaved stereo 16-bit PCM to the audio device.
// Write hands blocks to a pull-based reader that the oto player
// drains on its own schedule.
type Output struct {
	otoCtx *oto.Context
	player *oto.Player
	stream *streamReader

	mu     sync.Mutex
	volume int
	muted  bool
	ready  bool
}

// NewOutput creates an audio output for the given sample rate.
func NewOutput(sampleRate int) (*Output, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	o := &Output{
		otoCtx: ctx,
		stream: newStreamReader(),
		volume: 100,
		ready:  true,
	}
	o.player = ctx.NewPlayer(o.stream)
	o.player.Play()

	log.Printf("Audio output initialized: %dHz, 2 channels", sampleRate)
	return o, nil
}

// Write queues a block of samples for playback.
func (o *Output) Write(samples []int16) error {
	o.mu.Lock()
	ready, volume, muted := o.ready, o.volume, o.muted
	o.mu.Unlock()
	if !ready {
		return fmt.Errorf("output not initialized")
	}

	multiplier := volumeMultiplier(volume, muted)
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(float64(s)*multiplier)))
	}
	o.stream.push(buf)
	return nil
}

// SetVolume sets the volume (0-100).
func (o *Output) SetVolume(volume int) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}
	o.mu.Lock()
	o.volume = volume
	o.mu.Unlock()
	log.Printf("Volume set to %d", volume)
}

// SetMuted sets the mute state.
func (o *Output) SetMuted(muted bool) {
	o.mu.Lock()
	o.muted = muted
	o.mu.Unlock()
	log.Printf("Muted: %v", muted)
}

// Close tears down the output.
func (o *Output) Close() {
	o.mu.Lock()
	o.ready = false
	o.mu.Unlock()
	o.stream.close()
	if o.player != nil {
		o.player.Close()
	}
	if o.otoCtx != nil {
		o.otoCtx.Suspend()
	}
}

func volumeMultiplier(volume int, muted bool) float64 {
	if muted {
		return 0.0
	}
	return float64(volume) / 100.0
}

// streamReader adapts pushed byte blocks to the io.Reader the oto
// player pulls from. A starved reader hands back silence instead of
// blocking the audio callback.
type streamReader struct {
	mu      sync.Mutex
	pending []byte
	closed  bool
}

func newStreamReader() *streamReader {
	return &streamReader{}
}

func (r *streamReader) push(b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.pending = append(r.pending, b...)
}

func (r *streamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, io.EOF
	}
	if len(r.pending) == 0 {
		// Silence keeps the device fed between blocks.
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (r *streamReader) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.pending = nil
}
