// ABOUTME: Top-level pipeline composition for the crusher
// ABOUTME: Wires frame clock, serial machines, effects chain and control
package engine

import (
	"context"

	"github.com/bitgrind-audio/bitgrind-go/internal/metrics"
	"github.com/bitgrind-audio/bitgrind-go/pkg/dsp"
	"github.com/bitgrind-audio/bitgrind-go/pkg/i2s"
	"github.com/bitgrind-audio/bitgrind-go/pkg/midi"
)

// Config configures a pipeline.
type Config struct {
	// Params is the initial effect setting.
	Params dsp.Params
	// Metrics is optional; nil disables instrumentation.
	Metrics *metrics.Metrics
	// ControlBuffer sizes the control byte channel.
	ControlBuffer int
}

// Engine is the assembled pipeline: one frame clock drives the serial
// receiver and transmitter in lockstep, received frames pass through
// quantizer and decimator, and the result is latched for transmit.
// The MIDI parser lives in its own, slower clock domain and talks to
// the audio side only through the parameter cell.
//
// For hosting PCM audio the engine also carries a feeder transmitter
// and a monitor receiver, so ProcessBlock pushes samples through the
// full serial codec path in loopback rather than shortcutting it.
type Engine struct {
	clock *i2s.FrameClock
	rx    *i2s.Receiver
	tx    *i2s.Transmitter

	feeder  *i2s.Transmitter
	monitor *i2s.Receiver

	params *dsp.ParamCell
	chain  *dsp.Chain

	parser  *midi.Parser
	control chan byte

	inQ     frameQueue
	pending mailbox

	// Committed line and clock levels from the previous tick.
	bitClock   bool
	wordSelect bool
	feederLine bool
	txLine     bool

	// monPrimed flips after the monitor's first recovered frame,
	// which is always the transmit latch priming and is discarded.
	monPrimed bool

	m           *metrics.Metrics
	lastDesyncs uint64
	lastRepeats uint64
}

// New assembles a pipeline.
func New(cfg Config) *Engine {
	if cfg.ControlBuffer <= 0 {
		cfg.ControlBuffer = 256
	}
	e := &Engine{
		clock:   i2s.NewFrameClock(),
		rx:      i2s.NewReceiver(),
		monitor: i2s.NewReceiver(),
		params:  dsp.NewParamCell(cfg.Params),
		chain:   dsp.NewChain(),
		control: make(chan byte, cfg.ControlBuffer),
		m:       cfg.Metrics,
	}
	e.tx = i2s.NewTransmitter(&e.pending)
	e.feeder = i2s.NewTransmitter(&e.inQ)
	e.parser = midi.NewParser(e.params)
	return e
}

// Params exposes the shared parameter cell.
func (e *Engine) Params() *dsp.ParamCell {
	return e.params
}

// FeedControl hands one MIDI byte to the control clock domain. It
// never blocks the caller; if the control channel is saturated the
// byte is dropped, which a late controller tweak recovers from on its
// own the next time a message arrives.
func (e *Engine) FeedControl(b byte) {
	select {
	case e.control <- b:
	default:
	}
}

// Run consumes control bytes until ctx is cancelled. It is the only
// writer of the parameter cell and runs on its own timing, decoupled
// from the audio ticks.
func (e *Engine) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case b := <-e.control:
			e.parser.Feed(b)
			if e.m != nil {
				e.m.ControlBytes.Inc()
				p := e.params.Load()
				e.m.BitDepth.Set(float64(p.BitDepth))
				e.m.DecimationFactor.Set(float64(p.DecimationFactor))
			}
		}
	}
}

// Tick advances the audio side one reference tick with serialIn as
// the inbound line level and returns the outbound line level. This is
// the raw composition for callers that wire the serial lines to a
// real codec; PCM hosting goes through ProcessBlock instead.
func (e *Engine) Tick(serialIn bool) bool {
	line := e.step(serialIn)
	e.txLine = line
	e.bitClock, e.wordSelect = e.clock.Tick()
	return line
}

// step runs receiver, effects and transmitter against the previously
// committed clock levels. It does not advance the clock.
func (e *Engine) step(serialIn bool) bool {
	frame, ok := e.rx.Tick(e.bitClock, e.wordSelect, serialIn)
	if ok {
		e.pending.set(e.process(frame))
		if e.m != nil {
			e.m.FramesReceived.Inc()
		}
	}
	line, _ := e.tx.Tick(e.bitClock, e.wordSelect)
	e.observeCounters()
	return line
}

// tickLoopback advances one tick with the feeder driving the inbound
// line and the monitor recovering the outbound line.
func (e *Engine) tickLoopback() (i2s.Frame, bool) {
	prevFeeder, prevTx := e.feederLine, e.txLine

	newTx := e.step(prevFeeder)
	monFrame, monOK := e.monitor.Tick(e.bitClock, e.wordSelect, prevTx)
	newFeeder, _ := e.feeder.Tick(e.bitClock, e.wordSelect)

	e.feederLine, e.txLine = newFeeder, newTx
	e.bitClock, e.wordSelect = e.clock.Tick()

	if monOK && !e.monPrimed {
		// First recovered frame carries whatever the transmit latch
		// repeated while the pipeline filled, not payload.
		e.monPrimed = true
		return i2s.Frame{}, false
	}
	if monOK && e.m != nil {
		e.m.FramesEmitted.Inc()
	}
	return monFrame, monOK
}

// process runs one frame through the effects chain. Parameters are
// whatever the control domain committed last; a value one frame stale
// is within contract.
func (e *Engine) process(f i2s.Frame) i2s.Frame {
	l, r := e.chain.Apply(f.Left, f.Right, e.params.Load())
	return i2s.Frame{Left: l, Right: r, Valid: true}
}

func (e *Engine) observeCounters() {
	if e.m == nil {
		return
	}
	if d := e.rx.Desyncs(); d != e.lastDesyncs {
		e.m.FramesDropped.Add(float64(d - e.lastDesyncs))
		e.lastDesyncs = d
	}
	if r := e.tx.Repeats(); r != e.lastRepeats {
		e.m.RepeatedFrames.Add(float64(r - e.lastRepeats))
		e.lastRepeats = r
	}
}

// ProcessBlock pushes interleaved stereo samples through the full
// serial loopback path and returns whatever processed samples emerge.
// The codec pipeline is a few frames deep, so the first block returns
// fewer samples than it consumed; a continuous stream sees all of its
// audio, just offset. Flush drains the remainder at end of stream.
func (e *Engine) ProcessBlock(samples []int16) []int16 {
	pairs := len(samples) / 2
	for i := 0; i < pairs; i++ {
		e.inQ.push(i2s.Frame{Left: samples[2*i], Right: samples[2*i+1], Valid: true})
	}
	return e.runTicks(pairs * i2s.TicksPerFrame)
}

// Flush runs the pipeline on silence until the given number of stereo
// pairs has been recovered or the pipeline runs dry.
func (e *Engine) Flush(pairs int) []int16 {
	var out []int16
	// Pipeline depth is bounded; a handful of extra frames of ticks
	// is enough to drain it.
	for i := 0; i < pairs+8 && len(out) < 2*pairs; i++ {
		e.inQ.push(i2s.Frame{Valid: true})
		out = append(out, e.runTicks(i2s.TicksPerFrame)...)
	}
	if len(out) > 2*pairs {
		out = out[:2*pairs]
	}
	return out
}

func (e *Engine) runTicks(n int) []int16 {
	var out []int16
	for i := 0; i < n; i++ {
		if f, ok := e.tickLoopback(); ok {
			out = append(out, f.Left, f.Right)
		}
	}
	return out
}

// frameQueue is a FIFO frame source for the feeder transmitter.
type frameQueue struct {
	frames []i2s.Frame
}

func (q *frameQueue) push(f i2s.Frame) {
	q.frames = append(q.frames, f)
}

func (q *frameQueue) NextFrame() (i2s.Frame, bool) {
	if len(q.frames) == 0 {
		return i2s.Frame{}, false
	}
	f := q.frames[0]
	q.frames = q.frames[1:]
	return f, true
}

// mailbox is a one-slot latest-value source for the transmit latch.
type mailbox struct {
	frame i2s.Frame
	ok    bool
}

func (m *mailbox) set(f i2s.Frame) {
	m.frame = f
	m.ok = true
}

func (m *mailbox) NextFrame() (i2s.Frame, bool) {
	if !m.ok {
		return i2s.Frame{}, false
	}
	m.ok = false
	return m.frame, true
}
