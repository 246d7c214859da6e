// ABOUTME: Effect parameters and the atomic cell that carries them
// ABOUTME: Single-writer single-reader whole-value get/set across clock domains
package dsp

import "sync/atomic"

// Params are the two bit-crusher controls. BitDepth is in [1, 16],
// DecimationFactor in [1, 64].
type Params struct {
	BitDepth         int
	DecimationFactor int
}

// DefaultParams is the transparent setting: full depth, no decimation.
func DefaultParams() Params {
	return Params{BitDepth: MaxBitDepth, DecimationFactor: MinDecimation}
}

// Clamped returns p with both fields forced into range.
func (p Params) Clamped() Params {
	if p.BitDepth < MinBitDepth {
		p.BitDepth = MinBitDepth
	} else if p.BitDepth > MaxBitDepth {
		p.BitDepth = MaxBitDepth
	}
	if p.DecimationFactor < MinDecimation {
		p.DecimationFactor = MinDecimation
	} else if p.DecimationFactor > MaxDecimation {
		p.DecimationFactor = MaxDecimation
	}
	return p
}

// ParamCell hands Params from the control clock domain to the audio
// clock domain. The writer (MIDI side) and reader (audio side) run on
// unrelated clocks; the cell swaps a whole value atomically so the
// reader sees either the old setting or the new one, never a mix.
// Reading a value that is one sample stale is fine by contract.
type ParamCell struct {
	v atomic.Pointer[Params]
}

// NewParamCell returns a cell initialized to p (clamped).
func NewParamCell(p Params) *ParamCell {
	c := &ParamCell{}
	c.Store(p)
	return c
}

// Load returns the last committed parameters.
func (c *ParamCell) Load() Params {
	return *c.v.Load()
}

// Store commits p (clamped) as the new parameters.
func (c *ParamCell) Store(p Params) {
	p = p.Clamped()
	c.v.Store(&p)
}

// SetBitDepth commits a new bit depth, keeping the decimation factor.
func (c *ParamCell) SetBitDepth(depth int) {
	p := c.Load()
	p.BitDepth = depth
	c.Store(p)
}

// SetDecimationFactor commits a new decimation factor, keeping the
// bit depth.
func (c *ParamCell) SetDecimationFactor(factor int) {
	p := c.Load()
	p.DecimationFactor = factor
	c.Store(p)
}

// SetBoth commits both parameters at once.
func (c *ParamCell) SetBoth(depth, factor int) {
	c.Store(Params{BitDepth: depth, DecimationFactor: factor})
}
