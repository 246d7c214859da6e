// ABOUTME: Stereo effects chain: quantize then decimate, per channel
// ABOUTME: Keeps both channel decimators fed from the same strobes
package dsp

// Chain is the full crusher applied to stereo frames. Each channel
// gets its own decimator, but both consume every strobe, so the
// channels cannot drift against each other.
type Chain struct {
	left  Decimator
	right Decimator
}

// NewChain returns a chain holding silence.
func NewChain() *Chain {
	return &Chain{}
}

// Apply runs one stereo sample pair through the chain under the given
// parameters and returns the processed pair.
func (c *Chain) Apply(left, right int16, p Params) (int16, int16) {
	l := Quantize(left, p.BitDepth)
	r := Quantize(right, p.BitDepth)
	return c.left.Update(l, p.DecimationFactor),
		c.right.Update(r, p.DecimationFactor)
}

// Reset clears the hold state of both channels.
func (c *Chain) Reset() {
	c.left.Reset()
	c.right.Reset()
}
