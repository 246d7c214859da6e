// ABOUTME: Tests for the stereo effects chain
// ABOUTME: Checks per-channel independence and shared strobe timing
package dsp

import "testing"

func TestChainQuantizesBothChannels(t *testing.T) {
	c := NewChain()
	p := Params{BitDepth: 8, DecimationFactor: 1}

	l, r := c.Apply(0x1234, -0x1234, p)
	if l != 0x1200 {
		t.Errorf("left = %#x, want 0x1200", l)
	}
	if r != -0x1300 {
		t.Errorf("right = %#x, want -0x1300", r)
	}
}

func TestChainChannelsShareStrobes(t *testing.T) {
	c := NewChain()
	p := Params{BitDepth: 16, DecimationFactor: 3}

	// Both channels must latch on the same strobes even though their
	// sample values differ.
	type pair struct{ l, r int16 }
	in := []pair{{10, -10}, {11, -11}, {12, -12}, {13, -13}, {14, -14}, {15, -15}}
	want := []pair{{10, -10}, {10, -10}, {10, -10}, {13, -13}, {13, -13}, {13, -13}}

	for i, s := range in {
		l, r := c.Apply(s.l, s.r, p)
		if l != want[i].l || r != want[i].r {
			t.Errorf("strobe %d: got (%d,%d), want (%d,%d)", i, l, r, want[i].l, want[i].r)
		}
	}
}

func TestChainReset(t *testing.T) {
	c := NewChain()
	p := Params{BitDepth: 16, DecimationFactor: 4}

	c.Apply(100, 200, p)
	c.Reset()

	l, r := c.Apply(7, 8, p)
	if l != 7 || r != 8 {
		t.Errorf("after reset got (%d,%d), want (7,8)", l, r)
	}
}
