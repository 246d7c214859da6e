// ABOUTME: Tests for the frame clock generator
// ABOUTME: Checks division ratios, duty cycle and phase consistency
package i2s

import "testing"

func TestFrameClockDivision(t *testing.T) {
	clk := NewFrameClock()

	highTicks := 0
	risingEdges := 0
	leftTicks := 0
	prevBC := false
	for i := 0; i < TicksPerFrame; i++ {
		bc, ws := clk.Tick()
		if bc {
			highTicks++
		}
		if bc && !prevBC {
			risingEdges++
		}
		prevBC = bc
		if !ws {
			leftTicks++
		}
	}

	if highTicks != TicksPerFrame/2 {
		t.Errorf("bit clock duty: high for %d of %d ticks", highTicks, TicksPerFrame)
	}
	if risingEdges != 2*WordBits {
		t.Errorf("expected %d rising edges per frame, got %d", 2*WordBits, risingEdges)
	}
	if leftTicks != TicksPerPhase {
		t.Errorf("left phase held for %d ticks, want %d", leftTicks, TicksPerPhase)
	}
}

func TestFrameClockWordSelectSequence(t *testing.T) {
	clk := NewFrameClock()

	// Left for the first half of the frame, Right for the second,
	// repeating without drift across many frames.
	for frame := 0; frame < 100; frame++ {
		for i := 0; i < TicksPerFrame; i++ {
			_, ws := clk.Tick()
			want := i >= TicksPerPhase
			if ws != want {
				t.Fatalf("frame %d tick %d: word select %v, want %v", frame, i, ws, want)
			}
		}
	}
}

func TestFrameClockPhaseConsistency(t *testing.T) {
	clk := NewFrameClock()

	// A word-select flip must land exactly on a bit clock rising
	// edge, never between edges. Both signals decode from one
	// counter, so this should hold for every flip, forever.
	prevBC, prevWS := false, false
	first := true
	for i := 0; i < 50*TicksPerFrame; i++ {
		bc, ws := clk.Tick()
		if !first && ws != prevWS {
			if !(bc && !prevBC) {
				t.Fatalf("tick %d: word select flipped off a rising edge (bc %v -> %v)", i, prevBC, bc)
			}
		}
		prevBC, prevWS = bc, ws
		first = false
	}
}

func TestFrameClockReset(t *testing.T) {
	clk := NewFrameClock()
	for i := 0; i < 37; i++ {
		clk.Tick()
	}
	clk.Reset()
	bc, ws := clk.Tick()
	if !bc || ws {
		t.Errorf("after reset: bit clock %v word select %v, want high/left", bc, ws)
	}
}
