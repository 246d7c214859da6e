// ABOUTME: Tests for the serial receiver state machine
// ABOUTME: Covers bit-exact decode, lead-in handling and desync recovery
package i2s

import "testing"

func TestReceiverDecodesFrames(t *testing.T) {
	frames := []Frame{
		{Left: 0x1234, Right: 0x5678},
		{Left: -1, Right: 0},
		{Left: -32768, Right: 32767},
		{Left: 0x0001, Right: -0x0001},
	}

	rx := NewReceiver()
	data, ws := serialize(frames)
	got := runSlots(rx, data, ws)

	if len(got) != len(frames) {
		t.Fatalf("decoded %d frames, want %d", len(got), len(frames))
	}
	for i, f := range got {
		if !f.Valid {
			t.Errorf("frame %d not marked valid", i)
		}
		if f.Left != frames[i].Left || f.Right != frames[i].Right {
			t.Errorf("frame %d: got (%#04x, %#04x), want (%#04x, %#04x)",
				i, uint16(f.Left), uint16(f.Right), uint16(frames[i].Left), uint16(frames[i].Right))
		}
	}
	if rx.Desyncs() != 0 {
		t.Errorf("clean stream reported %d desyncs", rx.Desyncs())
	}
}

func TestReceiverIgnoresUnframedBits(t *testing.T) {
	rx := NewReceiver()

	// Bits arriving before any word-select transition are unframed
	// garbage and must not produce a frame.
	for i := 0; i < 5*WordBits; i++ {
		if _, ok := rx.Tick(true, false, i%2 == 0); ok {
			t.Fatal("emitted a frame before first boundary")
		}
		rx.Tick(false, false, i%2 == 0)
	}
}

func TestReceiverMidWordDesync(t *testing.T) {
	rx := NewReceiver()

	// Sync up with a clean dummy right phase.
	for j := 0; j < WordBits; j++ {
		rx.Tick(true, true, false)
		rx.Tick(false, true, false)
	}

	// Left phase cut off after 10 accepted bits: the transition arrives
	// mid-word, so the partial word must be dropped, not held onto.
	rx.Tick(true, false, false) // boundary into left
	rx.Tick(false, false, false)
	for j := 0; j < 10; j++ {
		rx.Tick(true, false, true)
		rx.Tick(false, false, true)
	}

	// Early flip back to right: desync. Then a full clean frame.
	frames := []Frame{{Left: 0x0F0F, Right: -0x7AA6}}
	data, ws := serialize(frames)
	got := runSlots(rx, data, ws)

	if rx.Desyncs() == 0 {
		t.Error("mid-word transition not counted as desync")
	}
	if len(got) != 1 {
		t.Fatalf("decoded %d frames after resync, want 1", len(got))
	}
	if got[0].Left != 0x0F0F || got[0].Right != -0x7AA6 {
		t.Errorf("post-resync frame wrong: (%#04x, %#04x)", uint16(got[0].Left), uint16(got[0].Right))
	}
}

func TestReceiverNoDriftAfterDesync(t *testing.T) {
	rx := NewReceiver()

	// A desync must not leave a cumulative bit offset: every frame
	// after resynchronization decodes exactly.
	frames := []Frame{
		{Left: 0x1111, Right: 0x2222},
		{Left: 0x3333, Right: 0x4444},
		{Left: 0x5555, Right: 0x6666},
	}
	data, ws := serialize(frames)

	// Corrupt the trace: force an early boundary 10 slots into the
	// first left phase by flipping word select for the rest of it.
	firstLeft := WordBits // first left phase starts after the dummy right phase
	for j := firstLeft + 10; j < firstLeft+WordBits; j++ {
		ws[j] = true
	}

	got := runSlots(rx, data, ws)

	// Frame 0 is corrupted and dropped. Frames 1 and 2 must survive.
	if len(got) != 2 {
		t.Fatalf("decoded %d frames, want 2", len(got))
	}
	if got[0].Left != 0x3333 || got[0].Right != 0x4444 {
		t.Errorf("frame after desync: (%#04x, %#04x), want (0x3333, 0x4444)",
			uint16(got[0].Left), uint16(got[0].Right))
	}
	if got[1].Left != 0x5555 || got[1].Right != 0x6666 {
		t.Errorf("second frame after desync: (%#04x, %#04x), want (0x5555, 0x6666)",
			uint16(got[1].Left), uint16(got[1].Right))
	}
}

func TestReceiverReset(t *testing.T) {
	rx := NewReceiver()
	data, ws := serialize([]Frame{{Left: 1, Right: 2}})
	runSlots(rx, data, ws)

	rx.Reset()
	if rx.Desyncs() != 0 {
		t.Error("reset did not clear desync count")
	}
	got := runSlots(rx, data, ws)
	if len(got) != 1 || got[0].Left != 1 || got[0].Right != 2 {
		t.Errorf("post-reset decode wrong: %+v", got)
	}
}
