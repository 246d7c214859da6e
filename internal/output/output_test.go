// ABOUTME: Tests for audio output helpers
// ABOUTME: Exercises the stream reader and volume math without a device
package output

import "testing"

func TestVolumeMultiplier(t *testing.T) {
	tests := []struct {
		name   string
		volume int
		muted  bool
		want   float64
	}{
		{"full", 100, false, 1.0},
		{"half", 50, false, 0.5},
		{"zero", 0, false, 0.0},
		{"muted overrides", 100, true, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := volumeMultiplier(tt.volume, tt.muted); got != tt.want {
				t.Errorf("volumeMultiplier(%d, %v) = %v, want %v", tt.volume, tt.muted, got, tt.want)
			}
		})
	}
}

func TestStreamReaderDeliversPushedBytes(t *testing.T) {
	r := newStreamReader()
	r.push([]byte{1, 2, 3, 4})

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("Read = (%d, %v)", n, err)
	}
	for i, b := range []byte{1, 2, 3, 4} {
		if buf[i] != b {
			t.Errorf("byte %d: got %d, want %d", i, buf[i], b)
		}
	}
}

func TestStreamReaderStarvedReturnsSilence(t *testing.T) {
	r := newStreamReader()
	buf := []byte{9, 9, 9, 9}
	n, err := r.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = (%d, %v)", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Errorf("byte %d: got %d, want silence", i, b)
		}
	}
}

func TestStreamReaderPadsShortData(t *testing.T) {
	r := newStreamReader()
	r.push([]byte{7, 7})
	buf := []byte{9, 9, 9, 9}
	n, _ := r.Read(buf)
	if n != 4 {
		t.Fatalf("Read n = %d, want full buffer", n)
	}
	if buf[0] != 7 || buf[1] != 7 || buf[2] != 0 || buf[3] != 0 {
		t.Errorf("padding wrong: %v", buf)
	}
}

func TestStreamReaderClosed(t *testing.T) {
	r := newStreamReader()
	r.close()
	r.push([]byte{1})
	if _, err := r.Read(make([]byte, 2)); err == nil {
		t.Error("expected error reading closed stream")
	}
}
