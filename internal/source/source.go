// ABOUTME: PCM source abstraction for feeding the crusher pipeline
// ABOUTME: Selects tone, WAV, MP3 or FLAC source by file extension
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source provides interleaved stereo 16-bit PCM.
type Source interface {
	// Read fills samples with interleaved stereo PCM and returns the
	// number of samples written. io.EOF after the last sample.
	Read(samples []int16) (int, error)
	// SampleRate returns the source sample rate in Hz.
	SampleRate() int
	// Close releases the source.
	Close() error
}

// New opens a source for the given path. An empty path yields the
// test tone generator.
func New(path string) (Source, error) {
	if path == "" {
		return NewTone(440.0), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return NewWAV(path)
	case ".mp3":
		return NewMP3(path)
	case ".flac":
		return NewFLAC(path)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .flac)", path)
	}
}
