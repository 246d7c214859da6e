// ABOUTME: MP3 file source
// ABOUTME: Decodes MP3 to interleaved stereo 16-bit PCM
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// MP3 reads from an MP3 file. The decoder always produces interleaved
// stereo int16 (as little-endian bytes), which matches the pipeline
// frame layout directly.
type MP3 struct {
	file    *os.File
	decoder *mp3.Decoder
}

// NewMP3 opens an MP3 file.
func NewMP3(path string) (*MP3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 file: %w", err)
	}
	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	return &MP3{file: f, decoder: decoder}, nil
}

func (m *MP3) Read(samples []int16) (int, error) {
	buf := make([]byte, len(samples)*2)
	n, err := m.decoder.Read(buf)
	if err != nil && err != io.EOF {
		return 0, err
	}
	count := n / 2
	for i := 0; i < count; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(buf[i*2:]))
	}
	if count == 0 && err == io.EOF {
		return 0, io.EOF
	}
	return count, nil
}

func (m *MP3) SampleRate() int { return m.decoder.SampleRate() }
func (m *MP3) Close() error    { return m.file.Close() }
