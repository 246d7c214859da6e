// ABOUTME: FLAC file source
// ABOUTME: Decodes FLAC frames to interleaved stereo 16-bit PCM
package source

import (
	"fmt"
	"io"
	"os"

	"github.com/mewkiz/flac"
)

// FLAC reads from a FLAC file. Samples are rescaled to 16 bits; mono
// is duplicated onto both channels.
type FLAC struct {
	file       *os.File
	stream     *flac.Stream
	sampleRate int
	channels   int
	bitDepth   int

	// Carryover from a partially consumed decoded frame.
	leftover []int16
}

// NewFLAC opens a FLAC file.
func NewFLAC(path string) (*FLAC, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FLAC file: %w", err)
	}
	stream, err := flac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to decode FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	if channels != 1 && channels != 2 {
		f.Close()
		return nil, fmt.Errorf("unsupported FLAC channel count %d", channels)
	}
	return &FLAC{
		file:       f,
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   channels,
		bitDepth:   int(info.BitsPerSample),
	}, nil
}

func (s *FLAC) Read(samples []int16) (int, error) {
	written := 0
	for written < len(samples) {
		if len(s.leftover) > 0 {
			n := copy(samples[written:], s.leftover)
			s.leftover = s.leftover[n:]
			written += n
			continue
		}
		frame, err := s.stream.ParseNext()
		if err != nil {
			if err == io.EOF && written > 0 {
				return written, nil
			}
			return written, err
		}

		shift := s.bitDepth - 16 // rescale to 16-bit full scale
		for i := 0; i < int(frame.BlockSize); i++ {
			left := scaleTo16(frame.Subframes[0].Samples[i], shift)
			right := left
			if s.channels == 2 {
				right = scaleTo16(frame.Subframes[1].Samples[i], shift)
			}
			s.leftover = append(s.leftover, left, right)
		}
	}
	return written, nil
}

func scaleTo16(v int32, shift int) int16 {
	if shift > 0 {
		return int16(v >> uint(shift))
	}
	if shift < 0 {
		return int16(v << uint(-shift))
	}
	return int16(v)
}

func (s *FLAC) SampleRate() int { return s.sampleRate }
func (s *FLAC) Close() error    { return s.file.Close() }
