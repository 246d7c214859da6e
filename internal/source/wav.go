// ABOUTME: WAV file source and writer for 16-bit PCM
// ABOUTME: Minimal RIFF chunk walker, mono duplicated to stereo
package source

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WAV reads 16-bit PCM from a RIFF/WAVE file.
type WAV struct {
	file       *os.File
	sampleRate int
	channels   int
	remaining  uint32 // bytes left in the data chunk
}

// NewWAV opens a WAV file. Only 16-bit PCM with one or two channels
// is supported; mono is duplicated onto both pipeline channels.
func NewWAV(path string) (*WAV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	w := &WAV{file: f}
	if err := w.parseHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *WAV) parseHeader() error {
	var riff [12]byte
	if _, err := io.ReadFull(w.file, riff[:]); err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return fmt.Errorf("not a RIFF/WAVE file")
	}

	// Walk chunks until fmt and data have both been seen.
	haveFmt := false
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(w.file, hdr[:]); err != nil {
			return fmt.Errorf("failed to read chunk header: %w", err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			var f [16]byte
			if _, err := io.ReadFull(w.file, f[:]); err != nil {
				return fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			format := binary.LittleEndian.Uint16(f[0:2])
			w.channels = int(binary.LittleEndian.Uint16(f[2:4]))
			w.sampleRate = int(binary.LittleEndian.Uint32(f[4:8]))
			bits := binary.LittleEndian.Uint16(f[14:16])
			if format != 1 {
				return fmt.Errorf("unsupported WAV format code %d (want PCM)", format)
			}
			if bits != 16 {
				return fmt.Errorf("unsupported WAV bit depth %d (want 16)", bits)
			}
			if w.channels != 1 && w.channels != 2 {
				return fmt.Errorf("unsupported WAV channel count %d", w.channels)
			}
			if size > 16 {
				if _, err := w.file.Seek(int64(size-16), io.SeekCurrent); err != nil {
					return err
				}
			}
			haveFmt = true
		case "data":
			if !haveFmt {
				return fmt.Errorf("WAV data chunk before fmt chunk")
			}
			w.remaining = size
			return nil
		default:
			if _, err := w.file.Seek(int64(size), io.SeekCurrent); err != nil {
				return err
			}
		}
	}
}

func (w *WAV) Read(samples []int16) (int, error) {
	if w.remaining == 0 {
		return 0, io.EOF
	}

	pairs := len(samples) / 2
	written := 0
	buf := make([]byte, 2*w.channels)
	for i := 0; i < pairs; i++ {
		if w.remaining < uint32(len(buf)) {
			w.remaining = 0
			break
		}
		if _, err := io.ReadFull(w.file, buf); err != nil {
			w.remaining = 0
			if written > 0 {
				return written, nil
			}
			return 0, err
		}
		w.remaining -= uint32(len(buf))

		left := int16(binary.LittleEndian.Uint16(buf[0:2]))
		right := left
		if w.channels == 2 {
			right = int16(binary.LittleEndian.Uint16(buf[2:4]))
		}
		samples[2*i] = left
		samples[2*i+1] = right
		written += 2
	}
	if written == 0 {
		return 0, io.EOF
	}
	return written, nil
}

func (w *WAV) SampleRate() int { return w.sampleRate }
func (w *WAV) Close() error    { return w.file.Close() }

// WriteWAV writes interleaved stereo 16-bit PCM to path.
func WriteWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer f.Close()

	const channels = 2
	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate * channels * 2)

	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 36+dataSize)
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], channels*2) // block align
	binary.LittleEndian.PutUint16(hdr[34:36], 16)         // bits per sample
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], dataSize)
	if _, err := f.Write(hdr[:]); err != nil {
		return err
	}

	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := f.Write(buf); err != nil {
		return err
	}
	return nil
}
