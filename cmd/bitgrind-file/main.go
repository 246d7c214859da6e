// ABOUTME: Offline file processor: crush a WAV/MP3/FLAC into a WAV
// ABOUTME: Useful for batch rendering and listening tests without a device
package main

import (
	"errors"
	"flag"
	"io"
	"log"

	"github.com/bitgrind-audio/bitgrind-go/internal/engine"
	"github.com/bitgrind-audio/bitgrind-go/internal/source"
	"github.com/bitgrind-audio/bitgrind-go/pkg/dsp"
	"github.com/bitgrind-audio/bitgrind-go/pkg/midi"
)

var (
	inPath  = flag.String("in", "", "Input audio file (WAV, MP3, FLAC). Empty renders the test tone")
	outPath = flag.String("out", "out.wav", "Output WAV file")
	depth   = flag.Int("depth", 16, "Bit depth, 1-16")
	factor  = flag.Int("factor", 1, "Decimation factor, 1-64")
	preset  = flag.Int("preset", -1, "MIDI program preset 0-4 (overrides depth/factor)")
	seconds = flag.Float64("seconds", 5, "Duration when rendering the test tone")
)

func main() {
	flag.Parse()

	src, err := source.New(*inPath)
	if err != nil {
		log.Fatalf("error opening input: %v", err)
	}
	defer src.Close()

	eng := engine.New(engine.Config{
		Params: dsp.Params{BitDepth: *depth, DecimationFactor: *factor},
	})

	if *preset >= 0 {
		// Route the preset through the MIDI parser so the file tool
		// and a live controller resolve programs identically.
		parser := midi.NewParser(eng.Params())
		parser.Feed(0xC0)
		parser.Feed(byte(*preset))
	}

	p := eng.Params().Load()
	log.Printf("Processing %s: bit depth %d, decimation %d", inName(), p.BitDepth, p.DecimationFactor)

	var processed []int16
	block := make([]int16, 4096)
	remaining := int(*seconds * float64(src.SampleRate()) * 2)

	for {
		n, err := src.Read(block)
		if n > 0 {
			if *inPath == "" {
				// The tone generator never ends; cut it at the
				// requested duration.
				if n > remaining {
					n = remaining
				}
				remaining -= n
			}
			processed = append(processed, eng.ProcessBlock(block[:n&^1])...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			log.Fatalf("error reading input: %v", err)
		}
		if *inPath == "" && remaining <= 0 {
			break
		}
	}
	processed = append(processed, eng.Flush(8)...)

	if err := source.WriteWAV(*outPath, processed, src.SampleRate()); err != nil {
		log.Fatalf("error writing output: %v", err)
	}

	log.Printf("Wrote %d samples to %s", len(processed), *outPath)
}

func inName() string {
	if *inPath == "" {
		return "test tone"
	}
	return *inPath
}
