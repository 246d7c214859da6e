// ABOUTME: Bit-depth quantizer for 16-bit PCM samples
// ABOUTME: Zeroes low-order bits while preserving sign and magnitude
package dsp

const (
	// MinBitDepth and MaxBitDepth bound the quantizer depth.
	MinBitDepth = 1
	MaxBitDepth = 16
)

// Quantize reduces sample to the given bit depth. Depth is clamped to
// [1, 16]; at 16 the sample passes through untouched. Below that the
// low 16-depth bits are zeroed with an arithmetic shift pair, so sign
// and relative magnitude survive. Depth 1 leaves a two-level,
// sign-only signal.
func Quantize(sample int16, depth int) int16 {
	if depth >= MaxBitDepth {
		return sample
	}
	if depth < MinBitDepth {
		depth = MinBitDepth
	}
	shift := uint(MaxBitDepth - depth)
	return (sample >> shift) << shift
}
