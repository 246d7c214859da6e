// ABOUTME: Bit-crusher DSP package
// ABOUTME: Integer quantizer, sample-and-hold decimator, parameter cell
// Package dsp implements the two signal-path transforms of the
// bit-crusher chain and the shared parameter cell that controls them.
//
// Everything operates on 16-bit signed PCM samples. Quantize is a
// pure function; Decimator carries hold state; Params travels through
// a single-writer single-reader ParamCell so the audio path always
// reads a whole committed value, never a half-written one.
package dsp
