// ABOUTME: Control-plane types shared by the MIDI ingest transports
// ABOUTME: Defines the byte sink the transports feed
package control

// ByteSink receives raw MIDI bytes from a control transport. The
// engine's control channel implements this; transports never parse,
// they just move bytes.
type ByteSink interface {
	FeedControl(b byte)
}
