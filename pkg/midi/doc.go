// ABOUTME: MIDI control package
// ABOUTME: Byte-stream parser mapping MIDI messages to crusher parameters
// Package midi decodes the control byte stream that drives the
// bit-crusher. It is a plain byte-at-a-time state machine with MIDI
// running status; it knows nothing about transports, which feed it
// from wherever bytes arrive (serial, WebSocket, MQTT).
//
// Controller 20 scales onto bit depth, controller 21 onto the
// decimation factor, and Program Change selects canned presets.
package midi
