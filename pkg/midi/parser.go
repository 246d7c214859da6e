// ABOUTME: Streaming MIDI byte parser driving the crusher parameters
// ABOUTME: Running-status decoder for Control Change and Program Change
package midi

// Status nibbles and system bytes.
const (
	statusControlChange = 0xB0
	statusProgramChange = 0xC0

	systemBase   = 0xF0 // 0xF0..0xF7 system common
	realtimeBase = 0xF8 // 0xF8..0xFF realtime, transparent
)

// Controller numbers mapped onto the crusher.
const (
	ControllerBitDepth   = 20
	ControllerDecimation = 21
)

// ParamSink receives decoded parameter updates. The parser never
// produces out-of-range values; the scaling below already lands in
// the quantizer and decimator ranges.
type ParamSink interface {
	SetBitDepth(depth int)
	SetDecimationFactor(factor int)
	SetBoth(depth, factor int)
}

// preset is a canned (depth, factor) pair selected by Program Change.
type preset struct {
	depth  int
	factor int
}

// Program numbers 0..4 walk from transparent to destroyed. Unknown
// programs leave the parameters alone.
var presets = map[byte]preset{
	0: {16, 1},  // clean
	1: {12, 2},  // light grit
	2: {8, 4},   // medium crush
	3: {4, 8},   // heavy
	4: {2, 12},  // destroy
}

type state int

const (
	awaitingStatus state = iota
	awaitingData1
	awaitingData2
)

// Parser decodes a MIDI byte stream one byte at a time. It implements
// running status: a status byte stays in force for subsequent
// data-only bytes until a new status byte replaces it, so repeated
// Control Change pairs and Program Change numbers arrive without
// restating the status.
//
// Only Control Change and Program Change act on the sink. Other
// channel messages are tracked just far enough to stay byte-aligned,
// realtime bytes (>= 0xF8) are transparent in every state, and system
// common bytes clear the running status as the MIDI spec requires.
type Parser struct {
	sink   ParamSink
	state  state
	status byte
	data1  byte
}

// NewParser returns a parser feeding sink.
func NewParser(sink ParamSink) *Parser {
	return &Parser{sink: sink}
}

// Feed consumes one byte from the control link. Malformed input never
// errors: unknown programs are ignored, stray data bytes without a
// running status are dropped, and a fresh status byte abandons any
// half-received message.
func (p *Parser) Feed(b byte) {
	if b >= realtimeBase {
		return
	}
	if b&0x80 != 0 {
		if b >= systemBase {
			// System common cancels running status.
			p.status = 0
			p.state = awaitingStatus
			return
		}
		p.status = b
		p.state = awaitingData1
		return
	}

	switch p.state {
	case awaitingStatus:
		if p.status == 0 {
			return // no running status to apply
		}
		p.state = awaitingData1
		p.feedData(b)
	default:
		p.feedData(b)
	}
}

func (p *Parser) feedData(b byte) {
	switch p.state {
	case awaitingData1:
		switch p.status & 0xF0 {
		case statusProgramChange:
			p.programChange(b)
			// state stays awaitingData1: running status applies to
			// further program numbers.
		case 0xD0:
			// Channel pressure also carries a single data byte;
			// swallow it to stay aligned under running status.
		default:
			p.data1 = b
			p.state = awaitingData2
		}
	case awaitingData2:
		if p.status&0xF0 == statusControlChange {
			p.controlChange(p.data1, b)
		}
		p.state = awaitingData1
	}
}

func (p *Parser) controlChange(controller, value byte) {
	switch controller {
	case ControllerBitDepth:
		p.sink.SetBitDepth(int(value)/8 + 1)
	case ControllerDecimation:
		p.sink.SetDecimationFactor(int(value)/2 + 1)
	}
}

func (p *Parser) programChange(program byte) {
	if ps, ok := presets[program]; ok {
		p.sink.SetBoth(ps.depth, ps.factor)
	}
}

// Reset drops any in-progress message and the running status.
func (p *Parser) Reset() {
	p.state = awaitingStatus
	p.status = 0
	p.data1 = 0
}
