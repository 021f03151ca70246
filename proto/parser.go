package proto

import "math"

func float32bits(f float32) uint32     { return math.Float32bits(f) }
func float32frombits(b uint32) float32 { return math.Float32frombits(b) }

type parseState int

const (
	stateIdle parseState = iota
	stateHeader
	statePayload
)

// Parser is a pure byte-at-a-time state machine over the incoming stream.
// It carries no I/O: feed it bytes from whatever delivery model the
// transport uses. Valid frames dispatch into the engine; frames with a bad
// magic, an oversize payload or a CRC mismatch are dropped and counted.
type Parser struct {
	d *Dispatcher

	state   parseState
	header  [HeaderSize]byte
	hn      int
	payload [MaxPayload]byte
	pn      int
	hdr     Header

	// PacketCount and ErrorCount are the transport counters surfaced by
	// the status query.
	PacketCount uint32
	ErrorCount  uint32
}

func NewParser(d *Dispatcher) *Parser {
	return &Parser{d: d}
}

// Feed consumes one byte.
func (p *Parser) Feed(b byte) {
	switch p.state {
	case stateIdle:
		if b != MagicCmd && b != MagicBulk && b != MagicSample {
			return
		}
		p.header[0] = b
		p.hn = 1
		p.state = stateHeader

	case stateHeader:
		p.header[p.hn] = b
		p.hn++
		if p.hn < HeaderSize {
			return
		}
		p.hdr = decodeHeader(p.header[:])
		if p.hdr.Length > MaxPayload {
			p.ErrorCount++
			p.state = stateIdle
			return
		}
		if p.hdr.Length == 0 {
			p.finish()
			return
		}
		p.pn = 0
		p.state = statePayload

	case statePayload:
		p.payload[p.pn] = b
		p.pn++
		if p.pn >= int(p.hdr.Length) {
			p.finish()
		}
	}
}

// FeedBytes consumes a chunk.
func (p *Parser) FeedBytes(data []byte) {
	for _, b := range data {
		p.Feed(b)
	}
}

// finish validates and dispatches the assembled frame. PING is exempt from
// the CRC check so a controller can always reach the engine.
func (p *Parser) finish() {
	p.state = stateIdle
	payload := p.payload[:p.hdr.Length]

	if p.hdr.Cmd != CmdPing && p.hdr.Length > 0 {
		if CRC16(payload) != p.hdr.Checksum {
			p.ErrorCount++
			return
		}
	}
	p.PacketCount++
	p.d.parser = p
	p.d.Dispatch(p.hdr, payload)
}
