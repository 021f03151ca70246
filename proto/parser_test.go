package proto

import (
	"encoding/binary"
	"testing"

	"github.com/atane/drumcore/audio"
)

func testEngine() *audio.Engine {
	return audio.New(audio.Config{
		SampleRate:      44100,
		BlockSize:       128,
		MaxPads:         24,
		MaxTracks:       16,
		MaxVoices:       8,
		MaxSampleFrames: 4096,
	})
}

func testRig() (*audio.Engine, *Parser) {
	e := testEngine()
	d := NewDispatcher(e, nil)
	return e, NewParser(d)
}

func loadPad(e *audio.Engine, pad, n int) {
	frames := make([]int16, n)
	for i := range frames {
		frames[i] = int16(i + 1)
	}
	e.LoadSample(pad, frames)
}

func render(e *audio.Engine, frames int) []int16 {
	out := make([]int16, frames*2)
	e.RenderBlock(out)
	return out
}

func TestParserDispatchesValidTrigger(t *testing.T) {
	e, p := testRig()
	loadPad(e, 0, 100)
	p.FeedBytes(BuildCommand(CmdTriggerLive, 1, []byte{0, 127}))
	render(e, 8)
	if e.ActiveVoices() != 1 {
		t.Error("valid trigger frame should start a voice")
	}
	if p.ErrorCount != 0 {
		t.Errorf("error counter: want 0, got %d", p.ErrorCount)
	}
	if p.PacketCount != 1 {
		t.Errorf("packet counter: want 1, got %d", p.PacketCount)
	}
}

func TestParserRejectsCorruptedPayload(t *testing.T) {
	e, p := testRig()
	loadPad(e, 0, 100)
	frame := BuildCommand(CmdTriggerLive, 1, []byte{0, 127})
	frame[HeaderSize] ^= 0x40 // corrupt one payload byte
	p.FeedBytes(frame)
	render(e, 8)
	if e.ActiveVoices() != 0 {
		t.Error("corrupted frame must not trigger a voice")
	}
	if p.ErrorCount != 1 {
		t.Errorf("error counter: want 1, got %d", p.ErrorCount)
	}

	// A subsequent correct frame still works.
	p.FeedBytes(BuildCommand(CmdTriggerLive, 2, []byte{0, 127}))
	render(e, 8)
	if e.ActiveVoices() != 1 {
		t.Error("parser should recover after a bad frame")
	}
}

func TestParserSkipsGarbageBetweenFrames(t *testing.T) {
	e, p := testRig()
	loadPad(e, 0, 100)
	p.FeedBytes([]byte{0x00, 0x13, 0x37, 0xFF})
	p.FeedBytes(BuildCommand(CmdTriggerLive, 1, []byte{0, 127}))
	p.FeedBytes([]byte{0x42, 0x42})
	render(e, 8)
	if e.ActiveVoices() != 1 {
		t.Error("parser should resync on magic after garbage")
	}
}

func TestParserDropsOversizePayload(t *testing.T) {
	_, p := testRig()
	hdr := make([]byte, HeaderSize)
	hdr[0] = MagicCmd
	hdr[1] = CmdTriggerLive
	binary.LittleEndian.PutUint16(hdr[2:4], MaxPayload+1)
	p.FeedBytes(hdr)
	if p.ErrorCount != 1 {
		t.Errorf("oversize frame: want error count 1, got %d", p.ErrorCount)
	}
	if p.PacketCount != 0 {
		t.Errorf("oversize frame must not count as a packet")
	}
}

func TestPingBypassesCRC(t *testing.T) {
	e, p := testRig()
	frame := BuildCommand(CmdPing, 7, []byte{1, 2, 3, 4})
	// Wreck the checksum; PING must still be answered.
	frame[6], frame[7] = 0xDE, 0xAD
	p.FeedBytes(frame)

	var buf [64]byte
	n, _ := e.TxQueue().Read(buf[:])
	if n < HeaderSize {
		t.Fatal("no ping response")
	}
	if buf[0] != MagicResp || buf[1] != CmdPing {
		t.Errorf("bad response header: % X", buf[:2])
	}
	if seq := binary.LittleEndian.Uint16(buf[4:6]); seq != 7 {
		t.Errorf("sequence echo: want 7, got %d", seq)
	}
	if buf[8] != 1 || buf[9] != 2 || buf[10] != 3 || buf[11] != 4 {
		t.Errorf("ping echo bytes wrong: % X", buf[8:12])
	}
}

func TestParserByteAtATime(t *testing.T) {
	e, p := testRig()
	loadPad(e, 2, 64)
	for _, b := range BuildCommand(CmdTriggerLive, 3, []byte{2, 90}) {
		p.Feed(b)
	}
	render(e, 4)
	if e.ActiveVoices() != 1 {
		t.Error("frame fed byte-at-a-time should dispatch")
	}
}

func TestUnknownOpcodeIsNoop(t *testing.T) {
	e, p := testRig()
	p.FeedBytes(BuildCommand(0xDD, 1, []byte{1, 2, 3}))
	if p.ErrorCount != 0 {
		t.Errorf("unknown opcode is not a transport error, got %d", p.ErrorCount)
	}
	if p.PacketCount != 1 {
		t.Errorf("unknown opcode still counts as a valid packet")
	}
	var buf [16]byte
	if n, _ := e.TxQueue().Read(buf[:]); n != 0 {
		t.Error("unknown opcode must not respond")
	}
}
