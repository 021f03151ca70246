package proto

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/atane/drumcore/audio"
)

func readResponse(t *testing.T, e *audio.Engine) (Header, []byte) {
	t.Helper()
	var buf [1024]byte
	n, _ := e.TxQueue().Read(buf[:])
	if n < HeaderSize {
		t.Fatal("no response frame on TX queue")
	}
	hdr := Header{
		Magic:    buf[0],
		Cmd:      buf[1],
		Length:   binary.LittleEndian.Uint16(buf[2:4]),
		Sequence: binary.LittleEndian.Uint16(buf[4:6]),
		Checksum: binary.LittleEndian.Uint16(buf[6:8]),
	}
	if HeaderSize+int(hdr.Length) > n {
		t.Fatalf("short response: header says %d, have %d", hdr.Length, n-HeaderSize)
	}
	return hdr, buf[HeaderSize : HeaderSize+int(hdr.Length)]
}

func TestStatusRoundTrip(t *testing.T) {
	e, p := testRig()
	loadPad(e, 0, 100)
	loadPad(e, 5, 100)
	p.FeedBytes(BuildCommand(CmdTriggerLive, 1, []byte{0, 127}))
	render(e, 8)

	p.FeedBytes(BuildCommand(CmdGetStatus, 42, nil))
	hdr, payload := readResponse(t, e)

	if hdr.Magic != MagicResp {
		t.Errorf("magic: want 0x5A, got 0x%02X", hdr.Magic)
	}
	if hdr.Cmd != CmdGetStatus {
		t.Errorf("cmd: want 0xE0, got 0x%02X", hdr.Cmd)
	}
	if hdr.Sequence != 42 {
		t.Errorf("sequence echo: want 42, got %d", hdr.Sequence)
	}
	if CRC16(payload) != hdr.Checksum {
		t.Error("response CRC invalid")
	}
	if len(payload) != StatusSize {
		t.Fatalf("status size: want %d, got %d", StatusSize, len(payload))
	}
	if int(payload[0]) != e.ActiveVoices() {
		t.Errorf("active voices: want %d, got %d", e.ActiveVoices(), payload[0])
	}
	mask := uint16(payload[2]) | uint16(payload[3])<<8
	if mask != 0x21 {
		t.Errorf("loaded mask: want 0x21, got 0x%04X", mask)
	}
	if payload[46] != 2 {
		t.Errorf("loaded count: want 2, got %d", payload[46])
	}
	if payload[51] != uint8(e.MaxPads()) {
		t.Errorf("max pads field: want %d, got %d", e.MaxPads(), payload[51])
	}
}

func TestPeaksResponseLayout(t *testing.T) {
	e, p := testRig()
	p.FeedBytes(BuildCommand(CmdGetPeaks, 9, nil))
	hdr, payload := readResponse(t, e)
	if hdr.Cmd != CmdGetPeaks || len(payload) != 17*4 {
		t.Fatalf("peaks response: cmd 0x%02X len %d", hdr.Cmd, len(payload))
	}
	for i := 0; i < 17; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(payload[i*4:]))
		if v < 0 || v > 1 {
			t.Errorf("peak %d outside [0,1]: %v", i, v)
		}
	}
}

func TestBulkTriggersStartThreeVoices(t *testing.T) {
	e, p := testRig()
	loadPad(e, 0, 100)
	loadPad(e, 1, 100)
	loadPad(e, 2, 100)
	payload := []byte{3, 0, 127, 1, 100, 2, 80}
	p.FeedBytes(BuildFrame(MagicBulk, CmdBulkTriggers, 1, payload))
	render(e, 8)
	if got := e.ActiveVoices(); got != 3 {
		t.Errorf("bulk triggers: want 3 voices, got %d", got)
	}
}

func TestBulkFXAppliesSubCommands(t *testing.T) {
	e, p := testRig()
	// Two sub-records: master volume 50, track 2 mute on.
	payload := []byte{
		2,
		CmdMasterVolume, 1, 50,
		CmdTrackMute, 2, 2, 1,
	}
	p.FeedBytes(BuildFrame(MagicBulk, CmdBulkFX, 1, payload))

	loadPad(e, 2, 100)
	p.FeedBytes(BuildCommand(CmdTriggerLive, 2, []byte{2, 127}))
	out := render(e, 32)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: track 2 should be muted by bulk FX, got %d", i, v)
		}
	}
}

func TestSampleUploadOverWire(t *testing.T) {
	e, p := testRig()

	begin := make([]byte, 12)
	begin[0] = 3
	binary.LittleEndian.PutUint32(begin[8:12], 8) // 4 frames
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleBegin, 1, begin))

	data := make([]byte, 8+8)
	data[0] = 3
	binary.LittleEndian.PutUint16(data[2:4], 8)
	binary.LittleEndian.PutUint32(data[4:8], 0)
	for i, v := range []int16{100, 200, 300, 400} {
		binary.LittleEndian.PutUint16(data[8+i*2:], uint16(v))
	}
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleData, 2, data))
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleEnd, 3, []byte{3}))

	if e.LoadedMask()&(1<<3) == 0 {
		t.Fatal("pad 3 should be loaded after END")
	}

	e.SetLimiterActive(true)
	trig := make([]byte, 8)
	trig[0], trig[1], trig[2] = 3, 127, 100
	p.FeedBytes(BuildCommand(CmdTriggerSeq, 4, trig))
	out := render(e, 4)
	want := []int16{100, 200, 300, 400}
	for i, w := range want {
		if got := out[i*2]; got != w {
			t.Errorf("frame %d: want %d, got %d", i, w, got)
		}
	}
}

func TestSampleDataOutOfRangeDiscarded(t *testing.T) {
	e, p := testRig()
	begin := make([]byte, 12)
	begin[0] = 1
	binary.LittleEndian.PutUint32(begin[8:12], 4)
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleBegin, 1, begin))

	data := make([]byte, 8+4)
	data[0] = 1
	binary.LittleEndian.PutUint16(data[2:4], 4)
	binary.LittleEndian.PutUint32(data[4:8], 1000) // past declared total
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleData, 2, data))
	p.FeedBytes(BuildFrame(MagicSample, CmdSampleEnd, 3, []byte{1}))

	// Nothing was received, so the partial upload finalizes empty and the
	// pad stays unloaded.
	if e.LoadedMask()&(1<<1) != 0 {
		t.Error("pad with only out-of-range data must not load")
	}
}

func TestEventsResponseDrainsQueue(t *testing.T) {
	e, p := testRig()
	e.PushEvent(audio.EventKitLoaded, 2, 0x3, "demo-kit")
	e.PushEvent(audio.EventError, 0, 0, "oops")

	p.FeedBytes(BuildCommand(CmdGetEvents, 5, nil))
	_, payload := readResponse(t, e)
	if payload[0] != 2 {
		t.Fatalf("event count: want 2, got %d", payload[0])
	}
	if len(payload) != 1+2*32 {
		t.Fatalf("events payload size: want %d, got %d", 1+2*32, len(payload))
	}
	if payload[1] != byte(audio.EventKitLoaded) {
		t.Errorf("first event kind: want kit-loaded, got %d", payload[1])
	}
	if e.PendingEvents() != 0 {
		t.Error("events should drain")
	}
}

func TestSidechainSetOverWire(t *testing.T) {
	e, p := testRig()
	payload := make([]byte, 20)
	payload[0] = 0
	binary.LittleEndian.PutUint16(payload[2:4], 1<<1)
	binary.LittleEndian.PutUint32(payload[4:8], math.Float32bits(1.0))
	binary.LittleEndian.PutUint32(payload[8:12], math.Float32bits(10))
	binary.LittleEndian.PutUint32(payload[12:16], math.Float32bits(100))
	binary.LittleEndian.PutUint32(payload[16:20], math.Float32bits(0))
	p.FeedBytes(BuildCommand(CmdSidechainSet, 1, payload))

	// Hold opens via the sidechain trigger command.
	p.FeedBytes(BuildCommand(CmdTriggerSidechain, 2, []byte{0, 127}))
	render(e, 8)
	// No assertion beyond absence of errors: the audio-side behavior is
	// covered in the audio package tests.
	if p.ErrorCount != 0 {
		t.Errorf("sidechain frames should parse cleanly, got %d errors", p.ErrorCount)
	}
}

func TestResetClearsCounters(t *testing.T) {
	e, p := testRig()
	frame := BuildCommand(CmdTriggerLive, 1, []byte{0, 127})
	frame[HeaderSize] ^= 0xFF
	p.FeedBytes(frame)
	if p.ErrorCount != 1 {
		t.Fatalf("setup: want 1 error, got %d", p.ErrorCount)
	}
	p.FeedBytes(BuildCommand(CmdReset, 2, nil))
	if p.ErrorCount != 0 || p.PacketCount != 0 {
		t.Errorf("reset should zero counters, got err=%d pkt=%d", p.ErrorCount, p.PacketCount)
	}
	_ = e
}

func TestVolumeScalesOutput(t *testing.T) {
	e, p := testRig()
	e.SetLimiterActive(true)
	frames := make([]int16, 100)
	for i := range frames {
		frames[i] = 10000
	}
	e.LoadSample(0, frames)

	// Live hits carry a 1.2x boost, so half master volume lands at ~6000.
	p.FeedBytes(BuildCommand(CmdMasterVolume, 1, []byte{50}))
	p.FeedBytes(BuildCommand(CmdTriggerLive, 2, []byte{0, 127}))
	out := render(e, 8)
	if got := out[4]; got < 5900 || got > 6100 {
		t.Errorf("half master volume on a live hit: want ~6000, got %d", got)
	}
}
