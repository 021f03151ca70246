package audio

import "testing"

func testConfig() Config {
	return Config{
		SampleRate:      44100,
		BlockSize:       128,
		MaxPads:         24,
		MaxTracks:       16,
		MaxVoices:       4,
		MaxSampleFrames: 4096,
	}
}

func loadRamp(e *Engine, pad, n int) {
	frames := make([]int16, n)
	for i := range frames {
		frames[i] = int16(i)
	}
	e.LoadSample(pad, frames)
}

func renderFrames(e *Engine, n int) []int16 {
	out := make([]int16, n*2)
	e.RenderBlock(out)
	return out
}

func TestTriggerAndPlayRamp(t *testing.T) {
	e := New(testConfig())
	e.SetLimiterActive(true) // linear output below the clip point
	loadRamp(e, 0, 1000)
	e.TriggerSequencer(0, 127, 100, 0, 0)

	out := renderFrames(e, 1100)
	if out[0] != 0 {
		t.Errorf("first sample: want 0, got %d", out[0])
	}
	// Sample 499 of the ramp appears at frame 499 with unity gain.
	if got := out[499*2]; got < 497 || got > 501 {
		t.Errorf("frame 499: want ~499, got %d", got)
	}
	// Voice deactivates past the end.
	for i := 1001; i < 1100; i++ {
		if out[i*2] != 0 {
			t.Fatalf("frame %d after sample end: want silence, got %d", i, out[i*2])
		}
	}
	if e.ActiveVoices() != 0 {
		t.Errorf("voice should deactivate at sample end")
	}
}

func TestLoopWrapsToStart(t *testing.T) {
	e := New(testConfig())
	e.SetLimiterActive(true)
	e.LoadSample(0, []int16{1000, 2000, 3000, 4000})
	e.SetPadLoop(0, true)
	e.TriggerSequencer(0, 127, 100, 0, 0)

	out := renderFrames(e, 10)
	want := []int16{1000, 2000, 3000, 4000, 1000, 2000, 3000, 4000, 1000, 2000}
	for i, w := range want {
		if got := out[i*2]; got != w {
			t.Errorf("frame %d: want %d, got %d", i, w, got)
		}
	}
	if e.ActiveVoices() != 1 {
		t.Errorf("looping voice should stay active")
	}
}

func TestLiveTriggerBoost(t *testing.T) {
	e := New(testConfig())
	loadRamp(e, 0, 100)
	e.TriggerLive(0, 127)
	live := e.voices[0].gainL
	e.StopAll()
	e.TriggerSequencer(0, 127, 100, 0, 0)
	seq := e.voices[0].gainL
	if seq < 0.99 || seq > 1.01 {
		t.Errorf("sequencer gain at full settings: want 1.0, got %v", seq)
	}
	if ratio := live / seq; ratio < 1.19 || ratio > 1.21 {
		t.Errorf("live gain should carry a 1.2x boost, got ratio %v", ratio)
	}
}

func TestVoiceStealingPicksLowestAge(t *testing.T) {
	e := New(testConfig())
	for pad := 0; pad < 5; pad++ {
		loadRamp(e, pad, 64)
	}
	for pad := 0; pad < 4; pad++ {
		e.TriggerLive(pad, 127)
	}
	// Pool is full; the next trigger steals the oldest voice (pad 0).
	e.TriggerLive(4, 127)

	pads := make(map[int]bool)
	for i := range e.voices {
		if e.voices[i].active {
			pads[e.voices[i].pad] = true
		}
	}
	if pads[0] {
		t.Error("oldest voice (pad 0) should have been stolen")
	}
	if !pads[4] {
		t.Error("new trigger should occupy the stolen slot")
	}
}

func TestAgeCompareSurvivesWraparound(t *testing.T) {
	if !ageBefore(0xFFFFFFF0, 5) {
		t.Error("pre-wrap age should order before post-wrap age")
	}
	if ageBefore(5, 0xFFFFFFF0) {
		t.Error("post-wrap age must not order before pre-wrap age")
	}
}

func TestPositionNeverExceedsLength(t *testing.T) {
	e := New(testConfig())
	loadRamp(e, 0, 500)
	e.SetPadPitch(0, 1.37)
	e.TriggerLive(0, 127)

	for b := 0; b < 10; b++ {
		renderFrames(e, 128)
		for i := range e.voices {
			v := &e.voices[i]
			if v.active && v.pos >= 500+v.speed {
				t.Fatalf("block %d: position %v beyond sample length", b, v.pos)
			}
		}
	}
}

func TestStopAllSilencesImmediately(t *testing.T) {
	e := New(testConfig())
	loadRamp(e, 0, 2000)
	e.TriggerLive(0, 127)
	renderFrames(e, 16)
	e.StopAll()
	if e.ActiveVoices() != 0 {
		t.Fatal("StopAll should deactivate every voice")
	}
	out := renderFrames(e, 64)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d after StopAll: want 0, got %d", i, v)
		}
	}
}

func TestTriggerOnUnloadedPadIsNoop(t *testing.T) {
	e := New(testConfig())
	e.TriggerLive(3, 127)
	if e.ActiveVoices() != 0 {
		t.Error("trigger on empty pad must not activate a voice")
	}
}

func TestQueuedTriggerForUnloadedPadDropsQuietly(t *testing.T) {
	e := New(testConfig())
	loadRamp(e, 0, 100)
	e.EnqueueTrigger(Trigger{Pad: 0, Velocity: 127, Live: true})
	e.SampleUnload(0)
	renderFrames(e, 32)
	if e.ActiveVoices() != 0 {
		t.Error("trigger consumed after unload should be a no-op")
	}
}

func TestReversePlaysBackward(t *testing.T) {
	e := New(testConfig())
	e.SetLimiterActive(true)
	e.LoadSample(0, []int16{10, 20, 30, 40})
	e.SetPadReverse(0, true)
	e.TriggerSequencer(0, 127, 100, 0, 0)
	out := renderFrames(e, 4)
	want := []int16{40, 30, 20, 10}
	for i, w := range want {
		if got := out[i*2]; got != w {
			t.Errorf("frame %d: want %d, got %d", i, w, got)
		}
	}
}

func TestMaxLengthCutsNote(t *testing.T) {
	e := New(testConfig())
	e.SetLimiterActive(true)
	loadRamp(e, 0, 1000)
	e.TriggerSequencer(0, 127, 100, 0, 10)
	out := renderFrames(e, 64)
	for i := 11; i < 64; i++ {
		if out[i*2] != 0 {
			t.Fatalf("frame %d past maxLength: want 0, got %d", i, out[i*2])
		}
	}
}
