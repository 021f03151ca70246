package audio

import "testing"

func TestTrackEchoDelaysSignal(t *testing.T) {
	e := New(testConfig())
	e.SetTrackEcho(0, true, 10, 0.5, 1.0) // 10 ms, full wet
	trk := &e.tracks[0]

	delaySamples := int(10 * e.sampleRate / 1000)
	var out float32
	for i := 0; i <= delaySamples; i++ {
		in := float32(0)
		if i == 0 {
			in = 0.5
		}
		out = trk.echo.process(in)
	}
	if out < 0.2 {
		t.Errorf("echo should return the impulse after the delay, got %v", out)
	}
}

func TestTrackEchoFeedbackStaysBounded(t *testing.T) {
	e := New(testConfig())
	e.SetTrackEcho(0, true, 5, 0.95, 0.5)
	trk := &e.tracks[0]
	for i := 0; i < 200000; i++ {
		out := trk.echo.process(0.9)
		if out > 3 || out < -3 {
			t.Fatalf("sample %d: echo feedback ran away: %v", i, out)
		}
	}
}

func TestTrackFlangerWetMixTracksDepth(t *testing.T) {
	e := New(testConfig())
	e.SetTrackFlanger(0, true, 1, 1.0, 0.3)
	f := &e.tracks[0].flg
	if f.depth != 1.0 {
		t.Fatalf("depth not stored")
	}
	// Constant input should come back near (1-wet)*in + wet*(in+in/(1-fb))
	// once the ring fills: with depth 1 the wet mix is 0.9 and with
	// feedback 0.3 that is about 0.23.
	var out float32
	for i := 0; i < 4096; i++ {
		out = f.process(0.1)
	}
	if out < 0.1 {
		t.Errorf("flanger of DC should exceed dry level, got %v", out)
	}
}

func TestTrackCompressorReducesLoudSignal(t *testing.T) {
	e := New(testConfig())
	e.SetTrackCompressor(0, true, -20, 4)
	c := &e.tracks[0].comp
	var out float32
	for i := 0; i < 44100; i++ {
		out = c.process(0.9)
	}
	if out >= 0.9 {
		t.Errorf("compressor should reduce a signal over threshold, got %v", out)
	}
	if out <= 0 {
		t.Errorf("compressor output vanished: %v", out)
	}
}

func TestTrackCompressorPassesQuietSignal(t *testing.T) {
	e := New(testConfig())
	e.SetTrackCompressor(0, true, -6, 4)
	c := &e.tracks[0].comp
	var out float32
	for i := 0; i < 4410; i++ {
		out = c.process(0.1)
	}
	if out != 0.1 {
		t.Errorf("signal under threshold should pass untouched, got %v", out)
	}
}

func TestTrackEQZeroDBBandsBypass(t *testing.T) {
	e := New(testConfig())
	trk := &e.tracks[0]
	for _, x := range []float32{-0.5, 0.1, 0.9} {
		if got := trk.eq.process(x); got != x {
			t.Errorf("flat EQ should be identity: %v -> %v", x, got)
		}
	}
}

func TestTrackEQBoostRaisesLevel(t *testing.T) {
	e := New(testConfig())
	e.SetTrackEQ(0, 0, 12)
	trk := &e.tracks[0]
	var out float32
	for i := 0; i < 5000; i++ {
		out = trk.eq.process(0.1)
	}
	if out <= 0.1 {
		t.Errorf("12 dB low shelf should boost DC, got %v", out)
	}
}

func TestClearTrackFXRestoresStrip(t *testing.T) {
	e := New(testConfig())
	e.SetTrackEcho(0, true, 50, 0.4, 0.5)
	e.SetTrackPan(0, 0.7)
	e.SetTrackSolo(0, true)
	e.SetTrackReverbSend(0, 0.8)
	e.ClearTrackFX(0)
	trk := &e.tracks[0]
	if trk.echo.active || trk.pan != 0 || trk.solo || trk.reverbSend != 0 {
		t.Error("ClearTrackFX should restore routing and FX defaults")
	}
	if e.anySolo {
		t.Error("anySolo should recompute after clear")
	}
}

func TestSendGainsClampToUnit(t *testing.T) {
	e := New(testConfig())
	e.SetTrackReverbSend(0, 1.7)
	if got := e.tracks[0].reverbSend; got != 1 {
		t.Errorf("send should clamp to 1, got %v", got)
	}
	e.SetTrackDelaySend(0, -0.5)
	if got := e.tracks[0].delaySend; got != 0 {
		t.Errorf("send should clamp to 0, got %v", got)
	}
}
