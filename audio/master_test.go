package audio

import "testing"

func TestWavefolderIdentityAtUnityGain(t *testing.T) {
	w := wavefolder{gain: 1}
	for _, x := range []float32{-0.8, 0, 0.3, 0.99} {
		if got := w.process(x); got != x {
			t.Errorf("unity wavefolder should pass %v, got %v", x, got)
		}
	}
}

func TestWavefolderReflectsIntoRange(t *testing.T) {
	w := wavefolder{gain: 4}
	for _, x := range []float32{-1, -0.5, 0.2, 0.9, 1} {
		got := w.process(x)
		if got > 1 || got < -1 {
			t.Errorf("folded output %v outside [-1, 1] for input %v", got, x)
		}
	}
}

func TestMasterDelayTapTiming(t *testing.T) {
	e := New(testConfig())
	e.SetDelayActive(true)
	e.SetDelayTime(10)
	d := &e.master.delay

	delaySamples := int(10 * e.sampleRate / 1000)
	var wet float32
	for i := 0; i <= delaySamples; i++ {
		in := float32(0)
		if i == 0 {
			in = 0.7
		}
		wet = d.tap(in, 0)
	}
	if wet < 0.3 {
		t.Errorf("delay tap should return the impulse after %d samples, got %v", delaySamples, wet)
	}
}

func TestPhaserSilentInputStaysSilent(t *testing.T) {
	e := New(testConfig())
	e.SetPhaserActive(true)
	p := &e.master.phaser
	for i := 0; i < 1000; i++ {
		if out := p.process(0); out != 0 {
			t.Fatalf("sample %d: phaser of silence produced %v", i, out)
		}
	}
}

func TestPhaserBoundedOnLoudInput(t *testing.T) {
	e := New(testConfig())
	e.SetPhaserActive(true)
	e.SetPhaserFeedback(0.9)
	p := &e.master.phaser
	for i := 0; i < 44100; i++ {
		out := p.process(0.9)
		if out > 20 || out < -20 {
			t.Fatalf("phaser diverged at sample %d: %v", i, out)
		}
	}
}

func TestGlobalFilterStereoStateIndependent(t *testing.T) {
	e := New(testConfig())
	e.SetGlobalFilter(FilterLowpass, 1000, 0.707)
	// Drive only the left channel; the right must stay silent.
	var r float32
	for i := 0; i < 500; i++ {
		_, r = e.master.process(0.5, 0, 0, 0, 0, e.sampleRate)
	}
	// tanh(0) == 0, knee(0) == 0: right stays exactly zero.
	if r != 0 {
		t.Errorf("right channel picked up left filter state: %v", r)
	}
}

func TestLimiterClampsFullScale(t *testing.T) {
	e := New(testConfig())
	e.SetLimiterActive(true)
	l, r := e.master.process(3, -3, 0, 0, 0, e.sampleRate)
	if l > 1 || r < -1 {
		t.Errorf("limiter output out of range: %v, %v", l, r)
	}
}

func TestReverbImpulseDecays(t *testing.T) {
	rv := newReverb(44100)
	rv.setFeedback(0.7)
	var early, late float32
	for i := 0; i < 44100; i++ {
		in := float32(0)
		if i == 0 {
			in = 1
		}
		l, _ := rv.process(in, in)
		if i > 1000 && i < 5000 {
			if a := abs32(l); a > early {
				early = a
			}
		}
		if i > 40000 {
			if a := abs32(l); a > late {
				late = a
			}
		}
	}
	if early == 0 {
		t.Fatal("reverb produced no tail")
	}
	if late >= early {
		t.Errorf("reverb tail should decay: early %v, late %v", early, late)
	}
}

func TestChorusDelaysInput(t *testing.T) {
	c := newChorus(44100)
	var any float32
	for i := 0; i < 4410; i++ {
		in := float32(0)
		if i == 0 {
			in = 1
		}
		if out := c.process(in); abs32(out) > any {
			any = abs32(out)
		}
	}
	if any == 0 {
		t.Error("chorus never returned the impulse")
	}
}

func TestCompressorMakeupGain(t *testing.T) {
	e := New(testConfig())
	e.SetCompressorActive(true)
	e.SetCompressorThreshold(-20)
	e.SetCompressorRatio(4)
	e.SetCompressorMakeup(6)
	c := &e.master.comp
	var out float32
	for i := 0; i < 44100; i++ {
		out = c.process(0.5)
	}
	if out <= 0 || out >= 0.5*2 {
		t.Errorf("compressed+makeup output implausible: %v", out)
	}
}
