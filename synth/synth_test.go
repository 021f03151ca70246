package synth

import "testing"

func TestKick808TriggerAndDecay(t *testing.T) {
	kit := NewKit808()
	kit.Init(44100)

	if out := kit.Process(); out != 0 {
		t.Fatalf("idle kit should be silent, got %v", out)
	}

	kit.Trigger(Inst808Kick, 1)
	var peak float32
	for i := 0; i < 4410; i++ {
		if a := kit.Process(); a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak < 0.1 {
		t.Errorf("triggered kick should produce audible output, peak %v", peak)
	}

	// With the 0.45 s decay the envelope falls below 0.001 after about
	// 3.1 s; four seconds later the voice has decayed out.
	for i := 0; i < 176400; i++ {
		kit.Process()
	}
	if out := kit.Process(); out != 0 {
		t.Errorf("kick should decay to inactive, got %v", out)
	}
}

func TestClosedHatChokesOpenHat(t *testing.T) {
	kit := NewKit808()
	kit.Init(44100)
	kit.Trigger(Inst808HiHatO, 1)
	for i := 0; i < 100; i++ {
		kit.Process()
	}
	kit.Trigger(Inst808HiHatC, 1)
	if kit.HiHatO.active {
		t.Error("closed hat should choke the open hat")
	}
}

func TestKit808ParamRouting(t *testing.T) {
	kit := NewKit808()
	kit.Init(44100)
	kit.SetParam(Inst808Kick, ParamPitch, 70)
	if kit.Kick.Pitch != 70 {
		t.Errorf("kick pitch: want 70, got %v", kit.Kick.Pitch)
	}
	kit.SetParam(Inst808Kick, ParamPitch, 500)
	if kit.Kick.Pitch != 120 {
		t.Errorf("kick pitch should clamp to 120, got %v", kit.Kick.Pitch)
	}
	kit.SetParam(Inst808Snare, ParamSnappy, 0.9)
	if kit.Snare.Snappy != 0.9 {
		t.Errorf("snare snappy: want 0.9, got %v", kit.Snare.Snappy)
	}
}

func TestTB303NoteLifecycle(t *testing.T) {
	acid := NewTB303()
	acid.Init(44100)

	if out := acid.Process(); out != 0 {
		t.Fatalf("silent before first note, got %v", out)
	}

	acid.NoteOn(36, false, false)
	var peak float32
	for i := 0; i < 4410; i++ {
		a := acid.Process()
		if a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak < 0.05 {
		t.Errorf("gated 303 should sound, peak %v", peak)
	}

	acid.NoteOff()
	for i := 0; i < 44100; i++ {
		acid.Process()
	}
	if out := acid.Process(); out != 0 {
		t.Errorf("released 303 should go inactive, got %v", out)
	}
}

func TestTB303SlideMovesPitchGradually(t *testing.T) {
	acid := NewTB303()
	acid.Init(44100)
	acid.NoteOn(36, false, false)
	startFreq := acid.currentFreq

	acid.NoteOn(48, false, true)
	if acid.currentFreq != startFreq {
		t.Fatal("slide should not jump pitch immediately")
	}
	for i := 0; i < 44100; i++ {
		acid.Process()
	}
	if acid.currentFreq != acid.targetFreq {
		t.Errorf("slide should converge: current %v target %v", acid.currentFreq, acid.targetFreq)
	}
}

func TestTB303AccentBoostsLevel(t *testing.T) {
	plain := NewTB303()
	plain.Init(44100)
	plain.NoteOn(36, false, false)
	var plainPeak float32
	for i := 0; i < 2205; i++ {
		a := plain.Process()
		if a > plainPeak {
			plainPeak = a
		} else if -a > plainPeak {
			plainPeak = -a
		}
	}

	accented := NewTB303()
	accented.Init(44100)
	accented.NoteOn(36, true, false)
	var accPeak float32
	for i := 0; i < 2205; i++ {
		a := accented.Process()
		if a > accPeak {
			accPeak = a
		} else if -a > accPeak {
			accPeak = -a
		}
	}
	if accPeak <= plainPeak {
		t.Errorf("accent should raise the peak: plain %v accented %v", plainPeak, accPeak)
	}
}

func TestLadderAttenuatesAboveCutoff(t *testing.T) {
	var l ladder
	l.init(44100)
	// High-frequency square through a low cutoff.
	var out, peak float32
	for i := 0; i < 44100; i++ {
		in := float32(1)
		if i%4 < 2 {
			in = -1
		}
		out = l.process(in, 200, 0)
		if i > 22050 {
			if out > peak {
				peak = out
			} else if -out > peak {
				peak = -out
			}
		}
	}
	if peak > 0.5 {
		t.Errorf("11 kHz content through 200 Hz ladder should be heavily attenuated, peak %v", peak)
	}
}

func TestKit909KickPunchier(t *testing.T) {
	kit := NewKit909()
	kit.Init(44100)
	kit.Trigger(Inst909Kick, 1)
	var peak float32
	for i := 0; i < 2205; i++ {
		a := kit.Process()
		if a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak < 0.2 {
		t.Errorf("909 kick should hit hard, peak %v", peak)
	}
}

func TestKit505AllInstrumentsTrigger(t *testing.T) {
	kit := NewKit505()
	kit.Init(44100)
	for inst := Inst505Kick; inst <= Inst505Cowbell; inst++ {
		kit.Trigger(inst, 1)
	}
	var peak float32
	for i := 0; i < 4410; i++ {
		a := kit.Process()
		if a > peak {
			peak = a
		} else if -a > peak {
			peak = -a
		}
	}
	if peak == 0 {
		t.Error("505 kit produced no output")
	}
}
