package synth

// TB303 parameter ids for SetParam (instrument argument is ignored).
const (
	Param303Cutoff = iota
	Param303Resonance
	Param303EnvMod
	Param303Decay
	Param303Accent
	Param303Slide
	Param303Waveform
	Param303Volume
)

// TB303 waveforms.
const (
	WaveSaw = iota
	WaveSquare
)

// TB303 is the monophonic acid bass: polyBLEP saw/square into the tanh
// ladder, with accent and slide.
type TB303 struct {
	Cutoff    float32
	Resonance float32
	EnvMod    float32
	Decay     float32
	AccentAmt float32
	SlideTime float32
	Waveform  int
	Volume    float32

	sr, dt      float32
	osc         phasor
	currentFreq float32
	targetFreq  float32
	active      bool
	gateOn      bool
	accent      bool
	sliding     bool
	filterEnv   float32
	ampEnv      float32
	filter      ladder
}

func NewTB303() *TB303 { return &TB303{} }

func (t *TB303) Init(sr float32) {
	t.sr, t.dt = sr, 1/sr
	t.Cutoff, t.Resonance, t.EnvMod = 800, 0.5, 0.5
	t.Decay, t.AccentAmt, t.SlideTime = 0.3, 0.5, 0.06
	t.Waveform = WaveSaw
	t.Volume = 0.7
	t.active = false
	t.osc.phase = 0
	t.currentFreq = 220
	t.targetFreq = 220
	t.filterEnv = 0
	t.ampEnv = 0
	t.gateOn = false
	t.accent = false
	t.sliding = false
	t.filter.init(sr)
}

// Trigger is part of the collaborator contract; for the 303 it maps to a
// NoteOn of the given MIDI note without slide, accented when vel > 0.8.
func (t *TB303) Trigger(note int, vel float32) {
	t.NoteOn(note, vel > 0.8, false)
}

func (t *TB303) NoteOn(note int, accent, slide bool) {
	t.targetFreq = clamp(midiToFreq(note), 20, 5000)
	t.accent = accent

	if slide && t.active {
		t.sliding = true
	} else {
		t.sliding = false
		t.currentFreq = t.targetFreq
		t.filterEnv = 1
	}
	if accent {
		t.filterEnv = 1.2
	}
	t.gateOn = true
	t.active = true
}

func (t *TB303) NoteOff() {
	t.gateOn = false
}

func (t *TB303) SetParam(_, param int, val float32) {
	switch param {
	case Param303Cutoff:
		t.Cutoff = clamp(val, 20, 20000)
	case Param303Resonance:
		t.Resonance = clamp(val, 0, 0.95)
	case Param303EnvMod:
		t.EnvMod = clamp(val, 0, 1)
	case Param303Decay:
		t.Decay = clamp(val, 0.02, 3)
	case Param303Accent:
		t.AccentAmt = clamp(val, 0, 1)
	case Param303Slide:
		t.SlideTime = clamp(val, 0.01, 0.5)
	case Param303Waveform:
		if val < 0.5 {
			t.Waveform = WaveSaw
		} else {
			t.Waveform = WaveSquare
		}
	case Param303Volume:
		t.Volume = clamp(val, 0, 1)
	}
}

func (t *TB303) Process() float32 {
	if !t.active {
		return 0
	}

	if t.sliding {
		slideRate := exp32(-t.dt / t.SlideTime)
		t.currentFreq = t.currentFreq*slideRate + t.targetFreq*(1-slideRate)
		diff := t.currentFreq - t.targetFreq
		if diff < 0.1 && diff > -0.1 {
			t.currentFreq = t.targetFreq
			t.sliding = false
		}
	}

	phase := t.osc.tick(t.currentFreq, t.dt)
	inc := t.currentFreq * t.dt
	var osc float32
	if t.Waveform == WaveSaw {
		osc = 2*phase - 1
		osc -= polyBlep(phase, inc)
	} else {
		if phase < 0.5 {
			osc = 1
		} else {
			osc = -1
		}
		osc += polyBlep(phase, inc)
		p2 := phase + 0.5
		if p2 >= 1 {
			p2 -= 1
		}
		osc -= polyBlep(p2, inc)
	}

	envDecay := t.Decay
	if t.accent {
		envDecay *= 0.7
	}
	t.filterEnv *= exp32(-t.dt / envDecay)

	if t.gateOn {
		t.ampEnv += (1 - t.ampEnv) * 0.05
	} else {
		relTime := float32(0.005)
		if t.accent {
			relTime = 0.01
		}
		t.ampEnv *= exp32(-t.dt / relTime)
		if t.ampEnv < 0.001 {
			t.active = false
			return 0
		}
	}

	accentBoost := float32(0)
	res := t.Resonance
	if t.accent {
		accentBoost = t.AccentAmt * 6000
		res = clamp(res+t.AccentAmt*0.3, 0, 0.95)
	}
	fc := clamp(t.Cutoff+t.EnvMod*10000*t.filterEnv+accentBoost, 20, t.sr*0.45)

	filtered := t.filter.process(osc, fc, res)

	accentGain := float32(1)
	if t.accent {
		accentGain = 1 + t.AccentAmt*0.4
	}
	return tanh32(filtered * t.ampEnv * t.Volume * accentGain * 1.5)
}
