package audio

// padState holds the per-pad playback flags and the pad FX chain settings
// shared by every live voice on the pad. Filter state itself lives on the
// voice; only the coefficients are per pad.
type padState struct {
	loop     bool
	pitch    float32
	filter   FilterType
	coeffs   biquadCoeffs
	cutoff   float32
	q        float32
	drive    float32
	distMode DistortionMode
	bitDepth uint8

	stutterOn       bool
	stutterInterval uint32 // samples between rewinds
	stutterCount    uint32

	scratch scratchState
	turn    turntablismState
}

func (p *padState) reset() {
	p.loop = false
	p.pitch = 1.0
	p.filter = FilterNone
	p.coeffs = biquadCoeffs{}
	p.drive = 0
	p.distMode = DistSoft
	p.bitDepth = 16
	p.stutterOn = false
	p.scratch.on = false
	p.turn.on = false
}

// scratchState drives the triangle-LFO vinyl scratch: the LFO replaces
// voice advance, a two-stage one-pole darkens the tone, and a sparse LCG
// adds crackle.
type scratchState struct {
	on            bool
	lfoPhase      float32
	lfoRate       float32
	depth         float32
	filterCutoff  float32
	crackleAmount float32
	lp1, lp2      onePole
	noise         lcg
}

// advance returns the signed position delta and the vinyl filter cutoff
// for this sample.
func (s *scratchState) advance(sampleRate float32) (adv, cutoff float32) {
	s.lfoPhase += s.lfoRate / sampleRate
	if s.lfoPhase >= 1 {
		s.lfoPhase -= 1
	}
	var tri float32
	if s.lfoPhase < 0.5 {
		tri = s.lfoPhase*4 - 1
	} else {
		tri = 3 - s.lfoPhase*4
	}
	adv = tri * s.depth * 3
	cutoff = s.filterCutoff*0.075 + abs32(adv)*s.filterCutoff*0.875
	return adv, cutoff
}

// shape applies the vinyl one-pole pair and crackle to one sample.
func (s *scratchState) shape(x, cutoff, sampleRate float32) float32 {
	alpha := onePoleAlpha(cutoff, sampleRate)
	x = s.lp1.lowpass(x, alpha)
	x = s.lp2.lowpass(x, alpha)
	threshold := uint32(s.crackleAmount * 28)
	if s.noise.next()>>24 < threshold {
		x += s.noise.bipolar() * (0.015 + s.crackleAmount*0.035)
	}
	return x
}

// Turntablism mode cycle.
const (
	turnNormal = iota
	turnBrake
	turnBackspin
	turnTransform
)

// turntablismState is a four-mode FSM over normal/brake/backspin/transform
// with a per-mode sample timer. Auto mode cycles modes when the timer
// expires; manual mode restarts the same mode.
type turntablismState struct {
	on            bool
	auto          bool
	mode          int
	modeTimer     uint32
	brakeLen      uint32
	backspinLen   uint32
	transformRate float32
	vinylNoise    float32
	gatePhase     float32
	lp1, lp2      onePole
	noise         lcg
}

func (t *turntablismState) modeLen(mode int, sampleRate float32) uint32 {
	switch mode {
	case turnBrake:
		return t.brakeLen
	case turnBackspin:
		return t.backspinLen
	case turnTransform:
		return uint32(sampleRate * 0.55)
	default:
		return uint32(sampleRate * 0.75)
	}
}

// advance steps the FSM and returns the position delta, vinyl cutoff,
// whether crackle applies, and whether the transform gate is closed.
func (t *turntablismState) advance(sampleRate float32) (adv, cutoff float32, crackle, gateOff bool) {
	if t.modeTimer == 0 {
		if t.auto {
			t.mode = (t.mode + 1) % 4
		}
		t.modeTimer = t.modeLen(t.mode, sampleRate)
		if t.mode == turnTransform {
			t.gatePhase = 0
		}
	}
	t.modeTimer--

	switch t.mode {
	case turnBrake:
		progress := 1 - float32(t.modeTimer)/float32(t.brakeLen)
		adv = 1 - progress*0.97
		cutoff = 10000*(1-progress*0.92) + 150
		crackle = progress > 0.7
	case turnBackspin:
		progress := float32(t.modeTimer) / float32(t.backspinLen)
		adv = -1.8 * progress * progress
		cutoff = 1500 + progress*2500
		crackle = true
	case turnTransform:
		t.gatePhase += t.transformRate * 6.28318 / sampleRate
		if t.gatePhase > 6.28318 {
			t.gatePhase -= 6.28318
		}
		if t.gatePhase < 3.14159 {
			adv = 1
		} else {
			adv = 0
			gateOff = true
		}
		cutoff = 5000
	default:
		adv = 1
		cutoff = 12000
	}
	return adv, cutoff, crackle, gateOff
}

// shape applies the vinyl filter and, when flagged, crackle.
func (t *turntablismState) shape(x, cutoff, sampleRate float32, crackle bool) float32 {
	alpha := onePoleAlpha(cutoff, sampleRate)
	x = t.lp1.lowpass(x, alpha)
	x = t.lp2.lowpass(x, alpha)
	if crackle {
		threshold := uint32(t.vinylNoise * 28)
		if t.noise.next()>>24 < threshold {
			x += t.noise.bipolar() * (0.02 + t.vinylNoise*0.04)
		}
	}
	return x
}

// SetPadFilter installs a cookbook filter on the pad. The scratch and
// turntablism variants are not biquads: they enable the vinyl DSP with its
// preset parameters and take over voice advance entirely.
func (e *Engine) SetPadFilter(pad int, typ FilterType, cutoff, q float32) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	switch typ {
	case FilterScratch:
		e.SetScratch(pad, true, 5, 0.85, 4000, 0.25)
		e.pads[pad].filter = typ
		return
	case FilterTurntablism:
		e.SetTurntablism(pad, true, true, -1, 400, 450, 11, 0.35)
		e.pads[pad].filter = typ
		return
	}
	p := &e.pads[pad]
	p.cutoff = clampF(cutoff, 20, 20000)
	p.q = clampF(q, 0.3, 10)
	p.coeffs = cookbookCoeffs(typ, p.cutoff, p.q, 0, e.sampleRate)
	p.filter = typ
}

// ClearPadFilter removes the pad filter, including the vinyl variants, and
// resets coefficients.
func (e *Engine) ClearPadFilter(pad int) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.pads[pad].filter = FilterNone
	e.pads[pad].coeffs = biquadCoeffs{}
	e.pads[pad].scratch.on = false
	e.pads[pad].turn.on = false
}

// SetPadDistortion sets drive in [0, 1] and the waveshaper mode.
func (e *Engine) SetPadDistortion(pad int, drive float32, mode DistortionMode) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.pads[pad].drive = clampF(drive, 0, 1)
	e.pads[pad].distMode = mode
}

// SetPadBitCrush sets the pad bit depth, clamped to [4, 16].
func (e *Engine) SetPadBitCrush(pad int, bits uint8) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	if bits < 4 {
		bits = 4
	}
	if bits > 16 {
		bits = 16
	}
	e.pads[pad].bitDepth = bits
}

// SetPadLoop toggles looping for new and already-playing voices.
func (e *Engine) SetPadLoop(pad int, loop bool) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.pads[pad].loop = loop
}

// SetPadPitch sets the pad's playback speed ratio (1 = original pitch),
// clamped to [0.25, 4].
func (e *Engine) SetPadPitch(pad int, speed float32) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.pads[pad].pitch = clampF(speed, 0.25, 4.0)
}

// SetPadStutter rewinds the voice 100 samples every interval.
func (e *Engine) SetPadStutter(pad int, on bool, intervalMs uint16) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	if intervalMs < 20 {
		intervalMs = 20
	}
	if intervalMs > 2000 {
		intervalMs = 2000
	}
	p := &e.pads[pad]
	p.stutterOn = on
	p.stutterInterval = uint32(float32(intervalMs) * e.sampleRate / 1000)
	p.stutterCount = 0
}

// SetScratch configures and toggles the scratch effect on a pad.
func (e *Engine) SetScratch(pad int, on bool, rate, depth, cutoff, crackle float32) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	s := &e.pads[pad].scratch
	if !on {
		s.on = false
		if e.pads[pad].filter == FilterScratch {
			e.pads[pad].filter = FilterNone
		}
		return
	}
	s.lfoPhase = 0
	s.lfoRate = clampF(rate, 0.5, 25)
	s.depth = clampF(depth, 0.1, 1)
	s.filterCutoff = clampF(cutoff, 200, 12000)
	s.crackleAmount = clampF(crackle, 0, 1)
	s.lp1.state = 0
	s.lp2.state = 0
	if s.noise.state == 0 {
		s.noise.state = 12345 + uint32(pad)*7919
	}
	s.on = true
}

// SetTurntablism configures and toggles the turntablism FSM on a pad. In
// manual mode the given mode is entered immediately with a fresh timer.
func (e *Engine) SetTurntablism(pad int, on, auto bool, mode int, brakeMs, backspinMs uint16, transformRate, vinylNoise float32) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	t := &e.pads[pad].turn
	if !on {
		t.on = false
		if e.pads[pad].filter == FilterTurntablism {
			e.pads[pad].filter = FilterNone
		}
		return
	}
	t.auto = auto
	if brakeMs < 100 {
		brakeMs = 100
	}
	if brakeMs > 2000 {
		brakeMs = 2000
	}
	if backspinMs < 100 {
		backspinMs = 100
	}
	if backspinMs > 2000 {
		backspinMs = 2000
	}
	t.brakeLen = uint32(float32(brakeMs) * e.sampleRate / 1000)
	t.backspinLen = uint32(float32(backspinMs) * e.sampleRate / 1000)
	t.transformRate = clampF(transformRate, 2, 30)
	t.vinylNoise = clampF(vinylNoise, 0, 1)
	if mode >= 0 && mode <= 3 {
		t.mode = mode
		t.modeTimer = t.modeLen(mode, e.sampleRate)
		if mode == turnTransform {
			t.gatePhase = 0
		}
	} else if t.modeTimer == 0 {
		t.mode = turnNormal
		t.modeTimer = t.modeLen(turnNormal, e.sampleRate)
	}
	t.lp1.state = 0
	t.lp2.state = 0
	if t.noise.state == 0 {
		t.noise.state = 67890 + uint32(pad)*6271
	}
	t.on = true
}

// ClearPadFX restores every pad setting to its default.
func (e *Engine) ClearPadFX(pad int) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.pads[pad].reset()
}
