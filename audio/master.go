package audio

import "math"

// masterDelay is the long circular delay fed by the mix and the delay send
// bus. The written value is soft clipped to keep feedback bounded.
type masterDelay struct {
	active       bool
	buf          []float32
	delaySamples uint32
	feedback     float32
	mix          float32
	writePos     uint32
}

// tap reads the wet sample and writes input + send + feedback back into
// the ring. The caller crossfades wet against both channels.
func (d *masterDelay) tap(in, send float32) float32 {
	size := uint32(len(d.buf))
	if size == 0 {
		return 0
	}
	ds := d.delaySamples
	if ds >= size {
		ds = size - 1
	}
	wet := d.buf[(d.writePos+size-ds)%size]
	d.buf[d.writePos] = softClip(in + send + wet*d.feedback)
	d.writePos = (d.writePos + 1) % size
	return wet
}

const phaserStages = 4

// masterPhaser is a 4-stage first-order allpass cascade swept between 200
// and 4000 Hz by the LFO. The allpass coefficient uses the small-angle tan
// approximation x + x³/3.
type masterPhaser struct {
	active     bool
	depth      float32
	feedback   float32
	lastOutput float32
	stages     [phaserStages]struct{ x1, y1 float32 }
	mod        lfo
	sr         float32
}

func (p *masterPhaser) process(in float32) float32 {
	lfoVal := p.mod.tickUnipolar()

	const minFreq, maxFreq = 200.0, 4000.0
	freq := minFreq + (maxFreq-minFreq)*lfoVal*p.depth

	omega := float32(math.Pi) * freq / p.sr
	tn := omega + omega*omega*omega*0.333333
	coeff := (1 - tn) / (1 + tn)

	x := in + p.lastOutput*p.feedback
	for s := range p.stages {
		y := coeff*x + p.stages[s].x1 - coeff*p.stages[s].y1
		p.stages[s].x1 = x
		p.stages[s].y1 = y
		x = y
	}
	p.lastOutput = x
	return (in + x) * 0.5
}

// masterFlanger is the master-scale variant of the track flanger with its
// own mix control.
type masterFlanger struct {
	active   bool
	buf      []float32
	writePos uint32
	depth    float32
	feedback float32
	mix      float32
	mod      lfo
}

func (f *masterFlanger) process(in float32) float32 {
	size := uint32(len(f.buf))
	if size == 0 {
		return in
	}
	f.buf[f.writePos] = in

	lfoVal := f.mod.tickUnipolar()
	delayF := lfoVal*f.depth*176 + 1
	if delayF >= float32(size-1) {
		delayF = float32(size - 2)
	}
	delayInt := uint32(delayF)
	frac := delayF - float32(delayInt)

	r1 := (f.writePos + size - delayInt) % size
	r2 := (r1 + size - 1) % size
	delayed := f.buf[r1]*(1-frac) + f.buf[r2]*frac

	f.buf[f.writePos] += delayed * f.feedback
	f.writePos = (f.writePos + 1) % size
	return in*(1-f.mix) + delayed*f.mix
}

// masterCompressor mirrors the track compressor but carries an explicit
// makeup gain.
type masterCompressor struct {
	active       bool
	threshold    float32
	ratio        float32
	attackCoeff  float32
	releaseCoeff float32
	makeupGain   float32
	envelope     float32
}

func (c *masterCompressor) process(in float32) float32 {
	a := abs32(in)
	if a > c.envelope {
		c.envelope = c.attackCoeff*c.envelope + (1-c.attackCoeff)*a
	} else {
		c.envelope = c.releaseCoeff*c.envelope + (1-c.releaseCoeff)*a
	}
	gain := float32(1)
	if c.envelope > c.threshold {
		excess := c.envelope / c.threshold
		gain = pow32(excess, 1/c.ratio-1)
	}
	return in * gain * c.makeupGain
}

// wavefolder reflects the driven signal back inside [-1, 1]. Identity when
// gain is at or near unity.
type wavefolder struct {
	gain float32
}

func (w *wavefolder) process(in float32) float32 {
	if w.gain <= 1.01 {
		return in
	}
	x := in * w.gain
	for x > 1 || x < -1 {
		if x > 1 {
			x = 2 - x
		}
		if x < -1 {
			x = -2 - x
		}
	}
	return x
}

// tremolo modulates the stereo gain with the oscillator output; the LFO
// ticks once per frame so both channels share the same sweep.
type tremolo struct {
	active bool
	depth  float32
	mod    lfo
}

// globalFilter is the stereo master biquad with independent L/R state.
type globalFilter struct {
	typ      FilterType
	cutoff   float32
	q        float32
	coeffs   biquadCoeffs
	stateL   biquadState
	stateR   biquadState
	bitDepth uint8
	dist     float32
	distMode DistortionMode

	srTarget  uint32
	srCounter uint32
	srHoldL   float32
	srHoldR   float32
}

// masterFX is the fixed-order output chain acting on the mix and send
// buses: filter, lofi, delay, dynamics, modulation, reverb, limiting.
type masterFX struct {
	filter  globalFilter
	delay   masterDelay
	comp    masterCompressor
	fold    wavefolder
	phaser  masterPhaser
	flg     masterFlanger
	trem    tremolo
	cho     *chorus
	rev     *reverb
	limiter bool

	chorusActive bool
	reverbActive bool
	reverbMix    float32
}

func newMasterFX(sampleRate float32) *masterFX {
	m := &masterFX{
		cho: newChorus(sampleRate),
		rev: newReverb(sampleRate),
	}
	m.filter.bitDepth = 16
	m.filter.cutoff = 10000
	m.filter.q = 0.707

	m.delay.buf = make([]float32, int(sampleRate*2))
	m.delay.delaySamples = uint32(0.25 * sampleRate)
	m.delay.feedback = 0.3
	m.delay.mix = 0.3

	m.comp.threshold = 0.5
	m.comp.ratio = 4
	m.comp.attackCoeff = envCoeff(10, sampleRate)
	m.comp.releaseCoeff = envCoeff(100, sampleRate)
	m.comp.makeupGain = 1

	m.fold.gain = 1

	m.phaser.depth = 0.7
	m.phaser.feedback = 0.3
	m.phaser.sr = sampleRate
	m.phaser.mod.depth = 1
	m.phaser.mod.waveform = lfoSine
	m.phaser.mod.setRate(0.5, sampleRate)

	m.flg.buf = make([]float32, 4096)
	m.flg.depth = 0.5
	m.flg.feedback = 0.4
	m.flg.mix = 0.3
	m.flg.mod.depth = 1
	m.flg.mod.waveform = lfoSine
	m.flg.mod.setRate(0.3, sampleRate)

	m.trem.depth = 0.5
	m.trem.mod.depth = 1
	m.trem.mod.waveform = lfoSine
	m.trem.mod.setRate(4, sampleRate)

	m.reverbMix = 0.3
	return m
}

// process runs one stereo frame through the chain. delaySend and
// chorusSend/reverbSend are the per-frame send bus sums.
func (m *masterFX) process(l, r, reverbSend, delaySend, chorusSend float32, sampleRate float32) (float32, float32) {
	gf := &m.filter

	if gf.typ != FilterNone {
		yl := gf.coeffs.b0*l + gf.stateL.x1
		gf.stateL.x1 = gf.coeffs.b1*l - gf.coeffs.a1*yl + gf.stateL.x2
		gf.stateL.x2 = gf.coeffs.b2*l - gf.coeffs.a2*yl
		yr := gf.coeffs.b0*r + gf.stateR.x1
		gf.stateR.x1 = gf.coeffs.b1*r - gf.coeffs.a1*yr + gf.stateR.x2
		gf.stateR.x2 = gf.coeffs.b2*r - gf.coeffs.a2*yr
		l, r = yl, yr
	}

	l = bitCrush(l, gf.bitDepth)
	r = bitCrush(r, gf.bitDepth)
	l = distort(l, gf.dist, gf.distMode)
	r = distort(r, gf.dist, gf.distMode)

	if gf.srTarget > 0 && gf.srTarget < uint32(sampleRate) {
		step := uint32(sampleRate) / gf.srTarget
		if step < 1 {
			step = 1
		}
		gf.srCounter++
		if gf.srCounter >= step {
			gf.srCounter = 0
			gf.srHoldL, gf.srHoldR = l, r
		} else {
			l, r = gf.srHoldL, gf.srHoldR
		}
	}

	if m.delay.active {
		wet := m.delay.tap(l, delaySend)
		l = l*(1-m.delay.mix) + wet*m.delay.mix
		r = r*(1-m.delay.mix) + wet*m.delay.mix
	}

	if m.comp.active {
		l = m.comp.process(l)
		r = m.comp.process(r)
	}

	l = m.fold.process(l)
	r = m.fold.process(r)

	if m.phaser.active {
		l = m.phaser.process(l)
		r = r*0.7 + l*0.3
	}

	if m.flg.active {
		l = m.flg.process(l)
		r = r*(1-m.flg.mix) + l*m.flg.mix
	}

	if m.trem.active {
		g := 1 - m.trem.mod.tickUnipolar()*m.trem.depth
		l *= g
		r *= g
	}

	if m.chorusActive {
		wet := m.cho.process(l + chorusSend)
		l = l*(1-m.cho.mix) + wet*m.cho.mix
		r = r*(1-m.cho.mix) + wet*m.cho.mix
	}

	if m.reverbActive {
		wetL, wetR := m.rev.process(l+reverbSend, r+reverbSend)
		l = l*(1-m.reverbMix) + wetL*m.reverbMix
		r = r*(1-m.reverbMix) + wetR*m.reverbMix
	}

	if m.limiter {
		l = clampF(l, -1, 1)
		r = clampF(r, -1, 1)
	} else {
		l = tanh32(l)
		r = tanh32(r)
	}

	return softClipKnee(l), softClipKnee(r)
}

// Master FX setters, called from the dispatcher.

func (e *Engine) SetGlobalFilter(typ FilterType, cutoff, q float32) {
	gf := &e.master.filter
	gf.cutoff = clampF(cutoff, 20, 20000)
	gf.q = clampF(q, 0.3, 10)
	gf.coeffs = cookbookCoeffs(typ, gf.cutoff, gf.q, 0, e.sampleRate)
	if typ == FilterNone || typ != gf.typ {
		gf.stateL = biquadState{}
		gf.stateR = biquadState{}
	}
	gf.typ = typ
}

func (e *Engine) SetGlobalFilterCutoff(cutoff float32) {
	gf := &e.master.filter
	gf.cutoff = clampF(cutoff, 20, 20000)
	if gf.typ != FilterNone {
		gf.coeffs = cookbookCoeffs(gf.typ, gf.cutoff, gf.q, 0, e.sampleRate)
	}
}

func (e *Engine) SetGlobalFilterResonance(q float32) {
	gf := &e.master.filter
	gf.q = clampF(q, 0.3, 10)
	if gf.typ != FilterNone {
		gf.coeffs = cookbookCoeffs(gf.typ, gf.cutoff, gf.q, 0, e.sampleRate)
	}
}

func (e *Engine) SetGlobalBitDepth(bits uint8) {
	if bits < 4 {
		bits = 4
	}
	if bits > 16 {
		bits = 16
	}
	e.master.filter.bitDepth = bits
}

func (e *Engine) SetGlobalDistortion(drive float32) {
	e.master.filter.dist = clampF(drive, 0, 1)
}

func (e *Engine) SetGlobalDistortionMode(mode DistortionMode) {
	e.master.filter.distMode = mode
}

// SetSampleRateReduction holds the last sample for sr/target frames.
// target of 0 or the engine rate disables the effect.
func (e *Engine) SetSampleRateReduction(target uint32) {
	e.master.filter.srTarget = target
	e.master.filter.srCounter = 0
}

func (e *Engine) SetDelayActive(active bool) {
	d := &e.master.delay
	d.active = active
	if active {
		for i := range d.buf {
			d.buf[i] = 0
		}
		d.writePos = 0
	}
}

func (e *Engine) SetDelayTime(ms float32) {
	d := &e.master.delay
	ms = clampF(ms, 10, 2000)
	d.delaySamples = uint32(ms * e.sampleRate / 1000)
	if d.delaySamples >= uint32(len(d.buf)) {
		d.delaySamples = uint32(len(d.buf)) - 1
	}
}

func (e *Engine) SetDelayFeedback(fb float32) {
	e.master.delay.feedback = clampF(fb, 0, 0.95)
}

func (e *Engine) SetDelayMix(mix float32) {
	e.master.delay.mix = clampF(mix, 0, 1)
}

func (e *Engine) SetPhaserActive(active bool) {
	p := &e.master.phaser
	p.active = active
	if active {
		p.lastOutput = 0
		for i := range p.stages {
			p.stages[i].x1 = 0
			p.stages[i].y1 = 0
		}
	}
}

func (e *Engine) SetPhaserRate(hz float32) {
	e.master.phaser.mod.setRate(clampF(hz, 0.05, 5), e.sampleRate)
}

func (e *Engine) SetPhaserDepth(depth float32) {
	e.master.phaser.depth = clampF(depth, 0, 1)
}

func (e *Engine) SetPhaserFeedback(fb float32) {
	e.master.phaser.feedback = clampF(fb, -0.9, 0.9)
}

func (e *Engine) SetFlangerActive(active bool) {
	f := &e.master.flg
	f.active = active
	if active {
		for i := range f.buf {
			f.buf[i] = 0
		}
		f.writePos = 0
	}
}

func (e *Engine) SetFlangerRate(hz float32) {
	e.master.flg.mod.setRate(clampF(hz, 0.05, 20), e.sampleRate)
}

func (e *Engine) SetFlangerDepth(depth float32) {
	e.master.flg.depth = clampF(depth, 0, 1)
}

func (e *Engine) SetFlangerFeedback(fb float32) {
	e.master.flg.feedback = clampF(fb, -0.9, 0.9)
}

func (e *Engine) SetFlangerMix(mix float32) {
	e.master.flg.mix = clampF(mix, 0, 1)
}

func (e *Engine) SetCompressorActive(active bool) {
	e.master.comp.active = active
	if active {
		e.master.comp.envelope = 0
	}
}

func (e *Engine) SetCompressorThreshold(db float32) {
	e.master.comp.threshold = dbToLinear(clampF(db, -60, 0))
}

func (e *Engine) SetCompressorRatio(ratio float32) {
	e.master.comp.ratio = clampF(ratio, 1, 20)
}

func (e *Engine) SetCompressorAttack(ms float32) {
	e.master.comp.attackCoeff = envCoeff(clampF(ms, 0.1, 100), e.sampleRate)
}

func (e *Engine) SetCompressorRelease(ms float32) {
	e.master.comp.releaseCoeff = envCoeff(clampF(ms, 10, 1000), e.sampleRate)
}

func (e *Engine) SetCompressorMakeup(db float32) {
	e.master.comp.makeupGain = dbToLinear(clampF(db, 0, 24))
}

func (e *Engine) SetReverbActive(active bool)    { e.master.reverbActive = active }
func (e *Engine) SetReverbFeedback(fb float32)   { e.master.rev.setFeedback(fb) }
func (e *Engine) SetReverbLpFreq(freq float32)   { e.master.rev.setLpFreq(freq) }
func (e *Engine) SetReverbMix(mix float32)       { e.master.reverbMix = clampF(mix, 0, 1) }
func (e *Engine) SetChorusActive(active bool)    { e.master.chorusActive = active }
func (e *Engine) SetChorusRate(hz float32)       { e.master.cho.setLfoFreq(hz) }
func (e *Engine) SetChorusDepth(depth float32)   { e.master.cho.setLfoDepth(depth) }
func (e *Engine) SetChorusMix(mix float32)       { e.master.cho.setMix(mix) }
func (e *Engine) SetTremoloActive(active bool)   { e.master.trem.active = active }
func (e *Engine) SetTremoloDepth(depth float32)  { e.master.trem.depth = clampF(depth, 0, 1) }
func (e *Engine) SetWavefolderGain(gain float32) { e.master.fold.gain = clampF(gain, 1, 10) }
func (e *Engine) SetLimiterActive(active bool)   { e.master.limiter = active }

func (e *Engine) SetTremoloRate(hz float32) {
	e.master.trem.mod.setRate(clampF(hz, 0.1, 30), e.sampleRate)
}
