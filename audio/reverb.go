package audio

// reverb is a Freeverb-flavored Schroeder topology: eight lowpass-feedback
// combs in parallel into four serial allpasses, per channel, with the
// right channel's delay lines offset for stereo spread. The engine treats
// it as an opaque collaborator: per-sample stereo process plus feedback,
// damping-frequency and mix setters.
type reverbComb struct {
	buf      []float32
	pos      int
	feedback float32
	damp     float32
	filtered float32
}

func (c *reverbComb) process(in float32) float32 {
	out := c.buf[c.pos]
	c.filtered = out*(1-c.damp) + c.filtered*c.damp
	c.buf[c.pos] = in + c.filtered*c.feedback
	c.pos++
	if c.pos >= len(c.buf) {
		c.pos = 0
	}
	return out
}

type reverbAllpass struct {
	buf []float32
	pos int
}

func (a *reverbAllpass) process(in float32) float32 {
	const gain = 0.5
	buffered := a.buf[a.pos]
	out := buffered - in
	a.buf[a.pos] = in + buffered*gain
	a.pos++
	if a.pos >= len(a.buf) {
		a.pos = 0
	}
	return out
}

// Classic Freeverb tunings at 44.1 kHz; scaled to the engine rate at
// construction.
var (
	reverbCombTuning    = [8]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	reverbAllpassTuning = [4]int{556, 441, 341, 225}
)

const reverbStereoSpread = 23

type reverb struct {
	combL [8]reverbComb
	combR [8]reverbComb
	apL   [4]reverbAllpass
	apR   [4]reverbAllpass

	feedback float32
	lpFreq   float32
	mix      float32
	sr       float32
}

func newReverb(sampleRate float32) *reverb {
	r := &reverb{sr: sampleRate}
	scale := float64(sampleRate) / 44100.0
	for i := range r.combL {
		n := int(float64(reverbCombTuning[i]) * scale)
		r.combL[i].buf = make([]float32, n)
		r.combR[i].buf = make([]float32, n+reverbStereoSpread)
	}
	for i := range r.apL {
		n := int(float64(reverbAllpassTuning[i]) * scale)
		r.apL[i].buf = make([]float32, n)
		r.apR[i].buf = make([]float32, n+reverbStereoSpread)
	}
	r.setFeedback(0.85)
	r.setLpFreq(8000)
	r.mix = 0.3
	return r
}

func (r *reverb) setFeedback(fb float32) {
	r.feedback = clampF(fb, 0, 0.98)
	for i := range r.combL {
		r.combL[i].feedback = r.feedback
		r.combR[i].feedback = r.feedback
	}
}

// setLpFreq maps the damping corner into the comb lowpass coefficient.
func (r *reverb) setLpFreq(freq float32) {
	r.lpFreq = clampF(freq, 200, 20000)
	damp := 1 - r.lpFreq/20000
	for i := range r.combL {
		r.combL[i].damp = damp
		r.combR[i].damp = damp
	}
}

func (r *reverb) setMix(mix float32) {
	r.mix = clampF(mix, 0, 1)
}

func (r *reverb) process(inL, inR float32) (outL, outR float32) {
	const fixedGain = 0.015
	input := (inL + inR) * fixedGain
	for i := range r.combL {
		outL += r.combL[i].process(input)
		outR += r.combR[i].process(input)
	}
	for i := range r.apL {
		outL = r.apL[i].process(outL)
		outR = r.apR[i].process(outR)
	}
	return outL, outR
}
