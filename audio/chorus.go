package audio

// chorus is a modulated-delay collaborator: a 50 ms line swept by a slow
// sine LFO, read with linear interpolation. Mono in, used on L plus the
// chorus send bus; the wet/dry crossfade happens in the master chain.
type chorus struct {
	buf      []float32
	writePos uint32
	mod      lfo
	depth    float32
	mix      float32
	sr       float32
}

func newChorus(sampleRate float32) *chorus {
	c := &chorus{
		buf:   make([]float32, int(sampleRate*0.05)),
		depth: 0.5,
		mix:   0.4,
	}
	c.mod.depth = 1
	c.mod.waveform = lfoSine
	c.mod.setRate(0.8, sampleRate)
	c.sr = sampleRate
	return c
}

func (c *chorus) setLfoFreq(hz float32) {
	c.mod.setRate(clampF(hz, 0.05, 10), c.sr)
}

func (c *chorus) setLfoDepth(depth float32) {
	c.depth = clampF(depth, 0, 1)
}

func (c *chorus) setMix(mix float32) {
	c.mix = clampF(mix, 0, 1)
}

func (c *chorus) process(in float32) float32 {
	size := uint32(len(c.buf))
	c.buf[c.writePos] = in

	// Sweep from 10ms up to 10ms + 30ms*depth (40ms at full depth).
	base := float32(size) * 0.2
	span := float32(size) * 0.6
	delayF := base + c.mod.tickUnipolar()*c.depth*span
	if delayF >= float32(size-1) {
		delayF = float32(size - 2)
	}
	delayInt := uint32(delayF)
	frac := delayF - float32(delayInt)

	r1 := (c.writePos + size - delayInt) % size
	r2 := (r1 + size - 1) % size
	wet := c.buf[r1]*(1-frac) + c.buf[r2]*frac

	c.writePos = (c.writePos + 1) % size
	return wet
}
