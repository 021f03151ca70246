package audio

// trackEcho is a circular delay of up to 200 ms. The written value passes
// through the soft clip so feedback cannot run away.
type trackEcho struct {
	active       bool
	buf          []float32
	delaySamples uint32
	feedback     float32
	mix          float32
	writePos     uint32
}

func (t *trackEcho) process(in float32) float32 {
	if len(t.buf) == 0 {
		return in
	}
	size := uint32(len(t.buf))
	d := t.delaySamples
	if d == 0 {
		d = 1
	}
	if d >= size {
		d = size - 1
	}
	delayed := t.buf[(t.writePos+size-d)%size]
	t.buf[t.writePos] = softClip(in + delayed*t.feedback)
	t.writePos = (t.writePos + 1) % size
	return in*(1-t.mix) + delayed*t.mix
}

// trackFlanger is a short LFO-modulated delay with linear interpolation
// between adjacent taps. Depth drives both the sweep range and the wet
// mix (0.5 + depth*0.4).
type trackFlanger struct {
	active   bool
	buf      []float32
	writePos uint32
	depth    float32
	feedback float32
	mod      lfo
}

func (f *trackFlanger) process(in float32) float32 {
	size := uint32(len(f.buf))
	if size == 0 {
		return in
	}
	f.buf[f.writePos] = in

	lfoVal := f.mod.tickUnipolar()
	delayF := lfoVal*f.depth*400 + 1
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

	wet := 0.5 + f.depth*0.4
	return in*(1-wet) + (in+delayed)*wet
}

// trackCompressor is a peak envelope follower with separate attack and
// release coefficients. Makeup scales with ratio so compressed drums keep
// their perceived level.
type trackCompressor struct {
	active       bool
	threshold    float32
	ratio        float32
	attackCoeff  float32
	releaseCoeff float32
	envelope     float32
}

func (c *trackCompressor) process(in float32) float32 {
	a := abs32(in)
	if a > c.envelope {
		c.envelope = c.attackCoeff*c.envelope + (1-c.attackCoeff)*a
	} else {
		c.envelope = c.releaseCoeff*c.envelope + (1-c.releaseCoeff)*a
	}
	if c.envelope <= c.threshold {
		return in
	}
	excess := c.envelope / c.threshold
	gain := pow32(excess, 1/c.ratio-1)
	gain *= 1 + (c.ratio-1)*0.15
	return in * gain
}

// EQ band centers are fixed; a band whose dB setting is zero is bypassed.
const (
	eqLowFreq  = 200
	eqMidFreq  = 1000
	eqHighFreq = 4000
)

type trackEQ struct {
	low, mid, high       biquad
	lowDB, midDB, highDB int8
}

func (q *trackEQ) process(in float32) float32 {
	if q.lowDB != 0 {
		in = q.low.process(in)
	}
	if q.midDB != 0 {
		in = q.mid.process(in)
	}
	if q.highDB != 0 {
		in = q.high.process(in)
	}
	return in
}

// trackState is the per-track mixer strip: voice-level FX settings for
// sequencer voices, the echo/flanger/compressor/EQ chain on the track bus,
// and routing (sends, pan, mute, solo).
type trackState struct {
	gain  float32
	pan   float32
	mute  bool
	solo  bool
	pitch float32

	filter   FilterType
	coeffs   biquadCoeffs
	cutoff   float32
	q        float32
	drive    float32
	distMode DistortionMode
	bitDepth uint8

	reverbSend float32
	delaySend  float32
	chorusSend float32

	echo trackEcho
	flg  trackFlanger
	comp trackCompressor
	eq   trackEQ
}

func (t *trackState) resetFX() {
	t.filter = FilterNone
	t.coeffs = biquadCoeffs{}
	t.drive = 0
	t.distMode = DistSoft
	t.bitDepth = 16
	t.echo.active = false
	t.echo.writePos = 0
	for i := range t.echo.buf {
		t.echo.buf[i] = 0
	}
	t.flg.active = false
	t.flg.writePos = 0
	for i := range t.flg.buf {
		t.flg.buf[i] = 0
	}
	t.comp.active = false
	t.comp.envelope = 0
	t.eq = trackEQ{}
}

func (t *trackState) resetRouting() {
	t.gain = 1
	t.pan = 0
	t.mute = false
	t.solo = false
	t.pitch = 1
	t.reverbSend = 0
	t.delaySend = 0
	t.chorusSend = 0
}

// process runs echo, flanger, compressor and EQ in order on the track's
// summed input.
func (t *trackState) process(in float32) float32 {
	if t.echo.active {
		in = t.echo.process(in)
	}
	if t.flg.active {
		in = t.flg.process(in)
	}
	if t.comp.active {
		in = t.comp.process(in)
	}
	return t.eq.process(in)
}

// SetTrackFilter installs a cookbook filter applied to sequencer voices on
// this track.
func (e *Engine) SetTrackFilter(track int, typ FilterType, cutoff, q float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	t := &e.tracks[track]
	t.cutoff = clampF(cutoff, 20, 20000)
	t.q = clampF(q, 0.3, 10)
	t.coeffs = cookbookCoeffs(typ, t.cutoff, t.q, 0, e.sampleRate)
	t.filter = typ
}

// ClearTrackFilter removes the track filter.
func (e *Engine) ClearTrackFilter(track int) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].filter = FilterNone
	e.tracks[track].coeffs = biquadCoeffs{}
}

// SetTrackDistortion sets drive in [0, 1] and mode for sequencer voices.
func (e *Engine) SetTrackDistortion(track int, drive float32, mode DistortionMode) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].drive = clampF(drive, 0, 1)
	e.tracks[track].distMode = mode
}

// SetTrackBitCrush sets the track bit depth, clamped to [4, 16].
func (e *Engine) SetTrackBitCrush(track int, bits uint8) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	if bits < 4 {
		bits = 4
	}
	if bits > 16 {
		bits = 16
	}
	e.tracks[track].bitDepth = bits
}

// SetTrackEcho configures the track echo. Time is clamped to the ring size
// (200 ms).
func (e *Engine) SetTrackEcho(track int, active bool, timeMs, feedback, mix float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	echo := &e.tracks[track].echo
	echo.active = active
	if !active {
		return
	}
	timeMs = clampF(timeMs, 1, 200)
	echo.delaySamples = uint32(timeMs * e.sampleRate / 1000)
	echo.feedback = clampF(feedback, 0, 0.95)
	echo.mix = clampF(mix, 0, 1)
}

// SetTrackFlanger configures the track flanger (≤9 ms modulated delay).
func (e *Engine) SetTrackFlanger(track int, active bool, rate, depth, feedback float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	f := &e.tracks[track].flg
	f.active = active
	if !active {
		return
	}
	f.depth = clampF(depth, 0, 1)
	f.feedback = clampF(feedback, -0.9, 0.9)
	f.mod.depth = 1
	f.mod.waveform = lfoSine
	f.mod.setRate(clampF(rate, 0.05, 20), e.sampleRate)
	for i := range f.buf {
		f.buf[i] = 0
	}
	f.writePos = 0
}

// SetTrackCompressor configures the track compressor. Threshold arrives in
// dB (-60..0); attack and release are fixed fast drum settings.
func (e *Engine) SetTrackCompressor(track int, active bool, thresholdDB, ratio float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	c := &e.tracks[track].comp
	c.active = active
	if !active {
		return
	}
	c.threshold = dbToLinear(clampF(thresholdDB, -60, 0))
	c.ratio = clampF(ratio, 1, 20)
	c.attackCoeff = envCoeff(2, e.sampleRate)
	c.releaseCoeff = envCoeff(60, e.sampleRate)
	c.envelope = 0
}

// SetTrackEQ adjusts one band. A zero dB setting bypasses the band; any
// change reconfigures the biquad and clears its state.
func (e *Engine) SetTrackEQ(track int, band int, gainDB int8) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	q := &e.tracks[track].eq
	switch band {
	case 0:
		q.lowDB = gainDB
		q.low.set(FilterLowShelf, eqLowFreq, 0.707, float32(gainDB), e.sampleRate)
		q.low.clear()
	case 1:
		q.midDB = gainDB
		q.mid.set(FilterPeaking, eqMidFreq, 1.0, float32(gainDB), e.sampleRate)
		q.mid.clear()
	case 2:
		q.highDB = gainDB
		q.high.set(FilterHighShelf, eqHighFreq, 0.707, float32(gainDB), e.sampleRate)
		q.high.clear()
	}
}

// SetTrackVolume, pan, mute, solo and sends.

func (e *Engine) SetTrackVolume(track int, vol uint8) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].gain = float32(vol) / 100
}

func (e *Engine) SetTrackPan(track int, pan float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].pan = clampF(pan, -1, 1)
}

func (e *Engine) SetTrackMute(track int, mute bool) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].mute = mute
}

// SetTrackSolo toggles solo and recomputes whether any track is soloed.
func (e *Engine) SetTrackSolo(track int, solo bool) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].solo = solo
	e.anySolo = false
	for i := range e.tracks {
		if e.tracks[i].solo {
			e.anySolo = true
			break
		}
	}
}

func (e *Engine) SetTrackReverbSend(track int, send float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].reverbSend = clampF(send, 0, 1)
}

func (e *Engine) SetTrackDelaySend(track int, send float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].delaySend = clampF(send, 0, 1)
}

func (e *Engine) SetTrackChorusSend(track int, send float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].chorusSend = clampF(send, 0, 1)
}

// SetTrackPitch sets the playback speed used by new voices on this track's
// pad.
func (e *Engine) SetTrackPitch(track int, speed float32) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].pitch = clampF(speed, 0.25, 4)
}

// ClearTrackLiveFX turns off echo, flanger and compressor and flushes
// their buffers.
func (e *Engine) ClearTrackLiveFX(track int) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	t := &e.tracks[track]
	t.echo.active = false
	t.echo.writePos = 0
	for i := range t.echo.buf {
		t.echo.buf[i] = 0
	}
	t.flg.active = false
	t.comp.active = false
	t.comp.envelope = 0
}

// ClearTrackFX restores the whole strip: FX chain and routing.
func (e *Engine) ClearTrackFX(track int) {
	if track < 0 || track >= e.cfg.MaxTracks {
		return
	}
	e.tracks[track].resetFX()
	e.tracks[track].resetRouting()
	e.anySolo = false
	for i := range e.tracks {
		if e.tracks[i].solo {
			e.anySolo = true
			break
		}
	}
}
