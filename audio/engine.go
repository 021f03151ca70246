package audio

import (
	"time"
)

// Config sizes the engine at construction. Every buffer is allocated once
// in New; the render path never allocates.
type Config struct {
	SampleRate      int
	BlockSize       int
	MaxPads         int
	MaxTracks       int
	MaxVoices       int
	MaxSampleFrames int
}

// DefaultConfig mirrors the hardware the engine grew up on: 44.1k/128 with
// 24 pads, 16 of which are mixer tracks.
func DefaultConfig() Config {
	return Config{
		SampleRate:      44100,
		BlockSize:       128,
		MaxPads:         24,
		MaxTracks:       16,
		MaxVoices:       32,
		MaxSampleFrames: 96000,
	}
}

// SynthEngine is the math-synthesis collaborator contract. The engine
// mixes Process() output into the main bus; internals are replaceable.
type SynthEngine interface {
	Init(sampleRate float32)
	Trigger(instrument int, velocity float32)
	NoteOn(note int, accent, slide bool)
	NoteOff()
	SetParam(instrument, param int, value float32)
	Process() float32
}

// FrameTicker runs once per output frame ahead of the synth mix and
// returns the gain applied to the synth contribution. The demo sequencer
// implements it.
type FrameTicker interface {
	TickFrame() float32
}

// Engine owns every buffer, voice and effect. It is the single root of
// mutable audio state: the control context reaches it only through the
// trigger queue, the event queue, and word-sized parameter setters.
type Engine struct {
	cfg        Config
	sampleRate float32

	samples []sample
	pads    []padState
	tracks  []trackState
	voices  []voice
	anySolo bool

	masterVolume float32
	seqVolume    float32
	liveVolume   float32
	livePitch    float32

	master    *masterFX
	sidechain sidechainState

	triggers *triggerRing
	events   eventQueue
	tx       *TxRing

	synths    [4]SynthEngine
	synthMask uint8
	ticker    FrameTicker
	tickerOn  bool

	trackIn []float32
	scGain  []float32

	trackPeak      []float32
	trackPeakDecay []float32
	masterPeak     float32
	masterDecay    float32

	voiceAge  uint32
	startTime time.Time
	cpuLoad   float32
}

// New builds an engine with all FX buffers allocated up front.
func New(cfg Config) *Engine {
	if cfg.SampleRate == 0 {
		cfg = DefaultConfig()
	}
	sr := float32(cfg.SampleRate)
	e := &Engine{
		cfg:        cfg,
		sampleRate: sr,

		samples: make([]sample, cfg.MaxPads),
		pads:    make([]padState, cfg.MaxPads),
		tracks:  make([]trackState, cfg.MaxTracks),
		voices:  make([]voice, cfg.MaxVoices),

		masterVolume: 1.0,
		seqVolume:    1.0,
		liveVolume:   1.0,
		livePitch:    1.0,

		master:   newMasterFX(sr),
		triggers: newTriggerRing(32),
		tx:       newTxRing(1024),

		trackIn: make([]float32, cfg.MaxTracks),
		scGain:  make([]float32, cfg.MaxTracks),

		trackPeak:      make([]float32, cfg.MaxTracks),
		trackPeakDecay: make([]float32, cfg.MaxTracks),

		startTime: time.Now(),
	}
	for i := range e.samples {
		e.samples[i].buf = make([]int16, cfg.MaxSampleFrames)
	}
	for i := range e.pads {
		e.pads[i].reset()
	}
	echoSize := int(sr * 0.2)
	for i := range e.tracks {
		e.tracks[i].echo.buf = make([]float32, echoSize)
		e.tracks[i].flg.buf = make([]float32, 2048)
		e.tracks[i].resetFX()
		e.tracks[i].resetRouting()
	}
	e.ClearSidechain()
	return e
}

// TxQueue exposes the response byte ring to the protocol layer.
func (e *Engine) TxQueue() *TxRing { return e.tx }

// AttachSynth installs a collaborator in one of the four engine slots.
func (e *Engine) AttachSynth(slot int, s SynthEngine) {
	if slot < 0 || slot >= len(e.synths) {
		return
	}
	s.Init(e.sampleRate)
	e.synths[slot] = s
}

// Synth returns the collaborator in a slot, or nil.
func (e *Engine) Synth(slot int) SynthEngine {
	if slot < 0 || slot >= len(e.synths) {
		return nil
	}
	return e.synths[slot]
}

// SetSynthMask enables or disables engines by bit (bit0 = slot 0).
func (e *Engine) SetSynthMask(mask uint8) { e.synthMask = mask }

// SetTicker installs the per-frame hook (demo sequencer).
func (e *Engine) SetTicker(t FrameTicker) {
	e.ticker = t
	e.tickerOn = t != nil
}

// StopTicker detaches the demo hook; the controller has taken over.
func (e *Engine) StopTicker() { e.tickerOn = false }

// TickerRunning reports whether the demo hook is active.
func (e *Engine) TickerRunning() bool { return e.tickerOn }

// Volume setters. Values arrive as percent.

func (e *Engine) SetMasterVolume(v uint8) { e.masterVolume = float32(v) / 100 }
func (e *Engine) SetSeqVolume(v uint8)    { e.seqVolume = float32(v) / 100 }
func (e *Engine) SetLiveVolume(v uint8)   { e.liveVolume = float32(v) / 100 }

func (e *Engine) SetLivePitch(p float32) {
	e.livePitch = clampF(p, 0.25, 4.0)
}

// UptimeMillis reports milliseconds since engine construction.
func (e *Engine) UptimeMillis() uint32 {
	return uint32(time.Since(e.startTime) / time.Millisecond)
}

// CPULoad is the fraction of the block period spent rendering, smoothed.
func (e *Engine) CPULoad() float32 { return e.cpuLoad }

// TrackPeaks copies the per-track meters; MasterPeak returns the mix meter.
func (e *Engine) TrackPeaks(dst []float32) {
	copy(dst, e.trackPeak)
}

func (e *Engine) MasterPeak() float32 { return e.masterPeak }

// MaxPads and MaxTracks expose configured sizes to the protocol layer.
func (e *Engine) MaxPads() int   { return e.cfg.MaxPads }
func (e *Engine) MaxTracks() int { return e.cfg.MaxTracks }

// Reset restores every pad, track, master effect and volume to its power-on
// state and re-inits attached synths.
func (e *Engine) Reset() {
	e.StopAll()
	for i := range e.samples {
		e.samples[i].loaded = false
		e.samples[i].uploading = false
		e.samples[i].length = 0
	}
	for i := range e.pads {
		e.pads[i].reset()
	}
	for i := range e.tracks {
		e.tracks[i].resetFX()
		e.tracks[i].resetRouting()
	}
	e.anySolo = false
	e.masterVolume = 1.0
	e.seqVolume = 1.0
	e.liveVolume = 1.0
	e.livePitch = 1.0
	e.master = newMasterFX(e.sampleRate)
	e.ClearSidechain()
	for i := range e.trackPeak {
		e.trackPeak[i] = 0
		e.trackPeakDecay[i] = 0
	}
	e.masterPeak = 0
	e.masterDecay = 0
	for _, s := range e.synths {
		if s != nil {
			s.Init(e.sampleRate)
		}
	}
	e.synthMask = 0x0B
}

// RenderBlock fills out with interleaved stereo int16 frames. It never
// fails: missing samples render as silence. len(out) must be an even
// number of samples (frames*2).
func (e *Engine) RenderBlock(out []int16) {
	started := time.Now()
	frames := len(out) / 2

	e.triggers.drain(func(t Trigger) {
		if t.Sidechain {
			e.TriggerSidechain(t.Pad, t.Velocity)
			return
		}
		e.trigger(t)
	})

	blockPeak := float32(0)

	for i := 0; i < frames; i++ {
		for t := range e.trackIn {
			e.trackIn[t] = 0
			e.scGain[t] = e.sidechain.gain(t)
		}

		var busL, busR float32
		var reverbBus, delayBus, chorusBus float32

		for v := range e.voices {
			vx := &e.voices[v]
			if !vx.active {
				continue
			}
			outL, outR := e.renderVoice(vx)
			if !vx.active && outL == 0 && outR == 0 {
				continue
			}
			if vx.pad < e.cfg.MaxTracks {
				e.trackIn[vx.pad] += (outL + outR) * 0.5 * e.scGain[vx.pad]
			} else {
				busL += outL
				busR += outR
			}
		}

		for t := range e.tracks {
			trk := &e.tracks[t]
			s := trk.process(e.trackIn[t])

			if a := abs32(s); a > e.trackPeakDecay[t] {
				e.trackPeakDecay[t] = a
			}

			muted := trk.mute
			if e.anySolo && !trk.solo {
				muted = true
			}
			if muted {
				continue
			}

			panL := (1 - trk.pan) * 0.5
			panR := (1 + trk.pan) * 0.5
			busL += s * panL * 2
			busR += s * panR * 2

			reverbBus += s * trk.reverbSend
			delayBus += s * trk.delaySend
			chorusBus += s * trk.chorusSend
		}

		fade := float32(1)
		if e.tickerOn && e.ticker != nil {
			fade = e.ticker.TickFrame()
		}
		var synthMix float32
		for slot, s := range e.synths {
			if s == nil || e.synthMask&(1<<uint(slot)) == 0 {
				continue
			}
			synthMix += s.Process()
		}
		synthMix *= fade
		busL += synthMix
		busR += synthMix

		l := busL * e.masterVolume
		r := busR * e.masterVolume
		l, r = e.master.process(l, r, reverbBus, delayBus, chorusBus, e.sampleRate)

		out[i*2] = floatToInt16(l)
		out[i*2+1] = floatToInt16(r)

		if pk := max2(abs32(l), abs32(r)); pk > blockPeak {
			blockPeak = pk
		}
	}

	for t := range e.trackPeak {
		e.trackPeak[t] = e.trackPeakDecay[t]
		e.trackPeakDecay[t] *= 0.92
	}
	if blockPeak > e.masterDecay {
		e.masterDecay = blockPeak
	}
	e.masterPeak = e.masterDecay
	e.masterDecay *= 0.95

	period := float32(frames) / e.sampleRate
	if period > 0 {
		load := float32(time.Since(started).Seconds()) / period
		e.cpuLoad = e.cpuLoad*0.9 + load*0.1
	}
}

// renderVoice produces one stereo frame for a voice, advancing its
// position and running the per-voice FX chain.
func (e *Engine) renderVoice(vx *voice) (float32, float32) {
	smp := &e.samples[vx.pad]
	if !smp.loaded || smp.length == 0 {
		vx.active = false
		return 0, 0
	}
	p := &e.pads[vx.pad]

	if p.scratch.on || p.turn.on {
		return e.renderVinylVoice(vx, smp, p)
	}

	length := vx.effectiveLength(smp.length)
	if vx.pos < 0 || uint32(vx.pos) >= length {
		if p.loop && vx.maxLength == 0 {
			if smp.reversed {
				vx.pos = float32(smp.length - 1)
			} else {
				vx.pos = 0
			}
		} else {
			vx.active = false
			return 0, 0
		}
	}

	idx := uint32(vx.pos)
	s0 := float32(smp.buf[idx]) / 32768
	var s float32
	if vx.speed != 1.0 {
		s1 := float32(0)
		if idx+1 < smp.length {
			s1 = float32(smp.buf[idx+1]) / 32768
		}
		frac := vx.pos - float32(idx)
		s = s0 + frac*(s1-s0)
	} else {
		s = s0
	}

	if p.stutterOn && p.stutterInterval > 0 {
		p.stutterCount++
		if p.stutterCount >= p.stutterInterval {
			p.stutterCount = 0
			if vx.pos > 100 {
				vx.pos -= 100
			} else {
				vx.pos = 0
			}
		}
	}

	if smp.reversed {
		vx.pos -= vx.speed
	} else {
		vx.pos += vx.speed
	}

	// Voice FX: velocity gain is already folded into gainL/gainR; here the
	// pad (live) or track (sequencer) shaping applies with per-voice
	// filter state.
	var filter FilterType
	var coeffs biquadCoeffs
	var drive float32
	var mode DistortionMode
	var bits uint8 = 16
	if vx.live {
		filter, coeffs = p.filter, p.coeffs
		drive, mode, bits = p.drive, p.distMode, p.bitDepth
	} else if vx.pad < e.cfg.MaxTracks {
		trk := &e.tracks[vx.pad]
		filter, coeffs = trk.filter, trk.coeffs
		drive, mode, bits = trk.drive, trk.distMode, trk.bitDepth
	}

	s = distort(s, drive, mode)
	if filter != FilterNone && filter != FilterScratch && filter != FilterTurntablism {
		y := coeffs.b0*s + vx.filtState.x1
		vx.filtState.x1 = coeffs.b1*s - coeffs.a1*y + vx.filtState.x2
		vx.filtState.x2 = coeffs.b2*s - coeffs.a2*y
		s = y
	}
	s = bitCrush(s, bits)

	return s * vx.gainL, s * vx.gainR
}

// renderVinylVoice replaces the normal advance with scratch or turntablism
// motion. The sample wraps around its full length and the voice stays
// alive until stopped.
func (e *Engine) renderVinylVoice(vx *voice, smp *sample, p *padState) (float32, float32) {
	fLen := float32(smp.length)

	var adv, cutoff float32
	var crackle, gateOff bool
	if p.scratch.on {
		adv, cutoff = p.scratch.advance(e.sampleRate)
		crackle = true
	} else {
		adv, cutoff, crackle, gateOff = p.turn.advance(e.sampleRate)
	}

	vx.pos += adv
	for vx.pos >= fLen {
		vx.pos -= fLen
	}
	for vx.pos < 0 {
		vx.pos += fLen
	}

	idx := uint32(vx.pos)
	if idx >= smp.length {
		idx = smp.length - 1
	}
	s := float32(smp.buf[idx]) / 32768

	if gateOff {
		s = 0
	} else if p.scratch.on {
		s = p.scratch.shape(s, cutoff, e.sampleRate)
	} else {
		s = p.turn.shape(s, cutoff, e.sampleRate, crackle)
	}

	return s * vx.gainL, s * vx.gainR
}

func floatToInt16(x float32) int16 {
	v := int32(x * 32768)
	if v > 32767 {
		v = 32767
	}
	if v < -32768 {
		v = -32768
	}
	return int16(v)
}

func max2(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
