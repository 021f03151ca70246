package audio

// voice is one playing instance of a pad sample. The biquad state is per
// voice so overlapping hits on the same pad filter independently.
type voice struct {
	active    bool
	live      bool
	pad       int
	pos       float32
	speed     float32
	gainL     float32
	gainR     float32
	age       uint32
	maxLength uint32
	filtState biquadState
}

// ageBefore compares voice ages as a signed difference so the ordering
// survives 32-bit counter wraparound.
func ageBefore(a, b uint32) bool {
	return int32(a-b) < 0
}

// findVoice returns a free slot, or steals the active voice with the
// lowest age. Equal ages prefer a victim already playing the same pad.
func (e *Engine) findVoice(pad int) *voice {
	for i := range e.voices {
		if !e.voices[i].active {
			return &e.voices[i]
		}
	}
	best := &e.voices[0]
	for i := 1; i < len(e.voices); i++ {
		v := &e.voices[i]
		if ageBefore(v.age, best.age) {
			best = v
		} else if v.age == best.age && v.pad == pad && best.pad != pad {
			best = v
		}
	}
	return best
}

// TriggerLive starts a live pad hit. Live voices play the full sample and
// use the live volume and pitch.
func (e *Engine) TriggerLive(pad int, velocity uint8) {
	e.trigger(Trigger{Pad: pad, Velocity: velocity, Live: true})
}

// TriggerSequencer starts a sequencer hit with per-step volume, note pan
// and an optional note length in samples (0 = full sample).
func (e *Engine) TriggerSequencer(pad int, velocity, trackVol uint8, pan int8, maxSamples uint32) {
	e.trigger(Trigger{Pad: pad, Velocity: velocity, TrackVol: trackVol, Pan: pan, MaxSamples: maxSamples})
}

// EnqueueTrigger queues a trigger from the control context; the render
// loop consumes it at the next block start. A full queue drops the
// trigger.
func (e *Engine) EnqueueTrigger(t Trigger) bool {
	return e.triggers.push(t)
}

func (e *Engine) trigger(t Trigger) {
	if t.Pad < 0 || t.Pad >= e.cfg.MaxPads {
		return
	}
	s := &e.samples[t.Pad]
	if !s.loaded || s.length == 0 {
		return
	}

	if !t.Live && t.Pad < e.cfg.MaxTracks {
		e.sidechain.noteTrigger(t.Pad, t.Velocity, e.sampleRate)
	}

	v := e.findVoice(t.Pad)
	p := &e.pads[t.Pad]

	// Live pads get a 1.2x boost over sequenced hits so they cut through
	// a running pattern.
	var vol float32
	if t.Live {
		vol = e.liveVolume * 1.2
	} else {
		vol = e.seqVolume * float32(t.TrackVol) / 100
	}
	gain := float32(t.Velocity) / 127 * vol
	if t.Pad < e.cfg.MaxTracks {
		gain *= e.tracks[t.Pad].gain
	}

	panF := float32(t.Pan) / 100
	if t.Pad < e.cfg.MaxTracks {
		panF += e.tracks[t.Pad].pan
	}
	panF = clampF(panF, -1, 1)

	v.active = true
	v.live = t.Live
	v.pad = t.Pad
	v.speed = p.pitch
	if t.Live && p.pitch == 1.0 {
		v.speed = e.livePitch
	}
	v.maxLength = t.MaxSamples
	if s.reversed {
		v.pos = float32(s.length - 1)
	} else {
		v.pos = 0
	}
	v.gainL = gain * (1 - clampF(panF, 0, 1))
	v.gainR = gain * (1 + clampF(panF, -1, 0))
	e.voiceAge++
	v.age = e.voiceAge
	v.filtState = biquadState{}
}

// StopPad deactivates every voice playing the given pad.
func (e *Engine) StopPad(pad int) {
	for i := range e.voices {
		if e.voices[i].active && e.voices[i].pad == pad {
			e.voices[i].active = false
		}
	}
}

// StopAll deactivates every voice immediately.
func (e *Engine) StopAll() {
	for i := range e.voices {
		e.voices[i].active = false
	}
}

// ActiveVoices counts currently playing voices.
func (e *Engine) ActiveVoices() int {
	n := 0
	for i := range e.voices {
		if e.voices[i].active {
			n++
		}
	}
	return n
}

// effectiveLength limits playback to the note length when one is set.
func (v *voice) effectiveLength(sampleLen uint32) uint32 {
	if v.maxLength > 0 && v.maxLength < sampleLen {
		return v.maxLength
	}
	return sampleLen
}
