// Package demo plays the scripted three-minute program that ships in the
// firmware: sections enter on exact sample boundaries, parameters automate
// linearly, and the whole thing loops until the first real command arrives.
package demo

import (
	"github.com/atane/drumcore/synth"
)

// autoParam interpolates linearly from start to end over a sample window.
type autoParam struct {
	start, end float32
	current    float32
	startAt    uint32
	duration   uint32
	active     bool
}

func (a *autoParam) set(from, to float32, start, duration uint32) {
	a.start, a.end = from, to
	a.current = from
	a.startAt = start
	a.duration = duration
	a.active = true
}

func (a *autoParam) update(now uint32) float32 {
	if !a.active {
		return a.current
	}
	if now < a.startAt {
		a.current = a.start
		return a.current
	}
	if a.duration == 0 {
		a.current = a.end
		a.active = false
		return a.current
	}
	t := float32(now-a.startAt) / float32(a.duration)
	if t >= 1 {
		t = 1
		a.active = false
	}
	a.current = a.start + (a.end-a.start)*t
	return a.current
}

// acidStep is one slot of the 16-step bass line. Note 0 is a tie.
type acidStep struct {
	note    int
	accent  bool
	slide   bool
	noteOff bool
}

// The classic pattern in Am.
var acidPattern = [16]acidStep{
	{36, false, false, false},
	{0, false, false, false},
	{36, false, false, true},
	{39, true, false, false},
	{36, false, true, false},
	{0, false, false, false},
	{48, true, false, true},
	{36, false, false, false},
	{43, false, false, false},
	{0, false, false, false},
	{41, true, true, false},
	{36, false, true, false},
	{0, false, false, true},
	{36, false, false, false},
	{44, true, false, true},
	{36, false, false, false},
}

// Sequencer drives the math-synth kits through the 180-second script:
// kick at 0:00, snare 0:15, hats 0:25, acid 0:40, filter sweep 1:00,
// morph 1:30 (BPM 90→145, swing out, kick crossfade 808→909, cutoff to
// 4 kHz), detroit 2:10, fade 2:50, reset at 3:00.
type Sequencer struct {
	sr     float32
	kit808 *synth.Kit808
	kit909 *synth.Kit909
	acid   *synth.TB303

	globalSample uint32
	stepCounter  uint32
	acidStep     int
	nextTrigger  uint32
	nextAcid     uint32
	stepLen      uint32

	bpm        float32
	swing      float32
	kickMix808 float32
	kickMix909 float32
	fadeGain   float32

	kickOn, snareOn, hihatOn, acidOn bool
	sweepOn, morphOn, detroitOn      bool
	fadeOut                          bool

	autoSweep, autoMorph, autoFade autoParam
	autoBpm, autoSwing             autoParam
	autoKick808, autoKick909       autoParam

	sec15, sec25, sec40, sec60    uint32
	sec90, sec130, sec170, sec180 uint32
}

func NewSequencer(sampleRate float32, kit808 *synth.Kit808, kit909 *synth.Kit909, acid *synth.TB303) *Sequencer {
	s := &Sequencer{
		sr:     sampleRate,
		kit808: kit808,
		kit909: kit909,
		acid:   acid,
	}
	s.Reset()
	return s
}

func (s *Sequencer) secSamples(sec float32) uint32 {
	return uint32(sec * s.sr)
}

// Reset rewinds to 0:00 and restores the opening sound.
func (s *Sequencer) Reset() {
	s.globalSample = 0
	s.stepCounter = 0
	s.acidStep = 0
	s.nextTrigger = 0
	s.nextAcid = 0
	s.fadeGain = 1

	s.bpm = 90
	s.swing = 0.56
	s.kickMix808 = 1
	s.kickMix909 = 0

	s.kickOn, s.snareOn, s.hihatOn, s.acidOn = false, false, false, false
	s.sweepOn, s.morphOn, s.detroitOn, s.fadeOut = false, false, false, false

	s.autoSweep.active = false
	s.autoMorph.active = false
	s.autoFade.active = false
	s.autoBpm.active = false
	s.autoSwing.active = false
	s.autoKick808.active = false
	s.autoKick909.active = false

	if s.acid != nil {
		s.acid.SetParam(0, synth.Param303Cutoff, 200)
		s.acid.SetParam(0, synth.Param303Resonance, 0.7)
		s.acid.SetParam(0, synth.Param303EnvMod, 0.4)
		s.acid.SetParam(0, synth.Param303Decay, 0.2)
		s.acid.SetParam(0, synth.Param303Accent, 0.6)
		s.acid.SetParam(0, synth.Param303Waveform, 0)
		s.acid.SetParam(0, synth.Param303Volume, 0.6)
	}
	if s.kit808 != nil {
		s.kit808.Kick.Volume = 0.85
		s.kit808.Snare.Volume = 0.7
		s.kit808.HiHatC.Volume = 0.45
		s.kit808.HiHatO.Volume = 0.4
	}
	if s.kit909 != nil {
		s.kit909.Kick.Volume = 0
	}

	s.sec15 = s.secSamples(15)
	s.sec25 = s.secSamples(25)
	s.sec40 = s.secSamples(40)
	s.sec60 = s.secSamples(60)
	s.sec90 = s.secSamples(90)
	s.sec130 = s.secSamples(130)
	s.sec170 = s.secSamples(170)
	s.sec180 = s.secSamples(180)

	s.recalcStepLen()
}

// recalcStepLen derives the sixteenth-note length from the current BPM.
func (s *Sequencer) recalcStepLen() {
	s.stepLen = uint32(s.sr * 60 / (s.bpm * 4))
	if s.stepLen < 1 {
		s.stepLen = 1
	}
}

// TickFrame runs one sample of the script and returns the fade gain for
// the synth mix. Implements the engine's FrameTicker contract.
func (s *Sequencer) TickFrame() float32 {
	g := s.globalSample

	switch {
	case g == 0:
		s.kickOn = true
	case g == s.sec15:
		s.snareOn = true
	case g == s.sec25:
		s.hihatOn = true
	case g == s.sec40:
		s.acidOn = true
		if s.acid != nil {
			s.acid.SetParam(0, synth.Param303Cutoff, 200)
			s.acid.SetParam(0, synth.Param303Resonance, 0.7)
		}
	case g == s.sec60:
		s.sweepOn = true
		s.autoSweep.set(200, 3000, g, s.secSamples(30))
	case g == s.sec90:
		s.morphOn = true
		dur := s.secSamples(40)
		s.autoBpm.set(90, 145, g, dur)
		s.autoSwing.set(0.56, 0, g, dur)
		s.autoKick808.set(1, 0, g, dur)
		s.autoKick909.set(0, 1, g, dur)
		s.autoMorph.set(200, 4000, g, dur)
	case g == s.sec130:
		s.detroitOn = true
		s.morphOn = false
		s.bpm = 145
		s.swing = 0
		s.kickMix808 = 0
		s.kickMix909 = 1
		if s.acid != nil {
			s.acid.SetParam(0, synth.Param303Cutoff, 4000)
		}
		s.recalcStepLen()
	case g == s.sec170:
		s.fadeOut = true
		s.autoFade.set(1, 0, g, s.secSamples(10))
	}

	if g >= s.sec180 {
		if s.acid != nil {
			s.acid.NoteOff()
		}
		s.Reset()
		return 0
	}

	if s.sweepOn && s.autoSweep.active {
		if c := s.autoSweep.update(g); s.acid != nil {
			s.acid.SetParam(0, synth.Param303Cutoff, c)
		}
	}
	if s.morphOn {
		if s.autoBpm.active {
			s.bpm = s.autoBpm.update(g)
			s.recalcStepLen()
		}
		if s.autoSwing.active {
			s.swing = s.autoSwing.update(g)
		}
		if s.autoKick808.active {
			s.kickMix808 = s.autoKick808.update(g)
			if s.kit808 != nil {
				s.kit808.Kick.Volume = 0.85 * s.kickMix808
			}
		}
		if s.autoKick909.active {
			s.kickMix909 = s.autoKick909.update(g)
			if s.kit909 != nil {
				s.kit909.Kick.Volume = 0.85 * s.kickMix909
			}
		}
		if s.autoMorph.active {
			if c := s.autoMorph.update(g); s.acid != nil {
				s.acid.SetParam(0, synth.Param303Cutoff, c)
			}
		}
	}
	if s.fadeOut && s.autoFade.active {
		s.fadeGain = s.autoFade.update(g)
	}

	if g >= s.nextTrigger {
		step := s.stepCounter % 16

		if s.kickOn && step%4 == 0 {
			if s.kickMix808 > 0.01 && s.kit808 != nil {
				s.kit808.Trigger(synth.Inst808Kick, 0.9)
			}
			if s.kickMix909 > 0.01 && s.kit909 != nil {
				s.kit909.Trigger(synth.Inst909Kick, 0.9)
			}
		}
		if s.snareOn && (step == 4 || step == 12) && s.kit808 != nil {
			s.kit808.Trigger(synth.Inst808Snare, 0.85)
		}
		if s.hihatOn && s.kit808 != nil {
			if step%4 == 2 {
				s.kit808.Trigger(synth.Inst808HiHatO, 0.6)
			} else {
				s.kit808.Trigger(synth.Inst808HiHatC, 0.55)
			}
		}
		if s.detroitOn && s.kit909 != nil {
			if step == 4 || step == 12 {
				s.kit909.Trigger(synth.Inst909Snare, 0.8)
			}
			if step%2 == 0 {
				s.kit909.Trigger(synth.Inst909HiHatC, 0.5)
			}
			if step == 4 {
				s.kit909.Trigger(synth.Inst909Clap, 0.6)
			}
		}

		s.stepCounter++
		baseLen := s.stepLen
		if s.stepCounter%2 == 1 {
			// Odd sixteenths are delayed by the swing amount.
			swingAmt := (s.swing - 0.5) * 2
			if swingAmt < 0 {
				swingAmt = 0
			}
			s.nextTrigger = g + baseLen + uint32(float32(baseLen)*swingAmt)
		} else {
			s.nextTrigger = g + baseLen
		}
	}

	if s.acidOn && g >= s.nextAcid {
		st := acidPattern[s.acidStep%16]
		if s.acid != nil {
			if st.noteOff {
				s.acid.NoteOff()
			}
			if st.note > 0 {
				s.acid.NoteOn(st.note, st.accent, st.slide)
			}
		}
		s.acidStep++
		s.nextAcid = g + s.stepLen
	}

	s.globalSample++
	return s.fadeGain
}

// Running reports whether the script has samples left before its reset.
func (s *Sequencer) Running() bool {
	return s.globalSample < s.sec180
}
