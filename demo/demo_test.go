package demo

import (
	"testing"

	"github.com/atane/drumcore/synth"
)

func testSequencer() *Sequencer {
	kit808 := synth.NewKit808()
	kit808.Init(44100)
	kit909 := synth.NewKit909()
	kit909.Init(44100)
	acid := synth.NewTB303()
	acid.Init(44100)
	return NewSequencer(44100, kit808, kit909, acid)
}

func TestStepLengthFormula(t *testing.T) {
	s := testSequencer()
	// 90 BPM: sixteenth = sr*60/(90*4).
	want := uint32(44100 * 60 / (90 * 4))
	if s.stepLen != want {
		t.Errorf("step length at 90 BPM: want %d, got %d", want, s.stepLen)
	}
}

func TestSectionsFireAtBoundaries(t *testing.T) {
	s := testSequencer()
	if !s.kickOn {
		s.TickFrame()
	}
	if !s.kickOn {
		t.Fatal("kick section should start at sample 0")
	}

	// Jump just before the snare boundary and cross it.
	s.globalSample = s.sec15 - 1
	s.TickFrame()
	if s.snareOn {
		t.Error("snare must not start before 15 s")
	}
	s.TickFrame()
	if !s.snareOn {
		t.Error("snare should start exactly at 15 s")
	}

	s.globalSample = s.sec90
	s.TickFrame()
	if !s.morphOn {
		t.Error("morph should start at 90 s")
	}
	if !s.autoBpm.active || s.autoBpm.end != 145 {
		t.Error("morph should automate BPM toward 145")
	}
}

func TestMorphReachesDetroitState(t *testing.T) {
	s := testSequencer()
	s.globalSample = s.sec130
	s.TickFrame()
	if !s.detroitOn || s.morphOn {
		t.Error("detroit section should replace morph at 130 s")
	}
	if s.bpm != 145 || s.swing != 0 {
		t.Errorf("detroit tempo: want 145/no swing, got %v/%v", s.bpm, s.swing)
	}
	if s.kickMix808 != 0 || s.kickMix909 != 1 {
		t.Error("kick crossfade should complete at detroit")
	}
}

func TestResetAtEndOfProgram(t *testing.T) {
	s := testSequencer()
	s.globalSample = s.sec180
	gain := s.TickFrame()
	if gain != 0 {
		t.Errorf("boundary frame should return zero gain, got %v", gain)
	}
	if s.globalSample != 0 || s.bpm != 90 || s.swing != 0.56 {
		t.Error("sequencer should rewind to the opening state")
	}
}

func TestSwingDelaysOddSixteenths(t *testing.T) {
	s := testSequencer()
	// First trigger fires at sample 0; stepCounter becomes 1 (odd), so the
	// next step is delayed by (swing-0.5)*2 of the base length.
	s.TickFrame()
	base := s.stepLen
	swingAmt := (s.swing - 0.5) * 2
	wantDelay := uint32(float32(base) * swingAmt)
	if got := s.nextTrigger; got != base+wantDelay {
		t.Errorf("swung step: want %d, got %d", base+wantDelay, got)
	}
}

func TestAutoParamInterpolation(t *testing.T) {
	var a autoParam
	a.set(100, 200, 1000, 1000)
	if got := a.update(500); got != 100 {
		t.Errorf("before window: want start value, got %v", got)
	}
	if got := a.update(1500); got != 150 {
		t.Errorf("midpoint: want 150, got %v", got)
	}
	if got := a.update(2500); got != 200 {
		t.Errorf("after window: want end value, got %v", got)
	}
	if a.active {
		t.Error("param should deactivate at the end of its window")
	}
}
