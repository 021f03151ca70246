package audio

import (
	"math"
	"testing"
)

func TestBiquadClearRestoresFreshOutput(t *testing.T) {
	input := make([]float32, 64)
	for i := range input {
		input[i] = float32(math.Sin(float64(i) * 0.3))
	}

	var fresh biquad
	fresh.set(FilterLowpass, 1000, 0.707, 0, 44100)
	want := make([]float32, len(input))
	for i, x := range input {
		want[i] = fresh.process(x)
	}

	var used biquad
	used.set(FilterLowpass, 1000, 0.707, 0, 44100)
	for _, x := range input {
		used.process(x)
	}
	used.clear()
	for i, x := range input {
		if got := used.process(x); got != want[i] {
			t.Fatalf("sample %d: cleared filter diverges: want %v, got %v", i, want[i], got)
		}
	}
}

func TestCookbookLowpassPassesDC(t *testing.T) {
	var f biquad
	f.set(FilterLowpass, 1000, 0.707, 0, 44100)
	var out float32
	for i := 0; i < 5000; i++ {
		out = f.process(1)
	}
	if out < 0.99 || out > 1.01 {
		t.Errorf("lowpass DC gain: want ~1, got %v", out)
	}
}

func TestCookbookHighpassBlocksDC(t *testing.T) {
	var f biquad
	f.set(FilterHighpass, 1000, 0.707, 0, 44100)
	var out float32
	for i := 0; i < 5000; i++ {
		out = f.process(1)
	}
	if abs32(out) > 0.01 {
		t.Errorf("highpass DC leak: got %v", out)
	}
}

func TestCookbookCoeffsClampEdges(t *testing.T) {
	low := cookbookCoeffs(FilterLowpass, 1, 0.707, 0, 44100)
	clamped := cookbookCoeffs(FilterLowpass, 20, 0.707, 0, 44100)
	if low != clamped {
		t.Error("cutoff below 20 Hz should clamp to 20 Hz")
	}
	hi := cookbookCoeffs(FilterLowpass, 40000, 0.707, 0, 44100)
	atNyq := cookbookCoeffs(FilterLowpass, 44100*0.45, 0.707, 0, 44100)
	if hi != atNyq {
		t.Error("cutoff above 0.45*sr should clamp")
	}
}

func TestBitCrushIdentityAt16Bits(t *testing.T) {
	for _, v := range []float32{-0.9, -0.1, 0, 0.25, 0.7} {
		if got := bitCrush(v, 16); got != v {
			t.Errorf("bitCrush(%v, 16): want identity, got %v", v, got)
		}
	}
}

func TestBitCrushFourBitsLimitsValues(t *testing.T) {
	seen := make(map[float32]bool)
	for i := -32768; i < 32768; i += 17 {
		v := float32(i) / 32768
		seen[bitCrush(v, 4)] = true
	}
	if len(seen) > 16 {
		t.Errorf("4-bit crush: want at most 16 distinct values, got %d", len(seen))
	}
}

func TestDistortInactiveBelowThreshold(t *testing.T) {
	if got := distort(0.5, 0, DistSoft); got != 0.5 {
		t.Errorf("zero drive should pass through, got %v", got)
	}
}

func TestDistortModesStayBounded(t *testing.T) {
	for _, mode := range []DistortionMode{DistSoft, DistHard, DistTube, DistFuzz} {
		for _, x := range []float32{-2, -1, -0.5, 0.5, 1, 2} {
			got := distort(x, 1, mode)
			if got < -1.5 || got > 1.5 {
				t.Errorf("mode %d input %v: out of range output %v", mode, x, got)
			}
		}
	}
}

func TestSoftClipKneeLinearRegion(t *testing.T) {
	for _, x := range []float32{-0.89, -0.5, 0, 0.5, 0.89} {
		if got := softClipKnee(x); got != x {
			t.Errorf("softClipKnee(%v): want identity inside knee, got %v", x, got)
		}
	}
	if got := softClipKnee(5); got > 1 {
		t.Errorf("softClipKnee(5) should stay under 1, got %v", got)
	}
	if got := softClipKnee(-5); got < -1 {
		t.Errorf("softClipKnee(-5) should stay above -1, got %v", got)
	}
}

func TestOnePoleAlphaFormula(t *testing.T) {
	alpha := onePoleAlpha(1000, 44100)
	want := float32(1000.0 / (1000.0 + 44100.0*0.159155))
	if diff := alpha - want; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("alpha: want %v, got %v", want, alpha)
	}
}
