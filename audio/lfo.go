package audio

import "math"

const lfoTableSize = 256

// lfoSineTable is computed once at startup and shared read-only by every
// LFO instance.
var lfoSineTable [lfoTableSize]float32

func init() {
	for i := range lfoSineTable {
		lfoSineTable[i] = float32(math.Sin(2 * math.Pi * float64(i) / lfoTableSize))
	}
}

type lfoWaveform uint8

const (
	lfoSine lfoWaveform = iota
	lfoTriangle
	lfoSawtooth
)

// lfo is a 32-bit phase-accumulator oscillator. Sine comes from the shared
// 256-entry table indexed by the top 8 bits of phase; triangle and sawtooth
// derive from the top 16 bits.
type lfo struct {
	phase    uint32
	phaseInc uint32
	depth    float32
	waveform lfoWaveform
}

func (l *lfo) setRate(rateHz, sampleRate float32) {
	// 64-bit intermediate so rates near Nyquist don't overflow.
	l.phaseInc = uint32(float64(rateHz) * 4294967296.0 / float64(sampleRate))
}

// tick advances the phase and returns a value in [-depth, +depth].
func (l *lfo) tick() float32 {
	l.phase += l.phaseInc
	switch l.waveform {
	case lfoSine:
		return lfoSineTable[l.phase>>24] * l.depth
	case lfoTriangle:
		t := float32(l.phase>>16) / 65536.0
		var tri float32
		if t < 0.5 {
			tri = 4.0*t - 1.0
		} else {
			tri = 3.0 - 4.0*t
		}
		return tri * l.depth
	case lfoSawtooth:
		return (2.0*float32(l.phase>>16)/65536.0 - 1.0) * l.depth
	default:
		return 0
	}
}

// tickUnipolar maps the bipolar output to [0, depth] for sweep-style uses.
func (l *lfo) tickUnipolar() float32 {
	return (l.tick() + l.depth) * 0.5
}
