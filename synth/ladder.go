package synth

// ladder is the 4-stage tanh-saturating cascade behind the acid bass:
// each stage is a soft one-pole, feedback is resonance times four, and the
// output taps stage four.
type ladder struct {
	stage [4]float32
	delay [4]float32
	sr    float32
}

func (l *ladder) init(sr float32) {
	l.sr = sr
	for i := range l.stage {
		l.stage[i] = 0
		l.delay[i] = 0
	}
}

func (l *ladder) process(input, fc, res float32) float32 {
	f := 2 * fc / l.sr
	if f > 0.99 {
		f = 0.99
	}
	// Tuning compensation for the one-pole approximation.
	g := f * (1 + f*(-0.25))

	fb := res * 4
	comp := 1 / (1 + fb*0.25)

	in := (input - fb*l.delay[3]) * comp
	in = tanh32(in)

	for i := 0; i < 4; i++ {
		prev := in
		if i > 0 {
			prev = l.stage[i-1]
		}
		l.stage[i] = l.delay[i] + g*(tanh32(prev)-tanh32(l.delay[i]))
		l.delay[i] = l.stage[i]
	}
	return l.stage[3]
}
