package audio

import "math"

// FilterType selects one of the cookbook biquad responses. Scratch and
// turntablism are named filter variants that replace voice advance entirely
// instead of running the biquad (see pad.go).
type FilterType uint8

const (
	FilterNone FilterType = iota
	FilterLowpass
	FilterHighpass
	FilterBandpass
	FilterNotch
	FilterAllpass
	FilterPeaking
	FilterLowShelf
	FilterHighShelf
	FilterResonant
	FilterScratch
	FilterTurntablism
)

func (t FilterType) String() string {
	switch t {
	case FilterNone:
		return "none"
	case FilterLowpass:
		return "lowpass"
	case FilterHighpass:
		return "highpass"
	case FilterBandpass:
		return "bandpass"
	case FilterNotch:
		return "notch"
	case FilterAllpass:
		return "allpass"
	case FilterPeaking:
		return "peaking"
	case FilterLowShelf:
		return "lowshelf"
	case FilterHighShelf:
		return "highshelf"
	case FilterResonant:
		return "resonant"
	case FilterScratch:
		return "scratch"
	case FilterTurntablism:
		return "turntablism"
	default:
		return "unknown"
	}
}

type biquadCoeffs struct {
	b0, b1, b2, a1, a2 float32
}

type biquadState struct {
	x1, x2 float32
}

// biquad is a two-pole two-zero IIR section processed in Direct Form II
// Transposed. Coefficients follow the Audio EQ Cookbook, normalized by a0.
type biquad struct {
	typ    FilterType
	coeffs biquadCoeffs
	state  biquadState
}

// clear zeroes the filter state. Must be called whenever a filter is
// reconfigured or removed so no residual ringing leaks into the next use.
func (b *biquad) clear() {
	b.state = biquadState{}
}

func (b *biquad) set(typ FilterType, cutoff, q, gainDB, sampleRate float32) {
	b.typ = typ
	b.coeffs = cookbookCoeffs(typ, cutoff, q, gainDB, sampleRate)
}

func (b *biquad) process(x float32) float32 {
	y := b.coeffs.b0*x + b.state.x1
	b.state.x1 = b.coeffs.b1*x - b.coeffs.a1*y + b.state.x2
	b.state.x2 = b.coeffs.b2*x - b.coeffs.a2*y
	return y
}

// cookbookCoeffs derives the normalized coefficients for the named filter
// type. a0 is computed once and divided through all five taps.
func cookbookCoeffs(typ FilterType, cutoff, q, gainDB, sampleRate float32) biquadCoeffs {
	if cutoff < 20 {
		cutoff = 20
	}
	if max := sampleRate * 0.45; cutoff > max {
		cutoff = max
	}
	if q < 0.3 {
		q = 0.3
	}

	omega := 2 * math.Pi * float64(cutoff) / float64(sampleRate)
	sn := float32(math.Sin(omega))
	cs := float32(math.Cos(omega))
	alpha := sn / (2 * q)
	bigA := float32(math.Pow(10, float64(gainDB)/40))

	var c biquadCoeffs
	a0 := 1 + alpha

	switch typ {
	case FilterLowpass, FilterResonant:
		c.b0 = (1 - cs) / 2
		c.b1 = 1 - cs
		c.b2 = (1 - cs) / 2
		c.a1 = -2 * cs
		c.a2 = 1 - alpha
	case FilterHighpass:
		c.b0 = (1 + cs) / 2
		c.b1 = -(1 + cs)
		c.b2 = (1 + cs) / 2
		c.a1 = -2 * cs
		c.a2 = 1 - alpha
	case FilterBandpass:
		c.b0 = alpha
		c.b1 = 0
		c.b2 = -alpha
		c.a1 = -2 * cs
		c.a2 = 1 - alpha
	case FilterNotch:
		c.b0 = 1
		c.b1 = -2 * cs
		c.b2 = 1
		c.a1 = -2 * cs
		c.a2 = 1 - alpha
	case FilterAllpass:
		c.b0 = 1 - alpha
		c.b1 = -2 * cs
		c.b2 = 1 + alpha
		c.a1 = -2 * cs
		c.a2 = 1 - alpha
	case FilterPeaking:
		c.b0 = 1 + alpha*bigA
		c.b1 = -2 * cs
		c.b2 = 1 - alpha*bigA
		c.a1 = -2 * cs
		c.a2 = 1 - alpha/bigA
		a0 = 1 + alpha/bigA
	case FilterLowShelf:
		sq := 2 * float32(math.Sqrt(float64(bigA))) * alpha
		c.b0 = bigA * ((bigA + 1) - (bigA-1)*cs + sq)
		c.b1 = 2 * bigA * ((bigA - 1) - (bigA+1)*cs)
		c.b2 = bigA * ((bigA + 1) - (bigA-1)*cs - sq)
		c.a1 = -2 * ((bigA - 1) + (bigA+1)*cs)
		c.a2 = (bigA + 1) + (bigA-1)*cs - sq
		a0 = (bigA + 1) + (bigA-1)*cs + sq
	case FilterHighShelf:
		sq := 2 * float32(math.Sqrt(float64(bigA))) * alpha
		c.b0 = bigA * ((bigA + 1) + (bigA-1)*cs + sq)
		c.b1 = -2 * bigA * ((bigA - 1) + (bigA+1)*cs)
		c.b2 = bigA * ((bigA + 1) + (bigA-1)*cs - sq)
		c.a1 = 2 * ((bigA - 1) - (bigA+1)*cs)
		c.a2 = (bigA + 1) - (bigA-1)*cs + sq
		a0 = (bigA + 1) - (bigA-1)*cs + sq
	default:
		return biquadCoeffs{b0: 1}
	}

	inv := 1 / a0
	c.b0 *= inv
	c.b1 *= inv
	c.b2 *= inv
	c.a1 *= inv
	c.a2 *= inv
	return c
}

// onePole is a single-state smoothing filter. alpha = fc / (fc + sr/(2*pi)).
type onePole struct {
	state float32
}

func onePoleAlpha(cutoff, sampleRate float32) float32 {
	return cutoff / (cutoff + sampleRate*0.159155)
}

func (o *onePole) lowpass(x, alpha float32) float32 {
	o.state += alpha * (x - o.state)
	return o.state
}

func (o *onePole) highpass(x, alpha float32) float32 {
	o.state += alpha * (x - o.state)
	return x - o.state
}
