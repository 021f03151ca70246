package synth

// TR-909 instrument indices.
const (
	Inst909Kick = iota
	Inst909Snare
	Inst909Clap
	Inst909HiHatC
	Inst909HiHatO
)

// kick909 is punchier than the 808: faster pitch sweep, harder
// saturation, a sharper click.
type kick909 struct {
	Decay      float32
	Pitch      float32
	PitchDecay float32
	Volume     float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
}

func (k *kick909) init(sr float32) {
	k.sr, k.dt = sr, 1/sr
	k.Decay, k.Pitch, k.PitchDecay, k.Volume = 0.3, 48, 0.04, 1
	k.active = false
}

func (k *kick909) trigger(vel float32) {
	k.active = true
	k.time = 0
	k.osc.phase = 0
	k.vel = clamp(vel, 0, 1)
}

func (k *kick909) process() float32 {
	if !k.active {
		return 0
	}
	pitch := k.Pitch + k.Pitch*12*exp32(-k.time/k.PitchDecay)
	sine := sin32(twoPi * k.osc.tick(pitch, k.dt))
	click := exp32(-k.time/0.002) * 0.5
	amp := exp32(-k.time / k.Decay)
	out := tanh32((sine + click) * 2.2)
	k.time += k.dt
	if amp < 0.001 {
		k.active = false
	}
	return out * amp * k.Volume * k.vel
}

// snare909 leans harder on noise than the 808 snare.
type snare909 struct {
	Decay  float32
	Tone   float32
	Snappy float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
	rng    noise
	bp     bandpass
}

func (s *snare909) init(sr float32) {
	s.sr, s.dt = sr, 1/sr
	s.Decay, s.Tone, s.Snappy, s.Volume = 0.18, 0.4, 0.7, 1
	s.active = false
	s.rng.state = 0x909A5A5A
}

func (s *snare909) trigger(vel float32) {
	s.active = true
	s.time = 0
	s.osc.phase = 0
	s.vel = clamp(vel, 0, 1)
	s.bp = bandpass{}
}

func (s *snare909) process() float32 {
	if !s.active {
		return 0
	}
	tone := sin32(twoPi*s.osc.tick(200, s.dt)) * exp32(-s.time/(s.Decay*0.4)) * s.Tone
	n := s.rng.next()
	filtered := s.bp.process(n, 6500, 1.1, s.sr)
	noiseOut := filtered * exp32(-s.time/s.Decay) * s.Snappy

	out := tanh32((tone + noiseOut) * 1.8)
	s.time += s.dt
	if exp32(-s.time/s.Decay) < 0.001 {
		s.active = false
	}
	return out * s.Volume * s.vel
}

// Kit909 is the TR-909 voice set the morph section crossfades to.
type Kit909 struct {
	Kick   kick909
	Snare  snare909
	Clap   clap808
	HiHatC hihat808
	HiHatO hihat808
}

func NewKit909() *Kit909 { return &Kit909{} }

func (k *Kit909) Init(sr float32) {
	k.Kick.init(sr)
	k.Snare.init(sr)
	k.Clap.init(sr)
	k.Clap.Tone = 0.7
	k.HiHatC.init(sr, false)
	k.HiHatC.Decay = 0.06
	k.HiHatO.init(sr, true)
}

func (k *Kit909) Trigger(inst int, vel float32) {
	switch inst {
	case Inst909Kick:
		k.Kick.trigger(vel)
	case Inst909Snare:
		k.Snare.trigger(vel)
	case Inst909Clap:
		k.Clap.trigger(vel)
	case Inst909HiHatC:
		k.HiHatC.trigger(vel)
		k.HiHatO.choke()
	case Inst909HiHatO:
		k.HiHatO.trigger(vel)
	}
}

func (k *Kit909) Process() float32 {
	return k.Kick.process() + k.Snare.process() + k.Clap.process() +
		k.HiHatC.process() + k.HiHatO.process()
}

func (k *Kit909) SetParam(inst, param int, val float32) {
	switch inst {
	case Inst909Kick:
		switch param {
		case ParamDecay:
			k.Kick.Decay = clamp(val, 0.05, 1)
		case ParamPitch:
			k.Kick.Pitch = clamp(val, 30, 120)
		case ParamVolume:
			k.Kick.Volume = clamp(val, 0, 1)
		}
	case Inst909Snare:
		switch param {
		case ParamDecay:
			k.Snare.Decay = clamp(val, 0.05, 1)
		case ParamTone:
			k.Snare.Tone = clamp(val, 0, 1)
		case ParamVolume:
			k.Snare.Volume = clamp(val, 0, 1)
		case ParamSnappy:
			k.Snare.Snappy = clamp(val, 0, 1)
		}
	}
}

func (k *Kit909) NoteOn(note int, accent, slide bool) {}
func (k *Kit909) NoteOff()                            {}
