package synth

// TR-808 instrument indices for Trigger and SetParam.
const (
	Inst808Kick = iota
	Inst808Snare
	Inst808Clap
	Inst808HiHatC
	Inst808HiHatO
	Inst808LowTom
	Inst808MidTom
	Inst808HiTom
	Inst808LowConga
	Inst808MidConga
	Inst808HiConga
	Inst808Claves
	Inst808Maracas
	Inst808RimShot
	Inst808Cowbell
	Inst808Cymbal
)

// kick808 is the boom: a sine with exponential pitch drop, an attack
// click, and soft saturation.
type kick808 struct {
	Decay      float32
	Pitch      float32
	PitchDecay float32
	Attack     float32
	Saturation float32
	Volume     float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
}

func (k *kick808) init(sr float32) {
	k.sr, k.dt = sr, 1/sr
	k.Decay, k.Pitch, k.PitchDecay = 0.45, 55, 0.08
	k.Attack, k.Saturation, k.Volume = 0.005, 0.3, 1
	k.active = false
}

func (k *kick808) trigger(vel float32) {
	k.active = true
	k.time = 0
	k.osc.phase = 0
	k.vel = clamp(vel, 0, 1)
}

func (k *kick808) process() float32 {
	if !k.active {
		return 0
	}
	pitch := k.Pitch + k.Pitch*8*exp32(-k.time/k.PitchDecay)
	sine := sin32(twoPi * k.osc.tick(pitch, k.dt))
	click := exp32(-k.time/k.Attack) * sin32(twoPi*1200*k.time) * 0.3
	amp := exp32(-k.time / k.Decay)
	out := tanh32((sine + click) * (1 + k.Saturation*3))
	k.time += k.dt
	if amp < 0.001 {
		k.active = false
	}
	return out * amp * k.Volume * k.vel
}

// snare808 mixes two detuned sines with bandpassed noise.
type snare808 struct {
	Decay  float32
	Tone   float32
	Snappy float32
	Pitch  float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc1   phasor
	osc2   phasor
	vel    float32
	rng    noise
	bp     bandpass
}

func (s *snare808) init(sr float32) {
	s.sr, s.dt = sr, 1/sr
	s.Decay, s.Tone, s.Snappy, s.Pitch, s.Volume = 0.2, 0.5, 0.5, 180, 1
	s.active = false
	s.rng.state = 0xDEADBEEF
}

func (s *snare808) trigger(vel float32) {
	s.active = true
	s.time = 0
	s.osc1.phase = 0
	s.osc2.phase = 0
	s.vel = clamp(vel, 0, 1)
	s.bp = bandpass{}
}

func (s *snare808) process() float32 {
	if !s.active {
		return 0
	}
	t1 := sin32(twoPi * s.osc1.tick(s.Pitch, s.dt))
	t2 := sin32(twoPi * s.osc2.tick(s.Pitch*1.833, s.dt))
	toneEnv := exp32(-s.time / (s.Decay * 0.6))
	toneOut := (t1*0.6 + t2*0.4) * toneEnv * s.Tone

	n := s.rng.next()
	filtered := s.bp.process(n, 5000, 1.5, s.sr)
	filtered = n*0.3 + filtered*0.7
	noiseEnv := exp32(-s.time / s.Decay)
	noiseOut := filtered * noiseEnv * s.Snappy

	out := tanh32((toneOut + noiseOut) * 1.5)
	s.time += s.dt
	if noiseEnv < 0.001 {
		s.active = false
	}
	return out * s.Volume * s.vel
}

// clap808 fires four 7 ms noise bursts into a bandpass, then a tail.
type clap808 struct {
	Decay  float32
	Tone   float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	vel    float32
	rng    noise
	bp     bandpass
}

func (c *clap808) init(sr float32) {
	c.sr, c.dt = sr, 1/sr
	c.Decay, c.Tone, c.Volume = 0.3, 0.5, 1
	c.active = false
	c.rng.state = 0xCAFEBABE
}

func (c *clap808) trigger(vel float32) {
	c.active = true
	c.time = 0
	c.vel = clamp(vel, 0, 1)
	c.bp = bandpass{}
}

func (c *clap808) process() float32 {
	if !c.active {
		return 0
	}
	n := c.rng.next()

	const burstT = 0.007
	env := float32(0)
	for i := 0; i < 4; i++ {
		t := c.time - float32(i)*burstT
		if t >= 0 && t < burstT {
			env += exp32(-t/0.002) * 0.5
		}
	}
	if c.time >= 4*burstT {
		env += exp32(-(c.time - 4*burstT) / c.Decay)
	}

	out := c.bp.process(n, 1200+c.Tone*3000, 2, c.sr)
	out = tanh32(out * env * 2)
	c.time += c.dt
	if c.time > c.Decay+0.05 && env < 0.001 {
		c.active = false
	}
	return out * c.Volume * c.vel
}

// metalFreqs are the six inharmonic square frequencies of the original
// hi-hat circuit.
var metalFreqs = [6]float32{204, 298.5, 366.5, 522, 540, 800}

// hihat808 covers closed and open hats; open hats have a longer decay and
// can be choked.
type hihat808 struct {
	Decay  float32
	Volume float32
	open   bool

	sr, dt float32
	active bool
	time   float32
	vel    float32
	oscs   [6]phasor
	bp     bandpass
}

func (h *hihat808) init(sr float32, open bool) {
	h.sr, h.dt = sr, 1/sr
	h.open = open
	if open {
		h.Decay = 0.5
	} else {
		h.Decay = 0.08
	}
	h.Volume = 1
	h.active = false
}

func (h *hihat808) trigger(vel float32) {
	h.active = true
	h.time = 0
	h.vel = clamp(vel, 0, 1)
}

func (h *hihat808) choke() { h.active = false }

func (h *hihat808) process() float32 {
	if !h.active {
		return 0
	}
	var metal float32
	for i := range h.oscs {
		if h.oscs[i].tick(metalFreqs[i], h.dt) < 0.5 {
			metal += 1
		} else {
			metal -= 1
		}
	}
	metal /= 6
	metal = h.bp.process(metal, 9000, 1.2, h.sr)
	env := exp32(-h.time / h.Decay)
	out := tanh32(metal * 2.5)
	h.time += h.dt
	if env < 0.001 {
		h.active = false
	}
	return out * env * h.Volume * h.vel
}

// tom808 covers toms and congas: a sine with a mild pitch drop. Congas use
// a shorter decay and higher tuning.
type tom808 struct {
	Decay  float32
	Pitch  float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
}

func (t *tom808) init(sr, pitch, decay float32) {
	t.sr, t.dt = sr, 1/sr
	t.Pitch, t.Decay, t.Volume = pitch, decay, 1
	t.active = false
}

func (t *tom808) trigger(vel float32) {
	t.active = true
	t.time = 0
	t.osc.phase = 0
	t.vel = clamp(vel, 0, 1)
}

func (t *tom808) process() float32 {
	if !t.active {
		return 0
	}
	pitch := t.Pitch * (1 + 0.6*exp32(-t.time/0.03))
	sine := sin32(twoPi * t.osc.tick(pitch, t.dt))
	amp := exp32(-t.time / t.Decay)
	t.time += t.dt
	if amp < 0.001 {
		t.active = false
	}
	return tanh32(sine*1.2) * amp * t.Volume * t.vel
}

// claves808 is a short high resonant ping.
type claves808 struct {
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
}

func (c *claves808) init(sr float32) {
	c.sr, c.dt = sr, 1/sr
	c.Volume = 1
	c.active = false
}

func (c *claves808) trigger(vel float32) {
	c.active = true
	c.time = 0
	c.osc.phase = 0
	c.vel = clamp(vel, 0, 1)
}

func (c *claves808) process() float32 {
	if !c.active {
		return 0
	}
	sine := sin32(twoPi * c.osc.tick(2500, c.dt))
	amp := exp32(-c.time / 0.04)
	c.time += c.dt
	if amp < 0.001 {
		c.active = false
	}
	return sine * amp * c.Volume * c.vel
}

// maracas808 is a very short highpassed noise burst.
type maracas808 struct {
	Volume float32

	sr, dt float32
	active bool
	time   float32
	vel    float32
	rng    noise
	hp     float32
}

func (m *maracas808) init(sr float32) {
	m.sr, m.dt = sr, 1/sr
	m.Volume = 1
	m.active = false
	m.rng.state = 0xBADC0FFE
}

func (m *maracas808) trigger(vel float32) {
	m.active = true
	m.time = 0
	m.vel = clamp(vel, 0, 1)
}

func (m *maracas808) process() float32 {
	if !m.active {
		return 0
	}
	n := m.rng.next()
	m.hp += 0.6 * (n - m.hp)
	out := n - m.hp
	amp := exp32(-m.time / 0.03)
	m.time += m.dt
	if amp < 0.001 {
		m.active = false
	}
	return out * amp * m.Volume * m.vel
}

// rimshot808 is a damped click: short sine burst through saturation.
type rimshot808 struct {
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc    phasor
	vel    float32
}

func (r *rimshot808) init(sr float32) {
	r.sr, r.dt = sr, 1/sr
	r.Volume = 1
	r.active = false
}

func (r *rimshot808) trigger(vel float32) {
	r.active = true
	r.time = 0
	r.osc.phase = 0
	r.vel = clamp(vel, 0, 1)
}

func (r *rimshot808) process() float32 {
	if !r.active {
		return 0
	}
	sine := sin32(twoPi * r.osc.tick(1700, r.dt))
	amp := exp32(-r.time / 0.008)
	r.time += r.dt
	if amp < 0.001 {
		r.active = false
	}
	return tanh32(sine*3) * amp * r.Volume * r.vel
}

// cowbell808 mixes the classic 540 + 800 Hz square pair.
type cowbell808 struct {
	Decay  float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	osc1   phasor
	osc2   phasor
	vel    float32
}

func (c *cowbell808) init(sr float32) {
	c.sr, c.dt = sr, 1/sr
	c.Decay, c.Volume = 0.2, 1
	c.active = false
}

func (c *cowbell808) trigger(vel float32) {
	c.active = true
	c.time = 0
	c.vel = clamp(vel, 0, 1)
}

func (c *cowbell808) process() float32 {
	if !c.active {
		return 0
	}
	var s float32
	if c.osc1.tick(540, c.dt) < 0.5 {
		s += 1
	} else {
		s -= 1
	}
	if c.osc2.tick(800, c.dt) < 0.5 {
		s += 0.8
	} else {
		s -= 0.8
	}
	amp := exp32(-c.time / c.Decay)
	c.time += c.dt
	if amp < 0.001 {
		c.active = false
	}
	return tanh32(s*0.8) * amp * c.Volume * c.vel
}

// cymbal808 reuses the metallic stack with a much longer decay.
type cymbal808 struct {
	Decay  float32
	Volume float32

	sr, dt float32
	active bool
	time   float32
	vel    float32
	oscs   [6]phasor
	bp     bandpass
}

func (c *cymbal808) init(sr float32) {
	c.sr, c.dt = sr, 1/sr
	c.Decay, c.Volume = 1.5, 1
	c.active = false
}

func (c *cymbal808) trigger(vel float32) {
	c.active = true
	c.time = 0
	c.vel = clamp(vel, 0, 1)
}

func (c *cymbal808) process() float32 {
	if !c.active {
		return 0
	}
	var metal float32
	for i := range c.oscs {
		if c.oscs[i].tick(metalFreqs[i]*1.48, c.dt) < 0.5 {
			metal += 1
		} else {
			metal -= 1
		}
	}
	metal /= 6
	metal = c.bp.process(metal, 7000, 0.8, c.sr)
	env := exp32(-c.time / c.Decay)
	c.time += c.dt
	if env < 0.001 {
		c.active = false
	}
	return tanh32(metal*2) * env * c.Volume * c.vel
}

// Kit808 is the full TR-808 voice set.
type Kit808 struct {
	Kick     kick808
	Snare    snare808
	Clap     clap808
	HiHatC   hihat808
	HiHatO   hihat808
	LowTom   tom808
	MidTom   tom808
	HiTom    tom808
	LowConga tom808
	MidConga tom808
	HiConga  tom808
	Claves   claves808
	Maracas  maracas808
	RimShot  rimshot808
	Cowbell  cowbell808
	Cymbal   cymbal808
}

func NewKit808() *Kit808 { return &Kit808{} }

func (k *Kit808) Init(sr float32) {
	k.Kick.init(sr)
	k.Snare.init(sr)
	k.Clap.init(sr)
	k.HiHatC.init(sr, false)
	k.HiHatO.init(sr, true)
	k.LowTom.init(sr, 80, 0.4)
	k.MidTom.init(sr, 120, 0.35)
	k.HiTom.init(sr, 165, 0.3)
	k.LowConga.init(sr, 190, 0.18)
	k.MidConga.init(sr, 250, 0.16)
	k.HiConga.init(sr, 310, 0.14)
	k.Claves.init(sr)
	k.Maracas.init(sr)
	k.RimShot.init(sr)
	k.Cowbell.init(sr)
	k.Cymbal.init(sr)
}

func (k *Kit808) Trigger(inst int, vel float32) {
	switch inst {
	case Inst808Kick:
		k.Kick.trigger(vel)
	case Inst808Snare:
		k.Snare.trigger(vel)
	case Inst808Clap:
		k.Clap.trigger(vel)
	case Inst808HiHatC:
		k.HiHatC.trigger(vel)
		k.HiHatO.choke()
	case Inst808HiHatO:
		k.HiHatO.trigger(vel)
	case Inst808LowTom:
		k.LowTom.trigger(vel)
	case Inst808MidTom:
		k.MidTom.trigger(vel)
	case Inst808HiTom:
		k.HiTom.trigger(vel)
	case Inst808LowConga:
		k.LowConga.trigger(vel)
	case Inst808MidConga:
		k.MidConga.trigger(vel)
	case Inst808HiConga:
		k.HiConga.trigger(vel)
	case Inst808Claves:
		k.Claves.trigger(vel)
	case Inst808Maracas:
		k.Maracas.trigger(vel)
	case Inst808RimShot:
		k.RimShot.trigger(vel)
	case Inst808Cowbell:
		k.Cowbell.trigger(vel)
	case Inst808Cymbal:
		k.Cymbal.trigger(vel)
	}
}

func (k *Kit808) Process() float32 {
	return k.Kick.process() + k.Snare.process() + k.Clap.process() +
		k.HiHatC.process() + k.HiHatO.process() +
		k.LowTom.process() + k.MidTom.process() + k.HiTom.process() +
		k.LowConga.process() + k.MidConga.process() + k.HiConga.process() +
		k.Claves.process() + k.Maracas.process() + k.RimShot.process() +
		k.Cowbell.process() + k.Cymbal.process()
}

// SetParam routes a parameter write to one instrument. Unknown ids are
// ignored.
func (k *Kit808) SetParam(inst, param int, val float32) {
	switch inst {
	case Inst808Kick:
		switch param {
		case ParamDecay:
			k.Kick.Decay = clamp(val, 0.05, 2)
		case ParamPitch:
			k.Kick.Pitch = clamp(val, 30, 120)
		case ParamTone:
			k.Kick.Saturation = clamp(val, 0, 1)
		case ParamVolume:
			k.Kick.Volume = clamp(val, 0, 1)
		}
	case Inst808Snare:
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
	case Inst808Clap:
		switch param {
		case ParamDecay:
			k.Clap.Decay = clamp(val, 0.05, 1)
		case ParamVolume:
			k.Clap.Volume = clamp(val, 0, 1)
		}
	case Inst808HiHatC:
		switch param {
		case ParamDecay:
			k.HiHatC.Decay = clamp(val, 0.01, 0.3)
		case ParamVolume:
			k.HiHatC.Volume = clamp(val, 0, 1)
		}
	case Inst808HiHatO:
		switch param {
		case ParamDecay:
			k.HiHatO.Decay = clamp(val, 0.05, 2)
		case ParamVolume:
			k.HiHatO.Volume = clamp(val, 0, 1)
		}
	case Inst808Cowbell:
		switch param {
		case ParamDecay:
			k.Cowbell.Decay = clamp(val, 0.03, 0.5)
		case ParamVolume:
			k.Cowbell.Volume = clamp(val, 0, 1)
		}
	case Inst808Cymbal:
		switch param {
		case ParamDecay:
			k.Cymbal.Decay = clamp(val, 0.1, 5)
		case ParamVolume:
			k.Cymbal.Volume = clamp(val, 0, 1)
		}
	}
}

// NoteOn and NoteOff complete the collaborator contract; drum kits have no
// note surface.
func (k *Kit808) NoteOn(note int, accent, slide bool) {}
func (k *Kit808) NoteOff()                            {}
