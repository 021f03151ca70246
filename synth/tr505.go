package synth

// TR-505 instrument indices.
const (
	Inst505Kick = iota
	Inst505Snare
	Inst505HiHatC
	Inst505HiHatO
	Inst505LowTom
	Inst505HiTom
	Inst505Cowbell
)

// Kit505 is the budget rendition: thinner kick, papery snare, shared
// voice types tuned brighter.
type Kit505 struct {
	Kick    tom808
	Snare   snare808
	HiHatC  hihat808
	HiHatO  hihat808
	LowTom  tom808
	HiTom   tom808
	Cowbell cowbell808
}

func NewKit505() *Kit505 { return &Kit505{} }

func (k *Kit505) Init(sr float32) {
	k.Kick.init(sr, 60, 0.2)
	k.Snare.init(sr)
	k.Snare.Pitch = 220
	k.Snare.Decay = 0.12
	k.Snare.Snappy = 0.8
	k.HiHatC.init(sr, false)
	k.HiHatC.Decay = 0.05
	k.HiHatO.init(sr, true)
	k.HiHatO.Decay = 0.3
	k.LowTom.init(sr, 100, 0.25)
	k.HiTom.init(sr, 180, 0.2)
	k.Cowbell.init(sr)
	k.Cowbell.Decay = 0.12
}

func (k *Kit505) Trigger(inst int, vel float32) {
	switch inst {
	case Inst505Kick:
		k.Kick.trigger(vel)
	case Inst505Snare:
		k.Snare.trigger(vel)
	case Inst505HiHatC:
		k.HiHatC.trigger(vel)
		k.HiHatO.choke()
	case Inst505HiHatO:
		k.HiHatO.trigger(vel)
	case Inst505LowTom:
		k.LowTom.trigger(vel)
	case Inst505HiTom:
		k.HiTom.trigger(vel)
	case Inst505Cowbell:
		k.Cowbell.trigger(vel)
	}
}

func (k *Kit505) Process() float32 {
	return k.Kick.process() + k.Snare.process() +
		k.HiHatC.process() + k.HiHatO.process() +
		k.LowTom.process() + k.HiTom.process() + k.Cowbell.process()
}

func (k *Kit505) SetParam(inst, param int, val float32) {
	switch inst {
	case Inst505Kick:
		switch param {
		case ParamDecay:
			k.Kick.Decay = clamp(val, 0.05, 1)
		case ParamVolume:
			k.Kick.Volume = clamp(val, 0, 1)
		}
	case Inst505Snare:
		switch param {
		case ParamDecay:
			k.Snare.Decay = clamp(val, 0.05, 1)
		case ParamVolume:
			k.Snare.Volume = clamp(val, 0, 1)
		}
	}
}

func (k *Kit505) NoteOn(note int, accent, slide bool) {}
func (k *Kit505) NoteOff()                            {}
