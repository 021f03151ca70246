package audio

const maxSidechainTracks = 16

// sidechainState ducks destination tracks when the source track is
// triggered. Each destination runs its own envelope against a hold window
// scaled by trigger velocity; the source channel is never attenuated.
type sidechainState struct {
	active       bool
	sourceTrack  int
	destMask     uint16
	amount       float32
	knee         float32
	attackCoeff  float32
	releaseCoeff float32
	envelope     [maxSidechainTracks]float32
	holdSamples  [maxSidechainTracks]uint32
}

// gain advances the destination envelope one sample and returns the gain
// to apply to that track. Non-destinations and the source always get 1.0.
func (s *sidechainState) gain(track int) float32 {
	if !s.active || track < 0 || track >= maxSidechainTracks {
		return 1
	}
	if s.destMask&(1<<uint(track)) == 0 || track == s.sourceTrack {
		s.envelope[track] = 0
		s.holdSamples[track] = 0
		return 1
	}

	var target float32
	if s.holdSamples[track] > 0 {
		target = 1
		s.holdSamples[track]--
	}
	env := s.envelope[track]
	coeff := s.releaseCoeff
	if target > env {
		coeff = s.attackCoeff
	}
	env = coeff*env + (1-coeff)*target
	s.envelope[track] = env

	shaped := pow32(clampF(env, 0, 1), 1+s.knee*3)
	g := 1 - s.amount*shaped
	if g < 0.08 {
		g = 0.08
	}
	return g
}

// noteTrigger opens the hold window on every destination when the source
// track fires. Window: 8 ms + 16 ms scaled by velocity.
func (s *sidechainState) noteTrigger(sourceTrack int, velocity uint8, sampleRate float32) {
	if !s.active || sourceTrack != s.sourceTrack {
		return
	}
	velNorm := clampF(float32(velocity)/127, 0.25, 1)
	hold := uint32(sampleRate * (0.008 + 0.016*velNorm))
	for t := 0; t < maxSidechainTracks; t++ {
		if t == s.sourceTrack {
			continue
		}
		if s.destMask&(1<<uint(t)) != 0 {
			s.holdSamples[t] = hold
		}
	}
}

// SetSidechain configures the ducking network. Attack and release arrive
// in milliseconds and become one-pole coefficients.
func (e *Engine) SetSidechain(active bool, sourceTrack int, destMask uint16, amount, attackMs, releaseMs, knee float32) {
	s := &e.sidechain
	s.active = active
	if sourceTrack < 0 {
		sourceTrack = 0
	}
	if sourceTrack >= e.cfg.MaxTracks {
		sourceTrack = e.cfg.MaxTracks - 1
	}
	s.sourceTrack = sourceTrack
	s.destMask = destMask
	s.amount = clampF(amount, 0, 1)
	s.knee = clampF(knee, 0, 1)
	s.attackCoeff = envCoeff(clampF(attackMs, 0.1, 80), e.sampleRate)
	s.releaseCoeff = envCoeff(clampF(releaseMs, 10, 1200), e.sampleRate)
	if !active {
		for i := range s.envelope {
			s.envelope[i] = 0
			s.holdSamples[i] = 0
		}
	}
}

// ClearSidechain disables ducking and collapses every envelope.
func (e *Engine) ClearSidechain() {
	e.SetSidechain(false, 0, 0, 0, 6, 160, 0.4)
}

// TriggerSidechain opens the hold window directly, for controllers that
// drive ducking without a sample trigger.
func (e *Engine) TriggerSidechain(sourceTrack int, velocity uint8) {
	e.sidechain.noteTrigger(sourceTrack, velocity, e.sampleRate)
}
