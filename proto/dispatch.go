package proto

import (
	"io"
	"math"

	"github.com/atane/drumcore/audio"
)

// FileInfo describes a stored sample file for the file-info query.
type FileInfo struct {
	SizeBytes     uint32
	SampleRate    uint16
	BitsPerSample uint16
	Channels      uint8
	DurationMs    uint32
}

// Store is the filesystem collaborator behind the 0xB0-0xB9 commands. The
// engine core carries no filesystem; a nil store answers every query with
// best-effort empty data.
type Store interface {
	ListFolders() []string
	ListFiles(folder string) []string
	FileInfo(folder, file string) (FileInfo, bool)
	LoadSample(folder, file string, pad int) error
	LoadKit(name string, startPad, maxPads int) (mask uint32, count int, err error)
	KitList() []string
	UnloadKit() string
	Status() (present bool, currentKit string)
}

// Dispatcher routes validated frames to engine operations and queues
// response frames on the engine's TX ring.
type Dispatcher struct {
	engine *audio.Engine
	store  Store
	tx     io.Writer
	parser *Parser

	currentKit string
}

func NewDispatcher(e *audio.Engine, store Store) *Dispatcher {
	return &Dispatcher{engine: e, store: store, tx: e.TxQueue()}
}

func (d *Dispatcher) respond(cmd uint8, seq uint16, payload []byte) {
	d.tx.Write(BuildFrame(MagicResp, cmd, seq, payload))
}

// Dispatch executes one validated frame. Malformed payloads and
// out-of-range indices are silently ignored; well-formed queries always
// get a response.
func (d *Dispatcher) Dispatch(hdr Header, p []byte) {
	// The built-in demo plays until the first real command arrives.
	if d.engine.TickerRunning() {
		d.engine.StopTicker()
		if s := d.engine.Synth(SynthEngine303); s != nil {
			s.NoteOff()
		}
	}

	e := d.engine
	switch hdr.Cmd {

	case CmdPing:
		var pong [8]byte
		copy(pong[:4], p)
		up := e.UptimeMillis()
		pong[4] = byte(up)
		pong[5] = byte(up >> 8)
		pong[6] = byte(up >> 16)
		pong[7] = byte(up >> 24)
		d.respond(CmdPing, hdr.Sequence, pong[:])

	case CmdTriggerLive:
		if len(p) >= 2 {
			e.EnqueueTrigger(audio.Trigger{Pad: int(p[0]), Velocity: p[1], Live: true})
		}

	case CmdTriggerSeq:
		if len(p) >= 8 {
			e.EnqueueTrigger(audio.Trigger{
				Pad:        int(p[0]),
				Velocity:   p[1],
				TrackVol:   p[2],
				Pan:        int8(p[3]),
				MaxSamples: u32At(p, 4),
			})
		} else if len(p) >= 2 {
			e.EnqueueTrigger(audio.Trigger{Pad: int(p[0]), Velocity: p[1], TrackVol: 100})
		}

	case CmdTriggerStop:
		if len(p) >= 1 {
			e.StopPad(int(p[0]))
		}

	case CmdTriggerStopAll:
		e.StopAll()

	case CmdTriggerSidechain:
		if len(p) >= 2 {
			e.EnqueueTrigger(audio.Trigger{Pad: int(p[0]), Velocity: p[1], Sidechain: true})
		}

	case CmdMasterVolume:
		if len(p) >= 1 {
			e.SetMasterVolume(p[0])
		}
	case CmdSeqVolume:
		if len(p) >= 1 {
			e.SetSeqVolume(p[0])
		}
	case CmdLiveVolume:
		if len(p) >= 1 {
			e.SetLiveVolume(p[0])
		}
	case CmdTrackVolume:
		if len(p) >= 2 {
			e.SetTrackVolume(int(p[0]), p[1])
		}
	case CmdLivePitch:
		if len(p) >= 4 {
			e.SetLivePitch(f32At(p, 0))
		}

	case CmdFilterSet:
		if len(p) >= 20 {
			e.SetGlobalFilter(audio.FilterType(p[0]), f32At(p, 2), f32At(p, 6))
			e.SetGlobalBitDepth(p[10])
			e.SetGlobalDistortionMode(audio.DistortionMode(p[11]))
			e.SetGlobalDistortion(f32At(p, 12))
			e.SetSampleRateReduction(u32At(p, 16))
		}
	case CmdFilterCutoff:
		if len(p) >= 4 {
			e.SetGlobalFilterCutoff(f32At(p, 0))
		}
	case CmdFilterResonance:
		if len(p) >= 4 {
			e.SetGlobalFilterResonance(f32At(p, 0))
		}
	case CmdFilterBitDepth:
		if len(p) >= 1 {
			e.SetGlobalBitDepth(p[0])
		}
	case CmdFilterDistortion:
		if len(p) >= 4 {
			e.SetGlobalDistortion(f32At(p, 0))
		}
	case CmdFilterDistMode:
		if len(p) >= 1 {
			e.SetGlobalDistortionMode(audio.DistortionMode(p[0]))
		}
	case CmdFilterSRReduce:
		if len(p) >= 4 {
			e.SetSampleRateReduction(u32At(p, 0))
		}

	case CmdDelayActive:
		if len(p) >= 1 {
			e.SetDelayActive(p[0] != 0)
		}
	case CmdDelayTime:
		if len(p) >= 2 {
			e.SetDelayTime(float32(u16At(p, 0)))
		}
	case CmdDelayFeedback:
		if len(p) >= 1 {
			e.SetDelayFeedback(float32(p[0]) / 100)
		}
	case CmdDelayMix:
		if len(p) >= 1 {
			e.SetDelayMix(float32(p[0]) / 100)
		}

	case CmdPhaserActive:
		if len(p) >= 1 {
			e.SetPhaserActive(p[0] != 0)
		}
	case CmdPhaserRate:
		if len(p) >= 1 {
			e.SetPhaserRate(float32(p[0]) / 10)
		}
	case CmdPhaserDepth:
		if len(p) >= 1 {
			e.SetPhaserDepth(float32(p[0]) / 100)
		}
	case CmdPhaserFeedback:
		if len(p) >= 1 {
			e.SetPhaserFeedback(float32(p[0]) / 100)
		}

	case CmdFlangerActive:
		if len(p) >= 1 {
			e.SetFlangerActive(p[0] != 0)
		}
	case CmdFlangerRate:
		if len(p) >= 1 {
			e.SetFlangerRate(float32(p[0]) / 10)
		}
	case CmdFlangerDepth:
		if len(p) >= 1 {
			e.SetFlangerDepth(float32(p[0]) / 100)
		}
	case CmdFlangerFeedback:
		if len(p) >= 1 {
			e.SetFlangerFeedback(float32(p[0]) / 100)
		}
	case CmdFlangerMix:
		if len(p) >= 1 {
			e.SetFlangerMix(float32(p[0]) / 100)
		}

	case CmdCompActive:
		if len(p) >= 1 {
			e.SetCompressorActive(p[0] != 0)
		}
	case CmdCompThreshold:
		if len(p) >= 1 {
			e.SetCompressorThreshold(-float32(p[0]))
		}
	case CmdCompRatio:
		if len(p) >= 1 {
			e.SetCompressorRatio(float32(p[0]))
		}
	case CmdCompAttack:
		if len(p) >= 1 {
			e.SetCompressorAttack(float32(p[0]))
		}
	case CmdCompRelease:
		if len(p) >= 1 {
			e.SetCompressorRelease(float32(p[0]))
		}
	case CmdCompMakeup:
		if len(p) >= 1 {
			e.SetCompressorMakeup(float32(p[0]) / 10)
		}

	case CmdReverbActive:
		if len(p) >= 1 {
			e.SetReverbActive(p[0] != 0)
		}
	case CmdReverbFeedback:
		if len(p) >= 1 {
			e.SetReverbFeedback(float32(p[0]) / 100)
		}
	case CmdReverbLpFreq:
		if len(p) >= 2 {
			e.SetReverbLpFreq(float32(u16At(p, 0)))
		}
	case CmdReverbMix:
		if len(p) >= 1 {
			e.SetReverbMix(float32(p[0]) / 100)
		}

	case CmdChorusActive:
		if len(p) >= 1 {
			e.SetChorusActive(p[0] != 0)
		}
	case CmdChorusRate:
		if len(p) >= 1 {
			e.SetChorusRate(float32(p[0]) / 10)
		}
	case CmdChorusDepth:
		if len(p) >= 1 {
			e.SetChorusDepth(float32(p[0]) / 100)
		}
	case CmdChorusMix:
		if len(p) >= 1 {
			e.SetChorusMix(float32(p[0]) / 100)
		}

	case CmdTremoloActive:
		if len(p) >= 1 {
			e.SetTremoloActive(p[0] != 0)
		}
	case CmdTremoloRate:
		if len(p) >= 1 {
			e.SetTremoloRate(float32(p[0]) / 10)
		}
	case CmdTremoloDepth:
		if len(p) >= 1 {
			e.SetTremoloDepth(float32(p[0]) / 100)
		}

	case CmdWavefolderGain:
		if len(p) >= 1 {
			e.SetWavefolderGain(float32(p[0]) / 10)
		}
	case CmdLimiterActive:
		if len(p) >= 1 {
			e.SetLimiterActive(p[0] != 0)
		}

	case CmdTrackFilter:
		if len(p) >= 12 {
			e.SetTrackFilter(int(p[0]), audio.FilterType(p[1]), f32At(p, 4), f32At(p, 8))
		}
	case CmdTrackClearFilter:
		if len(p) >= 1 {
			e.ClearTrackFilter(int(p[0]))
		}
	case CmdTrackDistortion:
		if len(p) >= 5 {
			e.SetTrackDistortion(int(p[0]), f32At(p, 1), audio.DistSoft)
		} else if len(p) >= 2 {
			e.SetTrackDistortion(int(p[0]), float32(p[1])/255, audio.DistSoft)
		}
	case CmdTrackBitCrush:
		if len(p) >= 2 {
			e.SetTrackBitCrush(int(p[0]), p[1])
		}
	case CmdTrackEcho:
		if len(p) >= 16 {
			e.SetTrackEcho(int(p[0]), p[1] != 0, f32At(p, 4), f32At(p, 8), f32At(p, 12))
		}
	case CmdTrackFlanger:
		if len(p) >= 16 {
			e.SetTrackFlanger(int(p[0]), p[1] != 0, f32At(p, 8), f32At(p, 4), f32At(p, 12))
		}
	case CmdTrackCompressor:
		if len(p) >= 12 {
			e.SetTrackCompressor(int(p[0]), p[1] != 0, f32At(p, 4), f32At(p, 8))
		}
	case CmdTrackClearLive:
		if len(p) >= 1 {
			e.ClearTrackLiveFX(int(p[0]))
		}
	case CmdTrackClearFX:
		if len(p) >= 1 {
			e.ClearTrackFX(int(p[0]))
		}
	case CmdTrackReverbSend:
		if len(p) >= 2 {
			e.SetTrackReverbSend(int(p[0]), float32(p[1])/100)
		}
	case CmdTrackDelaySend:
		if len(p) >= 2 {
			e.SetTrackDelaySend(int(p[0]), float32(p[1])/100)
		}
	case CmdTrackChorusSend:
		if len(p) >= 2 {
			e.SetTrackChorusSend(int(p[0]), float32(p[1])/100)
		}
	case CmdTrackPan:
		if len(p) >= 2 {
			e.SetTrackPan(int(p[0]), float32(int8(p[1]))/100)
		}
	case CmdTrackMute:
		if len(p) >= 2 {
			e.SetTrackMute(int(p[0]), p[1] != 0)
		}
	case CmdTrackSolo:
		if len(p) >= 2 {
			e.SetTrackSolo(int(p[0]), p[1] != 0)
		}
	case CmdTrackPitch:
		if len(p) >= 5 {
			e.SetTrackPitch(int(p[0]), f32At(p, 1))
		}
	case CmdTrackEQLow:
		if len(p) >= 2 {
			e.SetTrackEQ(int(p[0]), 0, int8(p[1]))
		}
	case CmdTrackEQMid:
		if len(p) >= 2 {
			e.SetTrackEQ(int(p[0]), 1, int8(p[1]))
		}
	case CmdTrackEQHigh:
		if len(p) >= 2 {
			e.SetTrackEQ(int(p[0]), 2, int8(p[1]))
		}

	case CmdTrackPhaser, CmdTrackTremolo, CmdTrackGate:
		// Accepted but not routed; the per-track chain has no phaser,
		// tremolo or gate stage.

	case CmdPadFilter:
		if len(p) >= 12 {
			e.SetPadFilter(int(p[0]), audio.FilterType(p[1]), f32At(p, 4), f32At(p, 8))
		}
	case CmdPadClearFilter:
		if len(p) >= 1 {
			e.ClearPadFilter(int(p[0]))
		}
	case CmdPadDistortion:
		if len(p) >= 5 {
			e.SetPadDistortion(int(p[0]), f32At(p, 1), audio.DistSoft)
		} else if len(p) >= 2 {
			e.SetPadDistortion(int(p[0]), float32(p[1])/255, audio.DistSoft)
		}
	case CmdPadBitCrush:
		if len(p) >= 2 {
			e.SetPadBitCrush(int(p[0]), p[1])
		}
	case CmdPadLoop:
		if len(p) >= 2 {
			e.SetPadLoop(int(p[0]), p[1] != 0)
		}
	case CmdPadReverse:
		if len(p) >= 2 {
			e.SetPadReverse(int(p[0]), p[1] != 0)
		}
	case CmdPadPitch:
		if len(p) >= 3 {
			cents := int16(u16At(p, 1))
			e.SetPadPitch(int(p[0]), centsToSpeed(cents))
		}
	case CmdPadStutter:
		if len(p) >= 4 {
			e.SetPadStutter(int(p[0]), p[1] != 0, u16At(p, 2))
		}
	case CmdPadScratch:
		if len(p) >= 20 {
			e.SetScratch(int(p[0]), p[1] != 0, f32At(p, 4), f32At(p, 8), f32At(p, 12), f32At(p, 16))
		}
	case CmdPadTurntablism:
		if len(p) >= 16 {
			e.SetTurntablism(int(p[0]), p[1] != 0, p[2] != 0, int(int8(p[3])),
				u16At(p, 4), u16At(p, 6), f32At(p, 8), f32At(p, 12))
		}
	case CmdPadClearFX:
		if len(p) >= 1 {
			e.ClearPadFX(int(p[0]))
		}

	case CmdSidechainSet:
		if len(p) >= 20 {
			e.SetSidechain(true, int(p[0]), u16At(p, 2), f32At(p, 4), f32At(p, 8), f32At(p, 12), f32At(p, 16))
		}
	case CmdSidechainClear:
		e.ClearSidechain()

	case CmdSampleBegin:
		if len(p) >= 12 {
			e.SampleBegin(int(p[0]), u32At(p, 8))
		}
	case CmdSampleData:
		if len(p) >= 8 {
			chunkSize := int(u16At(p, 2))
			offset := u32At(p, 4)
			if 8+chunkSize <= len(p) {
				e.SampleData(int(p[0]), offset, p[8:8+chunkSize])
			}
		}
	case CmdSampleEnd:
		if len(p) >= 1 {
			e.SampleEnd(int(p[0]))
		}
	case CmdSampleUnload:
		if len(p) >= 1 {
			e.SampleUnload(int(p[0]))
		}
	case CmdSampleUnloadAll:
		e.SampleUnloadAll()

	case CmdSynthTrigger:
		if len(p) >= 3 {
			if s := e.Synth(int(p[0])); s != nil {
				s.Trigger(int(p[1]), float32(p[2])/127)
			}
		}
	case CmdSynthParam:
		if len(p) >= 7 {
			if s := e.Synth(int(p[0])); s != nil {
				s.SetParam(int(p[1]), int(p[2]), f32At(p, 3))
			}
		}
	case CmdSynthNoteOn:
		if len(p) >= 3 {
			if s := e.Synth(SynthEngine303); s != nil {
				s.NoteOn(int(p[0]), p[1] != 0, p[2] != 0)
			}
		}
	case CmdSynthNoteOff:
		if s := e.Synth(SynthEngine303); s != nil {
			s.NoteOff()
		}
	case CmdSynth303Param:
		if len(p) >= 5 {
			if s := e.Synth(SynthEngine303); s != nil {
				s.SetParam(0, int(p[0]), f32At(p, 1))
			}
		}
	case CmdSynthActive:
		if len(p) >= 1 {
			e.SetSynthMask(p[0])
		}

	case CmdGetStatus:
		d.respond(CmdGetStatus, hdr.Sequence, d.buildStatus())
	case CmdGetPeaks:
		d.respond(CmdGetPeaks, hdr.Sequence, d.buildPeaks())
	case CmdGetCPULoad:
		pct := uint8(e.CPULoad() * 100)
		d.respond(CmdGetCPULoad, hdr.Sequence, []byte{pct})
	case CmdGetVoices:
		d.respond(CmdGetVoices, hdr.Sequence, []byte{uint8(e.ActiveVoices())})
	case CmdGetEvents:
		d.respond(CmdGetEvents, hdr.Sequence, d.buildEvents())

	case CmdReset:
		e.Reset()
		if d.parser != nil {
			d.parser.PacketCount = 0
			d.parser.ErrorCount = 0
		}
		d.currentKit = ""

	case CmdBulkTriggers:
		if len(p) >= 1 {
			count := int(p[0])
			for i := 0; i < count && 1+i*2+1 < len(p); i++ {
				e.EnqueueTrigger(audio.Trigger{Pad: int(p[1+i*2]), Velocity: p[1+i*2+1], Live: true})
			}
		}

	case CmdBulkFX:
		if len(p) >= 1 {
			count := int(p[0])
			off := 1
			for i := 0; i < count; i++ {
				if off+2 > len(p) {
					break
				}
				subCmd := p[off]
				subLen := int(p[off+1])
				off += 2
				if off+subLen > len(p) {
					break
				}
				d.Dispatch(Header{Magic: MagicCmd, Cmd: subCmd, Length: uint16(subLen), Sequence: hdr.Sequence}, p[off:off+subLen])
				off += subLen
			}
		}

	default:
		d.dispatchStore(hdr, p)
	}
}

// centsToSpeed converts a pitch offset in cents into a playback speed.
func centsToSpeed(cents int16) float32 {
	return float32(math.Pow(2, float64(cents)/1200))
}
