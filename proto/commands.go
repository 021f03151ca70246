// Package proto implements the byte-framed command protocol that drives
// the audio engine: an 8-byte little-endian header, a payload checked with
// CRC-16/MODBUS, a byte-at-a-time stream parser and a flat dispatcher.
package proto

// Frame magics.
const (
	MagicCmd    = 0xA5
	MagicResp   = 0x5A
	MagicBulk   = 0xBB
	MagicSample = 0xDA
)

// MaxPayload caps a frame's payload; larger frames are dropped.
const MaxPayload = 600

// Command codes. Unknown codes are no-ops.
const (
	// Triggers
	CmdTriggerSeq       = 0x01
	CmdTriggerLive      = 0x02
	CmdTriggerStop      = 0x03
	CmdTriggerStopAll   = 0x04
	CmdTriggerSidechain = 0x05

	// Volume
	CmdMasterVolume = 0x10
	CmdSeqVolume    = 0x11
	CmdLiveVolume   = 0x12
	CmdTrackVolume  = 0x13
	CmdLivePitch    = 0x14

	// Global filter
	CmdFilterSet        = 0x20
	CmdFilterCutoff     = 0x21
	CmdFilterResonance  = 0x22
	CmdFilterBitDepth   = 0x23
	CmdFilterDistortion = 0x24
	CmdFilterDistMode   = 0x25
	CmdFilterSRReduce   = 0x26

	// Master FX
	CmdDelayActive     = 0x30
	CmdDelayTime       = 0x31
	CmdDelayFeedback   = 0x32
	CmdDelayMix        = 0x33
	CmdPhaserActive    = 0x34
	CmdPhaserRate      = 0x35
	CmdPhaserDepth     = 0x36
	CmdPhaserFeedback  = 0x37
	CmdFlangerActive   = 0x38
	CmdFlangerRate     = 0x39
	CmdFlangerDepth    = 0x3A
	CmdFlangerFeedback = 0x3B
	CmdFlangerMix      = 0x3C
	CmdCompActive      = 0x3D
	CmdCompThreshold   = 0x3E
	CmdCompRatio       = 0x3F
	CmdCompAttack      = 0x40
	CmdCompRelease     = 0x41
	CmdCompMakeup      = 0x42
	CmdReverbActive    = 0x43
	CmdReverbFeedback  = 0x44
	CmdReverbLpFreq    = 0x45
	CmdReverbMix       = 0x46
	CmdChorusActive    = 0x47
	CmdChorusRate      = 0x48
	CmdChorusDepth     = 0x49
	CmdChorusMix       = 0x4A
	CmdTremoloActive   = 0x4B
	CmdTremoloRate     = 0x4C
	CmdTremoloDepth    = 0x4D
	CmdWavefolderGain  = 0x4E
	CmdLimiterActive   = 0x4F

	// Per-track FX
	CmdTrackFilter      = 0x50
	CmdTrackClearFilter = 0x51
	CmdTrackDistortion  = 0x52
	CmdTrackBitCrush    = 0x53
	CmdTrackEcho        = 0x54
	CmdTrackFlanger     = 0x55
	CmdTrackCompressor  = 0x56
	CmdTrackClearLive   = 0x57
	CmdTrackClearFX     = 0x58
	CmdTrackReverbSend  = 0x59
	CmdTrackDelaySend   = 0x5A
	CmdTrackChorusSend  = 0x5B
	CmdTrackPan         = 0x5C
	CmdTrackMute        = 0x5D
	CmdTrackSolo        = 0x5E
	CmdTrackPhaser      = 0x5F
	CmdTrackTremolo     = 0x60
	CmdTrackPitch       = 0x61
	CmdTrackGate        = 0x62
	CmdTrackEQLow       = 0x63
	CmdTrackEQMid       = 0x64
	CmdTrackEQHigh      = 0x65

	// Per-pad FX
	CmdPadFilter      = 0x70
	CmdPadClearFilter = 0x71
	CmdPadDistortion  = 0x72
	CmdPadBitCrush    = 0x73
	CmdPadLoop        = 0x74
	CmdPadReverse     = 0x75
	CmdPadPitch       = 0x76
	CmdPadStutter     = 0x77
	CmdPadScratch     = 0x78
	CmdPadTurntablism = 0x79
	CmdPadClearFX     = 0x7A

	// Sidechain
	CmdSidechainSet   = 0x90
	CmdSidechainClear = 0x91

	// Sample transfer
	CmdSampleBegin     = 0xA0
	CmdSampleData      = 0xA1
	CmdSampleEnd       = 0xA2
	CmdSampleUnload    = 0xA3
	CmdSampleUnloadAll = 0xA4

	// Filesystem collaborator
	CmdFsListFolders = 0xB0
	CmdFsListFiles   = 0xB1
	CmdFsFileInfo    = 0xB2
	CmdFsLoadSample  = 0xB3
	CmdFsLoadKit     = 0xB4
	CmdFsKitList     = 0xB5
	CmdFsStatus      = 0xB6
	CmdFsUnloadKit   = 0xB7
	CmdFsGetLoaded   = 0xB8
	CmdFsAbort       = 0xB9

	// Synth engines
	CmdSynthTrigger  = 0xC0
	CmdSynthParam    = 0xC1
	CmdSynthNoteOn   = 0xC2
	CmdSynthNoteOff  = 0xC3
	CmdSynth303Param = 0xC4
	CmdSynthActive   = 0xC5

	// Status / query
	CmdGetStatus  = 0xE0
	CmdGetPeaks   = 0xE1
	CmdGetCPULoad = 0xE2
	CmdGetVoices  = 0xE3
	CmdGetEvents  = 0xE4
	CmdPing       = 0xEE
	CmdReset      = 0xEF

	// Bulk
	CmdBulkTriggers = 0xF0
	CmdBulkFX       = 0xF1
)

// Synth engine slots addressed by CmdSynth*.
const (
	SynthEngine808 = 0
	SynthEngine909 = 1
	SynthEngine505 = 2
	SynthEngine303 = 3
)
