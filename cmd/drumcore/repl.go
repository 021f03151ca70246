package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/atane/drumcore/audio"
	"github.com/atane/drumcore/proto"
)

// env ties the REPL to the engine through the wire protocol: every command
// is assembled into a frame and fed to the parser, so the interactive path
// exercises exactly what a hardware controller would.
type env struct {
	engine *audio.Engine
	parser *proto.Parser
	seq    uint16
}

func (e *env) send(cmd uint8, payload []byte) {
	e.seq++
	e.parser.FeedBytes(proto.BuildCommand(cmd, e.seq, payload))
}

// response drains the TX ring and returns the payload of the last frame.
func (e *env) response() []byte {
	var buf [1024]byte
	n, _ := e.engine.TxQueue().Read(buf[:])
	if n < proto.HeaderSize {
		return nil
	}
	length := int(binary.LittleEndian.Uint16(buf[2:4]))
	if proto.HeaderSize+length > n {
		return nil
	}
	return append([]byte(nil), buf[proto.HeaderSize:proto.HeaderSize+length]...)
}

type command struct {
	name  string
	arity int // -n means at least n args
	run   func(*env, []string) (string, error)
}

var commands = []command{
	{"hit", -1, hitCommand},
	{"stop", 0, stopCommand},
	{"loop", 2, loopCommand},
	{"reverse", 2, reverseCommand},
	{"pitch", 2, pitchCommand},
	{"filter", -2, filterCommand},
	{"scratch", 2, scratchCommand},
	{"turntable", 2, turntableCommand},
	{"mute", 1, muteCommand},
	{"solo", 1, soloCommand},
	{"pan", 2, panCommand},
	{"send", 3, sendCommand},
	{"fx", -2, fxCommand},
	{"sidechain", -1, sidechainCommand},
	{"synth", -2, synthCommand},
	{"status", 0, statusCommand},
	{"peaks", 0, peaksCommand},
	{"ping", 0, pingCommand},
	{"reset", 0, resetCommand},
}

func repl(engine *audio.Engine, parser *proto.Parser, _ io.Reader) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	e := &env{engine: engine, parser: parser}
	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name, args := fields[0], fields[1:]
		if name == "exit" || name == "quit" {
			return nil
		}
		if out, err := eval(e, name, args); err != nil {
			fmt.Println(err)
		} else if out != "" {
			fmt.Println(out)
		}
	}
}

func eval(e *env, name string, args []string) (string, error) {
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		if cmd.arity < 0 {
			if len(args) < -cmd.arity {
				return "", fmt.Errorf("%s: need at least %d arguments, got %d", cmd.name, -cmd.arity, len(args))
			}
		} else if len(args) != cmd.arity {
			return "", fmt.Errorf("%s: want %d arguments, got %d", cmd.name, cmd.arity, len(args))
		}
		out, err := cmd.run(e, args)
		if err != nil {
			return "", fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return out, nil
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

func argInt(s string) (int, error)       { return strconv.Atoi(s) }
func argFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }
func argBool(s string) bool              { return s == "on" || s == "1" || s == "true" }

func f32le(v float32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return b[:]
}

func hitCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	vel := 127
	if len(args) > 1 {
		if vel, err = argInt(args[1]); err != nil {
			return "", err
		}
	}
	e.send(proto.CmdTriggerLive, []byte{byte(pad), byte(vel)})
	return "", nil
}

func stopCommand(e *env, _ []string) (string, error) {
	e.send(proto.CmdTriggerStopAll, nil)
	return "", nil
}

func loopCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	on := byte(0)
	if argBool(args[1]) {
		on = 1
	}
	e.send(proto.CmdPadLoop, []byte{byte(pad), on})
	return "", nil
}

func reverseCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	on := byte(0)
	if argBool(args[1]) {
		on = 1
	}
	e.send(proto.CmdPadReverse, []byte{byte(pad), on})
	return "", nil
}

func pitchCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	cents, err := argInt(args[1])
	if err != nil {
		return "", err
	}
	p := []byte{byte(pad), byte(cents), byte(cents >> 8)}
	e.send(proto.CmdPadPitch, p)
	return "", nil
}

var filterNames = map[string]audio.FilterType{
	"lp": audio.FilterLowpass, "hp": audio.FilterHighpass,
	"bp": audio.FilterBandpass, "notch": audio.FilterNotch,
	"peak": audio.FilterPeaking, "lshelf": audio.FilterLowShelf,
	"hshelf": audio.FilterHighShelf, "off": audio.FilterNone,
}

// filter <pad> <type> [cutoff] [q]
func filterCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	typ, ok := filterNames[args[1]]
	if !ok {
		return "", fmt.Errorf("unknown filter type: %s", args[1])
	}
	if typ == audio.FilterNone {
		e.send(proto.CmdPadClearFilter, []byte{byte(pad)})
		return "", nil
	}
	preset := audio.GetFilterPreset(typ)
	cutoff, q := preset.Cutoff, preset.Resonance
	if len(args) > 2 {
		v, err := argFloat(args[2])
		if err != nil {
			return "", err
		}
		cutoff = float32(v)
	}
	if len(args) > 3 {
		v, err := argFloat(args[3])
		if err != nil {
			return "", err
		}
		q = float32(v)
	}
	p := make([]byte, 12)
	p[0], p[1] = byte(pad), byte(typ)
	copy(p[4:8], f32le(cutoff))
	copy(p[8:12], f32le(q))
	e.send(proto.CmdPadFilter, p)
	return "", nil
}

func scratchCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	on := byte(0)
	if argBool(args[1]) {
		on = 1
	}
	p := make([]byte, 20)
	p[0], p[1] = byte(pad), on
	copy(p[4:8], f32le(5))      // rate Hz
	copy(p[8:12], f32le(0.85))  // depth
	copy(p[12:16], f32le(4000)) // cutoff
	copy(p[16:20], f32le(0.25)) // crackle
	e.send(proto.CmdPadScratch, p)
	return "", nil
}

func turntableCommand(e *env, args []string) (string, error) {
	pad, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	on := byte(0)
	if argBool(args[1]) {
		on = 1
	}
	p := make([]byte, 16)
	p[0], p[1], p[2], p[3] = byte(pad), on, 1, 0xFF // auto mode
	binary.LittleEndian.PutUint16(p[4:6], 400)      // brake ms
	binary.LittleEndian.PutUint16(p[6:8], 450)      // backspin ms
	copy(p[8:12], f32le(11))                        // transform rate
	copy(p[12:16], f32le(0.35))                     // vinyl noise
	e.send(proto.CmdPadTurntablism, p)
	return "", nil
}

func muteCommand(e *env, args []string) (string, error) {
	track, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	e.send(proto.CmdTrackMute, []byte{byte(track), 1})
	return "", nil
}

func soloCommand(e *env, args []string) (string, error) {
	track, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	e.send(proto.CmdTrackSolo, []byte{byte(track), 1})
	return "", nil
}

func panCommand(e *env, args []string) (string, error) {
	track, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	pan, err := argInt(args[1]) // -100..100
	if err != nil {
		return "", err
	}
	e.send(proto.CmdTrackPan, []byte{byte(track), byte(int8(pan))})
	return "", nil
}

// send <track> <reverb|delay|chorus> <0-100>
func sendCommand(e *env, args []string) (string, error) {
	track, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	amt, err := argInt(args[2])
	if err != nil {
		return "", err
	}
	var cmd uint8
	switch args[1] {
	case "reverb":
		cmd = proto.CmdTrackReverbSend
	case "delay":
		cmd = proto.CmdTrackDelaySend
	case "chorus":
		cmd = proto.CmdTrackChorusSend
	default:
		return "", fmt.Errorf("unknown send bus: %s", args[1])
	}
	e.send(cmd, []byte{byte(track), byte(amt)})
	return "", nil
}

// fx <name> <on|off> toggles a master effect.
func fxCommand(e *env, args []string) (string, error) {
	on := byte(0)
	if argBool(args[1]) {
		on = 1
	}
	var cmd uint8
	switch args[0] {
	case "delay":
		cmd = proto.CmdDelayActive
	case "reverb":
		cmd = proto.CmdReverbActive
	case "chorus":
		cmd = proto.CmdChorusActive
	case "phaser":
		cmd = proto.CmdPhaserActive
	case "flanger":
		cmd = proto.CmdFlangerActive
	case "tremolo":
		cmd = proto.CmdTremoloActive
	case "comp":
		cmd = proto.CmdCompActive
	case "limiter":
		cmd = proto.CmdLimiterActive
	default:
		return "", fmt.Errorf("unknown effect: %s", args[0])
	}
	e.send(cmd, []byte{on})
	return "", nil
}

// sidechain off | sidechain <src> <maskHex> [amount]
func sidechainCommand(e *env, args []string) (string, error) {
	if args[0] == "off" {
		e.send(proto.CmdSidechainClear, nil)
		return "", nil
	}
	if len(args) < 2 {
		return "", fmt.Errorf("usage: sidechain <src> <maskHex> [amount]")
	}
	src, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	mask, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 16)
	if err != nil {
		return "", err
	}
	amount := 0.8
	if len(args) > 2 {
		if amount, err = argFloat(args[2]); err != nil {
			return "", err
		}
	}
	p := make([]byte, 20)
	p[0] = byte(src)
	binary.LittleEndian.PutUint16(p[2:4], uint16(mask))
	copy(p[4:8], f32le(float32(amount)))
	copy(p[8:12], f32le(10))   // attack ms
	copy(p[12:16], f32le(100)) // release ms
	copy(p[16:20], f32le(0))   // knee
	e.send(proto.CmdSidechainSet, p)
	return "", nil
}

// synth <engine> <inst> [vel]
func synthCommand(e *env, args []string) (string, error) {
	engine, err := argInt(args[0])
	if err != nil {
		return "", err
	}
	inst, err := argInt(args[1])
	if err != nil {
		return "", err
	}
	vel := 100
	if len(args) > 2 {
		if vel, err = argInt(args[2]); err != nil {
			return "", err
		}
	}
	e.send(proto.CmdSynthTrigger, []byte{byte(engine), byte(inst), byte(vel)})
	return "", nil
}

func statusCommand(e *env, _ []string) (string, error) {
	e.send(proto.CmdGetStatus, nil)
	resp := e.response()
	if len(resp) < proto.StatusSize {
		return "", fmt.Errorf("no status response")
	}
	voices := resp[0]
	uptime := binary.LittleEndian.Uint32(resp[4:8])
	events := resp[10]
	loaded := resp[46]
	return fmt.Sprintf("voices:%d loaded:%d uptime:%dms events:%d errors:%d",
		voices, loaded, uptime, events, e.parser.ErrorCount), nil
}

func peaksCommand(e *env, _ []string) (string, error) {
	e.send(proto.CmdGetPeaks, nil)
	resp := e.response()
	if len(resp) < 17*4 {
		return "", fmt.Errorf("no peaks response")
	}
	var sb strings.Builder
	for i := 0; i < 16; i++ {
		v := math.Float32frombits(binary.LittleEndian.Uint32(resp[i*4:]))
		fmt.Fprintf(&sb, "%d:%.2f ", i, v)
	}
	master := math.Float32frombits(binary.LittleEndian.Uint32(resp[16*4:]))
	fmt.Fprintf(&sb, "master:%.2f", master)
	return sb.String(), nil
}

func pingCommand(e *env, _ []string) (string, error) {
	e.send(proto.CmdPing, []byte{0xDE, 0xAD, 0xBE, 0xEF})
	resp := e.response()
	if len(resp) < 8 {
		return "", fmt.Errorf("no pong")
	}
	uptime := binary.LittleEndian.Uint32(resp[4:8])
	return fmt.Sprintf("pong uptime:%dms", uptime), nil
}

func resetCommand(e *env, _ []string) (string, error) {
	e.send(proto.CmdReset, nil)
	return "reset", nil
}
