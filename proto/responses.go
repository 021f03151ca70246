package proto

import "github.com/atane/drumcore/audio"

// StatusSize is the fixed status response length.
const StatusSize = 54

// buildStatus lays out the status response:
//
//	0      active voices
//	1      CPU %
//	2-3    loaded bitmask pads 0-15
//	4-7    uptime ms
//	8      store present
//	9      loaded bitmask pads 16-23
//	10     pending event count
//	11-13  reserved
//	14-45  current kit name (32 chars)
//	46     total loaded samples
//	47-50  total sample bytes
//	51     MAX_PADS
//	52-53  reserved
func (d *Dispatcher) buildStatus() []byte {
	e := d.engine
	resp := make([]byte, StatusSize)
	resp[0] = uint8(e.ActiveVoices())
	resp[1] = uint8(e.CPULoad() * 100)

	mask := e.LoadedMask()
	resp[2] = byte(mask)
	resp[3] = byte(mask >> 8)

	up := e.UptimeMillis()
	resp[4] = byte(up)
	resp[5] = byte(up >> 8)
	resp[6] = byte(up >> 16)
	resp[7] = byte(up >> 24)

	present := false
	kit := d.currentKit
	if d.store != nil {
		present, kit = d.store.Status()
	}
	if present {
		resp[8] = 1
	}
	resp[9] = byte(mask >> 16)
	resp[10] = uint8(e.PendingEvents())
	copy(resp[14:46], kit)

	count, bytes := e.LoadedStats()
	resp[46] = uint8(count)
	resp[47] = byte(bytes)
	resp[48] = byte(bytes >> 8)
	resp[49] = byte(bytes >> 16)
	resp[50] = byte(bytes >> 24)
	resp[51] = uint8(e.MaxPads())
	return resp
}

// buildPeaks packs 16 track peaks plus the master peak as 17 f32 values.
func (d *Dispatcher) buildPeaks() []byte {
	var peaks [16]float32
	d.engine.TrackPeaks(peaks[:])
	out := make([]byte, 17*4)
	for i, v := range peaks {
		putF32(out, i*4, v)
	}
	putF32(out, 16*4, d.engine.MasterPeak())
	return out
}

// buildEvents drains up to four pending events: count byte plus 32-byte
// records.
func (d *Dispatcher) buildEvents() []byte {
	var evts [4]audio.Event
	n := d.engine.DrainEvents(evts[:])
	out := make([]byte, 1+n*32)
	out[0] = uint8(n)
	for i := 0; i < n; i++ {
		evts[i].Encode(out[1+i*32 : 1+(i+1)*32])
	}
	return out
}

// cString reads a NUL-terminated fixed field.
func cString(p []byte) string {
	for i, b := range p {
		if b == 0 {
			return string(p[:i])
		}
	}
	return string(p)
}

// dispatchStore handles the filesystem collaborator commands. Without a
// store, queries respond empty and loads are dropped.
func (d *Dispatcher) dispatchStore(hdr Header, p []byte) {
	e := d.engine
	switch hdr.Cmd {

	case CmdFsKitList, CmdFsListFolders:
		var names []string
		if d.store != nil {
			if hdr.Cmd == CmdFsKitList {
				names = d.store.KitList()
			} else {
				names = d.store.ListFolders()
			}
		}
		if len(names) > 16 {
			names = names[:16]
		}
		out := make([]byte, 1+len(names)*32)
		out[0] = uint8(len(names))
		for i, n := range names {
			copy(out[1+i*32:1+(i+1)*32], n)
		}
		d.respond(hdr.Cmd, hdr.Sequence, out)

	case CmdFsListFiles:
		var files []string
		if d.store != nil && len(p) >= 32 {
			files = d.store.ListFiles(cString(p[:32]))
		}
		if len(files) > 20 {
			files = files[:20]
		}
		out := make([]byte, 1+len(files)*32)
		out[0] = uint8(len(files))
		for i, f := range files {
			copy(out[1+i*32:1+(i+1)*32], f)
		}
		d.respond(hdr.Cmd, hdr.Sequence, out)

	case CmdFsFileInfo:
		out := make([]byte, 16)
		if d.store != nil && len(p) >= 64 {
			if info, ok := d.store.FileInfo(cString(p[:32]), cString(p[32:64])); ok {
				out[0] = byte(info.SizeBytes)
				out[1] = byte(info.SizeBytes >> 8)
				out[2] = byte(info.SizeBytes >> 16)
				out[3] = byte(info.SizeBytes >> 24)
				out[4] = byte(info.SampleRate)
				out[5] = byte(info.SampleRate >> 8)
				out[6] = byte(info.BitsPerSample)
				out[7] = byte(info.BitsPerSample >> 8)
				out[8] = info.Channels
				out[12] = byte(info.DurationMs)
				out[13] = byte(info.DurationMs >> 8)
				out[14] = byte(info.DurationMs >> 16)
				out[15] = byte(info.DurationMs >> 24)
			}
		}
		d.respond(hdr.Cmd, hdr.Sequence, out)

	case CmdFsLoadSample:
		if d.store != nil && len(p) >= 65 {
			folder, file, pad := cString(p[:32]), cString(p[32:64]), int(p[64])
			if err := d.store.LoadSample(folder, file, pad); err != nil {
				e.PushEvent(audio.EventError, 0, 1<<uint(pad), file)
			} else {
				e.PushEvent(audio.EventSampleLoaded, 1, 1<<uint(pad), file)
			}
		}

	case CmdFsLoadKit:
		if d.store != nil && len(p) >= 34 {
			name := cString(p[:32])
			mask, count, err := d.store.LoadKit(name, int(p[32]), int(p[33]))
			if err == nil {
				d.currentKit = name
				e.PushEvent(audio.EventKitLoaded, uint8(count), mask, name)
			} else {
				e.PushEvent(audio.EventError, 0, 0, name)
			}
		}

	case CmdFsStatus:
		out := make([]byte, 36)
		present, kit := false, d.currentKit
		if d.store != nil {
			present, kit = d.store.Status()
		}
		if present {
			out[0] = 1
		}
		mask := e.LoadedMask()
		out[2] = byte(mask)
		out[3] = byte(mask >> 8)
		copy(out[4:36], kit)
		d.respond(hdr.Cmd, hdr.Sequence, out)

	case CmdFsUnloadKit:
		name := d.currentKit
		if d.store != nil {
			name = d.store.UnloadKit()
		}
		e.SampleUnloadAll()
		e.PushEvent(audio.EventKitUnloaded, 0, 0, name)
		d.currentKit = ""

	case CmdFsGetLoaded:
		mask := e.LoadedMask()
		d.respond(hdr.Cmd, hdr.Sequence, []byte{byte(mask), byte(mask >> 8), byte(mask >> 16), 0})

	case CmdFsAbort:
		// Nothing in flight to abort; accepted for compatibility.

	default:
		// Unknown opcode: no-op.
	}
}
