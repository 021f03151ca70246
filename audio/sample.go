package audio

// sample is a mono 16-bit pad buffer. The upload transaction writes into
// buf while loaded is false; SampleEnd publishes length and flips loaded,
// after which the buffer is immutable until unload.
type sample struct {
	buf        []int16
	length     uint32
	totalBytes uint32
	loaded     bool
	uploading  bool
	received   uint32
	reversed   bool
}

// SampleBegin starts an upload transaction for a pad, declaring the total
// byte count. Any previous sample on the pad becomes unloaded.
func (e *Engine) SampleBegin(pad int, totalBytes uint32) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	s := &e.samples[pad]
	if totalBytes > uint32(len(s.buf))*2 {
		totalBytes = uint32(len(s.buf)) * 2
	}
	s.loaded = false
	s.uploading = true
	s.totalBytes = totalBytes
	s.received = 0
	s.length = 0
	s.reversed = false
}

// SampleData copies one chunk at the given byte offset. Chunks outside the
// declared range, or arriving outside a transaction, are discarded.
func (e *Engine) SampleData(pad int, offset uint32, chunk []byte) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	s := &e.samples[pad]
	if !s.uploading {
		return
	}
	if offset >= s.totalBytes {
		return
	}
	if end := offset + uint32(len(chunk)); end > s.totalBytes {
		chunk = chunk[:s.totalBytes-offset]
	}
	start := offset / 2
	n := uint32(len(chunk)) / 2
	for i := uint32(0); i < n; i++ {
		s.buf[start+i] = int16(uint16(chunk[i*2]) | uint16(chunk[i*2+1])<<8)
	}
	s.received += n * 2
}

// SampleEnd finalizes the upload. A partial upload still yields a playable
// sample of received/2 frames.
func (e *Engine) SampleEnd(pad int) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	s := &e.samples[pad]
	if !s.uploading {
		return
	}
	s.uploading = false
	if s.received < s.totalBytes {
		s.length = s.received / 2
	} else {
		s.length = s.totalBytes / 2
	}
	s.loaded = s.length > 0
}

// SampleUnload drops the pad's sample. Voices already playing it finish as
// no-ops on the next render pass.
func (e *Engine) SampleUnload(pad int) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	s := &e.samples[pad]
	s.loaded = false
	s.uploading = false
	s.length = 0
}

// SampleUnloadAll unloads every pad and deactivates all voices.
func (e *Engine) SampleUnloadAll() {
	for i := range e.samples {
		e.samples[i].loaded = false
		e.samples[i].uploading = false
		e.samples[i].length = 0
	}
	e.StopAll()
}

// LoadSample installs a complete mono buffer directly, bypassing the
// chunked wire transaction. The kit loader in cmd uses this.
func (e *Engine) LoadSample(pad int, frames []int16) bool {
	if pad < 0 || pad >= e.cfg.MaxPads || len(frames) == 0 {
		return false
	}
	s := &e.samples[pad]
	n := len(frames)
	if n > len(s.buf) {
		n = len(s.buf)
	}
	s.loaded = false
	copy(s.buf, frames[:n])
	s.length = uint32(n)
	s.reversed = false
	s.loaded = true
	return true
}

// SetPadReverse flips playback direction for the pad. New voices start at
// the last frame and advance backward; the buffer itself is untouched.
func (e *Engine) SetPadReverse(pad int, reverse bool) {
	if pad < 0 || pad >= e.cfg.MaxPads {
		return
	}
	e.samples[pad].reversed = reverse
}

// LoadedMask returns a bitmask of pads with a loaded sample.
func (e *Engine) LoadedMask() uint32 {
	var mask uint32
	for i := range e.samples {
		if e.samples[i].loaded {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// LoadedStats reports the loaded sample count and their total byte size.
func (e *Engine) LoadedStats() (count int, bytes uint32) {
	for i := range e.samples {
		if e.samples[i].loaded {
			count++
			bytes += e.samples[i].length * 2
		}
	}
	return count, bytes
}
