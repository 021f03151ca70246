package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	wav "github.com/youpy/go-wav"

	"github.com/atane/drumcore/audio"
	"github.com/atane/drumcore/proto"
)

// padKeywords maps filename fragments to the canonical pad layout
// (BD=0, SD=1, CH=2, ...).
var padKeywords = []struct {
	keyword string
	pad     int
}{
	{"BD", 0}, {"KICK", 0},
	{"SD", 1}, {"SNARE", 1},
	{"CH", 2}, {"HH", 2}, {"HIHAT", 2}, {"CLOSED", 2},
	{"OH", 3}, {"OPEN", 3},
	{"CY", 4}, {"CYMBAL", 4}, {"CRASH", 4}, {"RIDE", 4},
	{"CP", 5}, {"CLAP", 5},
	{"RS", 6}, {"RIM", 6},
	{"CB", 7}, {"COW", 7}, {"BELL", 7},
	{"LT", 8}, {"MT", 9}, {"HT", 10},
	{"MA", 11}, {"MARAC", 11},
	{"CL", 12}, {"CLAV", 12},
	{"HC", 13}, {"CONGA", 13},
	{"MC", 14},
	{"LC", 15},
}

func guessPad(name string) int {
	upper := strings.ToUpper(name)
	for _, kw := range padKeywords {
		if strings.Contains(upper, kw.keyword) {
			return kw.pad
		}
	}
	return -1
}

// kitStore loads WAV files from disk onto pads. It doubles as the
// protocol's filesystem collaborator.
type kitStore struct {
	engine     *audio.Engine
	root       string
	currentKit string
}

func newKitStore(e *audio.Engine) *kitStore {
	return &kitStore{engine: e}
}

// loadWav decodes one file to mono 16-bit frames. Stereo sources fold to
// mono; the engine assumes input at its own rate.
func loadWav(path string) ([]int16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	channels := uint(format.NumChannels)
	if channels == 0 {
		channels = 1
	}
	var frames []int16
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		for _, s := range samples {
			var v float64
			for ch := uint(0); ch < channels; ch++ {
				v += r.FloatValue(s, ch)
			}
			frames = append(frames, int16(v/float64(channels)*32767))
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%s: no samples", path)
	}
	return frames, nil
}

// loadDir loads every WAV in a directory, assigning pads by filename
// keyword, falling back to the next free pad.
func (k *kitStore) loadDir(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.wav"))
	if err != nil {
		return 0, err
	}
	k.root = filepath.Dir(dir)
	used := make(map[int]bool)
	loaded := 0
	var mask uint32
	for _, file := range files {
		frames, err := loadWav(file)
		if err != nil {
			continue
		}
		pad := guessPad(filepath.Base(file))
		if pad < 0 || used[pad] {
			for p := 0; p < k.engine.MaxPads(); p++ {
				if !used[p] {
					pad = p
					break
				}
			}
		}
		if pad < 0 || used[pad] {
			break
		}
		if k.engine.LoadSample(pad, frames) {
			used[pad] = true
			mask |= 1 << uint(pad)
			loaded++
		}
	}
	if loaded > 0 {
		k.currentKit = filepath.Base(dir)
		k.engine.PushEvent(audio.EventKitLoaded, uint8(loaded), mask, k.currentKit)
	}
	return loaded, nil
}

// proto.Store implementation.

func (k *kitStore) ListFolders() []string {
	if k.root == "" {
		return nil
	}
	entries, err := os.ReadDir(k.root)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out
}

func (k *kitStore) KitList() []string {
	return k.ListFolders()
}

func (k *kitStore) ListFiles(folder string) []string {
	files, err := filepath.Glob(filepath.Join(k.root, folder, "*.wav"))
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, filepath.Base(f))
	}
	return out
}

func (k *kitStore) FileInfo(folder, file string) (proto.FileInfo, bool) {
	path := filepath.Join(k.root, folder, file)
	st, err := os.Stat(path)
	if err != nil {
		return proto.FileInfo{}, false
	}
	f, err := os.Open(path)
	if err != nil {
		return proto.FileInfo{}, false
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return proto.FileInfo{}, false
	}
	info := proto.FileInfo{
		SizeBytes:     uint32(st.Size()),
		SampleRate:    uint16(format.SampleRate),
		BitsPerSample: format.BitsPerSample,
		Channels:      uint8(format.NumChannels),
	}
	if format.ByteRate > 0 {
		info.DurationMs = uint32(uint64(st.Size()) * 1000 / uint64(format.ByteRate))
	}
	return info, true
}

func (k *kitStore) LoadSample(folder, file string, pad int) error {
	frames, err := loadWav(filepath.Join(k.root, folder, file))
	if err != nil {
		return err
	}
	if !k.engine.LoadSample(pad, frames) {
		return fmt.Errorf("pad %d out of range", pad)
	}
	return nil
}

func (k *kitStore) LoadKit(name string, startPad, maxPads int) (uint32, int, error) {
	files, err := filepath.Glob(filepath.Join(k.root, name, "*.wav"))
	if err != nil || len(files) == 0 {
		return 0, 0, fmt.Errorf("kit %s: no files", name)
	}
	pad := startPad
	end := startPad + maxPads
	if end > k.engine.MaxPads() {
		end = k.engine.MaxPads()
	}
	var mask uint32
	count := 0
	for _, file := range files {
		if pad >= end {
			break
		}
		frames, err := loadWav(file)
		if err != nil {
			continue
		}
		if k.engine.LoadSample(pad, frames) {
			mask |= 1 << uint(pad)
			count++
			pad++
		}
	}
	if count > 0 {
		k.currentKit = name
	}
	return mask, count, nil
}

func (k *kitStore) UnloadKit() string {
	name := k.currentKit
	k.currentKit = ""
	return name
}

func (k *kitStore) Status() (bool, string) {
	return k.root != "", k.currentKit
}
