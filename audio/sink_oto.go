package audio

import (
	"encoding/binary"
	"io"

	"github.com/ebitengine/oto/v3"
)

// OtoSink is the alternate output backend built on oto. The engine renders
// blocks into the player's pull reader.
type OtoSink struct {
	engine *Engine
	ctx    *oto.Context
	player *oto.Player
	block  []int16
	buf    []byte
	off    int
}

func NewOtoSink(e *Engine) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   e.cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	s := &OtoSink{
		engine: e,
		ctx:    ctx,
		block:  make([]int16, e.cfg.BlockSize*2),
		buf:    make([]byte, e.cfg.BlockSize*4),
	}
	s.off = len(s.buf)
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Read renders engine blocks on demand for the oto player.
func (s *OtoSink) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if s.off >= len(s.buf) {
			s.engine.RenderBlock(s.block)
			for i, v := range s.block {
				binary.LittleEndian.PutUint16(s.buf[i*2:], uint16(v))
			}
			s.off = 0
		}
		c := copy(p[n:], s.buf[s.off:])
		n += c
		s.off += c
	}
	return n, nil
}

var _ io.Reader = (*OtoSink)(nil)

func (s *OtoSink) Start() error {
	s.player.Play()
	return nil
}

func (s *OtoSink) Stop() error {
	return s.player.Close()
}
