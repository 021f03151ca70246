package audio

import (
	"github.com/gordonklaus/portaudio"
)

// Sink drives the engine from a portaudio output stream. The callback
// renders one block per invocation; block size follows the stream buffer.
type Sink struct {
	engine *Engine
	stream *portaudio.Stream
}

func NewSink(e *Engine) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	s := &Sink{engine: e}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(e.cfg.SampleRate), e.cfg.BlockSize, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	s.stream = stream
	return s, nil
}

func (s *Sink) process(out []int16) {
	s.engine.RenderBlock(out)
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	s.stream.Close()
	portaudio.Terminate()
	return nil
}
