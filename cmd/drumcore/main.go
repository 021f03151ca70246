package main

import (
	"flag"
	"log"
	"os"

	"github.com/atane/drumcore/audio"
	"github.com/atane/drumcore/demo"
	"github.com/atane/drumcore/proto"
	"github.com/atane/drumcore/synth"
)

type sink interface {
	Start() error
	Stop() error
}

func main() {
	var (
		sampleRate = flag.Int("rate", 44100, "output sample rate (44100 or 48000)")
		blockSize  = flag.Int("block", 128, "render block size in frames")
		backend    = flag.String("backend", "portaudio", "audio backend: portaudio or oto")
		kitDir     = flag.String("kit", "", "directory of WAV files to load onto pads")
		demoMode   = flag.Bool("demo", false, "start with the built-in demo program")
	)
	flag.Parse()

	cfg := audio.DefaultConfig()
	cfg.SampleRate = *sampleRate
	cfg.BlockSize = *blockSize
	engine := audio.New(cfg)

	kit808 := synth.NewKit808()
	kit909 := synth.NewKit909()
	kit505 := synth.NewKit505()
	acid := synth.NewTB303()
	engine.AttachSynth(proto.SynthEngine808, kit808)
	engine.AttachSynth(proto.SynthEngine909, kit909)
	engine.AttachSynth(proto.SynthEngine505, kit505)
	engine.AttachSynth(proto.SynthEngine303, acid)
	engine.SetSynthMask(0x0B)

	store := newKitStore(engine)
	if *kitDir != "" {
		if n, err := store.loadDir(*kitDir); err != nil {
			log.Printf("kit: %v", err)
		} else {
			log.Printf("kit: loaded %d samples from %s", n, *kitDir)
		}
	}

	if *demoMode {
		seq := demo.NewSequencer(float32(cfg.SampleRate), kit808, kit909, acid)
		engine.SetTicker(seq)
	}

	dispatcher := proto.NewDispatcher(engine, store)
	parser := proto.NewParser(dispatcher)

	var out sink
	var err error
	switch *backend {
	case "oto":
		out, err = audio.NewOtoSink(engine)
	default:
		out, err = audio.NewSink(engine)
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := out.Start(); err != nil {
		log.Fatal(err)
	}
	defer out.Stop()

	if err := repl(engine, parser, os.Stdin); err != nil {
		log.Fatal(err)
	}
}
