package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/SamSeenX/BeatR/core/model"
	"github.com/SamSeenX/BeatR/core/transport"
	"github.com/SamSeenX/BeatR/internal/audio"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
	"github.com/SamSeenX/BeatR/internal/mixer"
)

// openDevice builds an engine on the audio device with the mixer applied.
func (c *common) openDevice(logger *beatr_log.Logger) (*audio.Engine, error) {
	backend, err := audio.NewOtoBackend(c.sampleRate)
	if err != nil {
		return nil, err
	}
	opts := c.options(logger)
	opts.Backend = backend
	e, err := audio.New(opts)
	if err != nil {
		return nil, err
	}
	if err := c.applyMixer(e); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func runPlay(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	watch := fs.Bool("watch", false, "reload -mixer when the file changes")
	duration := fs.Float64("duration", 0, "seconds to play, 0 until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := c.loadPattern()
	if err != nil {
		return err
	}
	if p == nil {
		p = model.Builtin()
	}
	logger := c.newLogger(stderr)

	e, err := c.openDevice(logger)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.Resume(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*duration*float64(time.Second)))
		defer cancel()
	}
	if *watch && c.mixerPath != "" {
		go func() {
			if err := mixer.Watch(ctx, c.mixerPath, logger, func(s *mixer.Settings) { s.Apply(e) }); err != nil {
				logger.Errorf("[MIXER] %v", err)
			}
		}()
	}

	tr := transport.New(p, e, e, logger)
	defer tr.Close()
	tr.SetBPM(c.bpm)
	tr.Start()
	fmt.Fprintf(stdout, "playing %d steps at %d bpm, ctrl-c to stop\n", p.Steps(), c.bpm)
	for {
		select {
		case <-ctx.Done():
			tr.Stop()
			return nil
		case ev := <-tr.Events:
			logger.Debugf("[BEAT] step %d at %.3fs", ev.Step, ev.At)
		}
	}
}
