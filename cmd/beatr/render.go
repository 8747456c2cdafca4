package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"golang.org/x/sync/errgroup"

	"github.com/SamSeenX/BeatR/core/beat"
	"github.com/SamSeenX/BeatR/core/model"
	"github.com/SamSeenX/BeatR/internal/audio"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

// renderTail is rendered after the last hit ends.
const renderTail = 0.5

type renderJob struct {
	common
	hits       []hit
	duration   float64
	reverbSend float64
	logger     *beatr_log.Logger
}

func runRender(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var job renderJob
	job.register(fs)
	out := fs.String("o", "", "output WAV file")
	hitList := fs.String("hits", "", "comma separated NAME@SECONDS hits")
	bars := fs.Int("bars", 1, "pattern loops to render")
	stems := fs.String("stems", "", "also write one WAV per instrument into this directory")
	fs.Float64Var(&job.duration, "duration", 0, "seconds to render, 0 to fit the hits")
	fs.Float64Var(&job.reverbSend, "reverb-send", 0, "reverb send level for every channel")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" && *stems == "" {
		return errors.New("-o or -stems is required")
	}

	hits, err := parseHits(*hitList)
	if err != nil {
		return err
	}
	p, err := job.loadPattern()
	if err != nil {
		return err
	}
	if p != nil {
		hits = append(hits, patternHits(p, job.bpm, *bars)...)
	}
	if len(hits) == 0 {
		return errors.New("nothing to render: give -hits or -pattern")
	}
	job.hits = hits
	job.logger = job.newLogger(stderr)
	if job.duration <= 0 {
		job.duration = job.length()
	}

	if *out != "" {
		if err := job.write(*out, nil); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote %s (%.2fs, %d hits)\n", *out, job.duration, len(hits))
	}
	if *stems != "" {
		if err := job.writeStems(*stems); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "wrote stems to %s\n", *stems)
	}
	return nil
}

// patternHits lays bars loops of p out on a clock starting at zero.
func patternHits(p *model.Pattern, bpm, bars int) []hit {
	var hits []hit
	s := beat.NewScheduler(p, func() float64 { return 0 }, nil)
	s.BPM = bpm
	s.Lookahead = 0
	s.OnStep = func(step int, at float64) {
		for _, inst := range p.Hits(step) {
			hits = append(hits, hit{inst, at})
		}
	}
	s.Start()
	s.Until(float64(bars*p.Steps()) * s.StepDuration())
	return hits
}

// length fits the last hit plus, when anything reaches the reverb, the
// impulse.
func (j *renderJob) length() float64 {
	var end float64
	for _, h := range j.hits {
		end = max(end, h.at+h.inst.Duration())
	}
	end += renderTail
	if j.reverbSend > 0 || j.mixerPath != "" {
		end += audio.DefaultOptions().ReverbSeconds
	}
	return end
}

// write renders the job into a WAV file. With solo set only that
// instrument's hits are played.
func (j *renderJob) write(path string, solo *audio.Instrument) error {
	opts := j.options(j.logger)
	opts.ReverbSend = j.reverbSend
	e, err := audio.New(opts)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := j.applyMixer(e); err != nil {
		return err
	}
	if err := e.Resume(); err != nil {
		return err
	}
	for _, h := range j.hits {
		if solo == nil || h.inst == *solo {
			e.Play(h.inst, h.at)
		}
	}

	return encodeWAV(path, e.Take(j.duration), e.Format())
}

// encodeWAV writes s to path. A failed encode leaves no file behind.
func encodeWAV(path string, s beep.Streamer, format beep.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := wav.Encode(f, s, format); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// writeStems renders every instrument that has hits on its own engine.
func (j *renderJob) writeStems(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	used := map[audio.Instrument]bool{}
	for _, h := range j.hits {
		used[h.inst] = true
	}
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, inst := range audio.Instruments() {
		if !used[inst] {
			continue
		}
		g.Go(func() error {
			return j.write(filepath.Join(dir, inst.String()+".wav"), &inst)
		})
	}
	return g.Wait()
}
