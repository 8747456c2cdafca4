// Command beatr renders and plays the synthesized drum kit.
//
//	beatr render -o out.wav [-hits KICK@0,SNARE@0.5] [-pattern file] [-stems dir]
//	beatr play [-pattern file] [-mixer file -watch]
//	beatr pads
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"

	"github.com/SamSeenX/BeatR/core/model"
	"github.com/SamSeenX/BeatR/internal/audio"
	beatr_log "github.com/SamSeenX/BeatR/internal/log"
	"github.com/SamSeenX/BeatR/internal/mixer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

const usage = `usage: beatr <command> [flags]

commands:
  render   render hits or a pattern to a WAV file
  play     loop a pattern through the audio device
  pads     trigger instruments from the keyboard
`

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	var err error
	switch args[0] {
	case "render":
		err = runRender(args[1:], stdout, stderr)
	case "play":
		err = runPlay(args[1:], stdout, stderr)
	case "pads":
		err = runPads(args[1:], stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return 0
	default:
		fmt.Fprintf(stderr, "beatr: unknown command %q\n\n%s", args[0], usage)
		return 2
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	default:
		fmt.Fprintf(stderr, "beatr %s: %v\n", args[0], err)
		return 1
	}
}

// common holds the flags every command accepts.
type common struct {
	logLevel   string
	sampleRate int
	bypass     bool
	mixerPath  string
	seed       uint64
	pattern    string
	bpm        int
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.logLevel, "log-level", "info", "DEBUG, INFO, WARN, ERROR or NONE")
	fs.IntVar(&c.sampleRate, "sample-rate", 44100, "output sample rate")
	fs.BoolVar(&c.bypass, "bypass", false, "skip EQ, pan, volume and reverb sends")
	fs.StringVar(&c.mixerPath, "mixer", "", "mixer settings JSON file")
	fs.Uint64Var(&c.seed, "seed", 0, "noise seed, 0 for random")
	fs.StringVar(&c.pattern, "pattern", "", "pattern file, or \"builtin\"")
	fs.IntVar(&c.bpm, "bpm", 120, "tempo in beats per minute")
}

func (c *common) newLogger(w io.Writer) *beatr_log.Logger {
	return beatr_log.New(w, beatr_log.LevelFromString(c.logLevel))
}

func (c *common) options(logger *beatr_log.Logger) audio.Options {
	opts := audio.DefaultOptions()
	opts.SampleRate = c.sampleRate
	opts.Bypass = c.bypass
	opts.Logger = logger
	if c.seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.seed, c.seed))
	}
	return opts
}

// applyMixer loads the mixer file, if any, into e.
func (c *common) applyMixer(e *audio.Engine) error {
	if c.mixerPath == "" {
		return nil
	}
	s, err := mixer.Load(c.mixerPath)
	if err != nil {
		return err
	}
	s.Apply(e)
	return nil
}

// loadPattern returns nil when no pattern flag was given.
func (c *common) loadPattern() (*model.Pattern, error) {
	switch c.pattern {
	case "":
		return nil, nil
	case "builtin":
		return model.Builtin(), nil
	}
	f, err := os.Open(c.pattern)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return model.ParsePattern(f)
}

type hit struct {
	inst audio.Instrument
	at   float64
}

// parseHits reads a list such as "KICK@0,SNARE@0.5".
func parseHits(s string) ([]hit, error) {
	var hits []hit
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, at, ok := strings.Cut(item, "@")
		if !ok {
			return nil, fmt.Errorf("hit %q: want NAME@SECONDS", item)
		}
		inst, ok := audio.ParseInstrument(name)
		if !ok {
			return nil, fmt.Errorf("hit %q: unknown instrument", item)
		}
		t, err := strconv.ParseFloat(at, 64)
		if err != nil || t < 0 {
			return nil, fmt.Errorf("hit %q: bad time", item)
		}
		hits = append(hits, hit{inst, t})
	}
	return hits, nil
}
