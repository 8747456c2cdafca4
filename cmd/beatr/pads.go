package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/SamSeenX/BeatR/internal/audio"
)

// padKeys maps the number row to the kit in channel order.
var padKeys = map[byte]audio.Instrument{
	'1': audio.Kick,
	'2': audio.Snare,
	'3': audio.HiHat,
	'4': audio.Tom,
	'5': audio.Clap,
	'6': audio.Rim,
}

// pads turns key presses into hits. The first pad press resumes the
// engine.
type pads struct {
	e   *audio.Engine
	out io.Writer
}

// press handles one key and reports whether it asked to quit.
func (p *pads) press(k byte) (bool, error) {
	switch k {
	case 'q', 'Q', 3, 4:
		return true, nil
	}
	inst, ok := padKeys[k]
	if !ok {
		return false, nil
	}
	if err := p.e.Resume(); err != nil {
		return true, err
	}
	p.e.Play(inst, p.e.CurrentTime())
	fmt.Fprintf(p.out, "%s\r\n", inst)
	return false, nil
}

func runPads(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pads", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("stdin is not a terminal")
	}
	e, err := c.openDevice(c.newLogger(stderr))
	if err != nil {
		return err
	}
	defer e.Close()

	old, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	defer term.Restore(fd, old)

	fmt.Fprint(stdout, "1 KICK  2 SNARE  3 HI-HAT  4 TOM  5 CLAP  6 RIM  q quit\r\n")
	p := &pads{e: e, out: stdout}
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		if quit, err := p.press(buf[0]); quit || err != nil {
			return err
		}
	}
}
