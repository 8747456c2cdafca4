package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SamSeenX/BeatR/internal/audio"
)

var ErrBadPattern = errors.New("model: bad pattern")

// DefaultSteps is one bar of sixteenth notes.
const DefaultSteps = 16

// Pattern is a loop of steps with one row of on/off cells per instrument.
type Pattern struct {
	steps int
	rows  [audio.NumInstruments][]bool
}

func NewPattern(steps int) *Pattern {
	if steps <= 0 {
		steps = DefaultSteps
	}
	p := &Pattern{steps: steps}
	for i := range p.rows {
		p.rows[i] = make([]bool, steps)
	}
	return p
}

func (p *Pattern) Steps() int { return p.steps }

// Set turns a cell on or off. Out of range cells are ignored.
func (p *Pattern) Set(inst audio.Instrument, step int, on bool) {
	if !inst.Valid() || step < 0 || step >= p.steps {
		return
	}
	p.rows[inst][step] = on
}

func (p *Pattern) Toggle(inst audio.Instrument, step int) {
	p.Set(inst, step, !p.At(inst, step))
}

func (p *Pattern) At(inst audio.Instrument, step int) bool {
	if !inst.Valid() || step < 0 || step >= p.steps {
		return false
	}
	return p.rows[inst][step]
}

// Hits lists the instruments on at step, wrapping around the loop.
func (p *Pattern) Hits(step int) []audio.Instrument {
	step %= p.steps
	if step < 0 {
		step += p.steps
	}
	var out []audio.Instrument
	for i, row := range p.rows {
		if row[step] {
			out = append(out, audio.Instrument(i))
		}
	}
	return out
}

// String renders the rows that have at least one hit in the format
// ParsePattern reads.
func (p *Pattern) String() string {
	var b strings.Builder
	for i, row := range p.rows {
		if !hasHit(row) {
			continue
		}
		fmt.Fprintf(&b, "%-6s ", audio.Instrument(i))
		for _, on := range row {
			if on {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func hasHit(row []bool) bool {
	for _, on := range row {
		if on {
			return true
		}
	}
	return false
}

// ParsePattern reads one row per line: an instrument name followed by its
// cells, 'x' for a hit and '.' or '-' for a rest. Spaces between cells,
// blank lines and lines starting with '#' are ignored. Every row must have
// the same length.
func ParsePattern(r io.Reader) (*Pattern, error) {
	type row struct {
		inst  audio.Instrument
		cells []bool
	}
	var rows []row
	seen := map[audio.Instrument]bool{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		inst, ok := audio.ParseInstrument(fields[0])
		if !ok {
			return nil, fmt.Errorf("%w: line %d: unknown instrument %q", ErrBadPattern, line, fields[0])
		}
		if seen[inst] {
			return nil, fmt.Errorf("%w: line %d: duplicate row for %v", ErrBadPattern, line, inst)
		}
		seen[inst] = true
		var cells []bool
		for _, c := range strings.Join(fields[1:], "") {
			switch c {
			case 'x', 'X':
				cells = append(cells, true)
			case '.', '-':
				cells = append(cells, false)
			default:
				return nil, fmt.Errorf("%w: line %d: bad cell %q", ErrBadPattern, line, c)
			}
		}
		if len(cells) == 0 {
			return nil, fmt.Errorf("%w: line %d: no steps for %v", ErrBadPattern, line, inst)
		}
		if len(rows) > 0 && len(cells) != len(rows[0].cells) {
			return nil, fmt.Errorf("%w: line %d: %d steps, want %d", ErrBadPattern, line, len(cells), len(rows[0].cells))
		}
		rows = append(rows, row{inst, cells})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("model: read pattern: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadPattern)
	}
	p := NewPattern(len(rows[0].cells))
	for _, r := range rows {
		copy(p.rows[r.inst], r.cells)
	}
	return p, nil
}

// Builtin is a one bar rock beat using every instrument.
func Builtin() *Pattern {
	p, err := ParsePattern(strings.NewReader(builtin))
	if err != nil {
		panic(err)
	}
	return p
}

const builtin = `
KICK   x... .... x.x. ....
SNARE  .... x... .... x...
HI-HAT x.x. x.x. x.x. x.x.
TOM    .... .... .... ..x.
CLAP   .... .... .... x...
RIM    ...x .... .... ....
`
