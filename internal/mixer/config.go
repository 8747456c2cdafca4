// Package mixer loads channel strip settings from JSON and applies them to
// a running engine.
package mixer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/SamSeenX/BeatR/internal/audio"
)

var ErrUnknownChannel = errors.New("mixer: unknown channel")

// Channel holds the strip controls. Nil fields are left untouched by Apply.
type Channel struct {
	Bass       *float64 `json:"bass,omitempty"`
	Mid        *float64 `json:"mid,omitempty"`
	Treble     *float64 `json:"treble,omitempty"`
	Volume     *float64 `json:"volume,omitempty"`
	Pan        *float64 `json:"pan,omitempty"`
	ReverbSend *float64 `json:"reverbSend,omitempty"`
}

// Settings is a mixer document. Channel keys are instrument names such as
// "KICK" or "HI-HAT".
type Settings struct {
	Master   *float64           `json:"master,omitempty"`
	Bypass   *bool              `json:"bypass,omitempty"`
	Channels map[string]Channel `json:"channels,omitempty"`
}

// Parse decodes one settings document. Unknown fields are rejected and
// channel names are normalized to their canonical spelling.
func Parse(r io.Reader) (*Settings, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Settings
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("mixer: decode: %w", err)
	}
	channels := make(map[string]Channel, len(s.Channels))
	for name, ch := range s.Channels {
		inst, ok := audio.ParseInstrument(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
		channels[inst.String()] = ch
	}
	s.Channels = channels
	return &s, nil
}

func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mixer: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Apply writes every set field to e.
func (s *Settings) Apply(e *audio.Engine) {
	if s.Master != nil {
		e.SetMasterVolume(*s.Master)
	}
	if s.Bypass != nil {
		e.SetBypass(*s.Bypass)
	}
	for name, c := range s.Channels {
		ch, ok := e.ChannelByName(name)
		if !ok {
			continue
		}
		bass, mid, treble := ch.EQ()
		ch.SetEQ(or(c.Bass, bass), or(c.Mid, mid), or(c.Treble, treble))
		if c.Volume != nil {
			ch.SetVolume(*c.Volume)
		}
		if c.Pan != nil {
			ch.SetPan(*c.Pan)
		}
		if c.ReverbSend != nil {
			ch.SetReverbSend(*c.ReverbSend)
		}
	}
}

// Snapshot captures the current engine settings as a full document.
func Snapshot(e *audio.Engine) *Settings {
	master, bypass := e.MasterVolume(), e.Bypassed()
	s := &Settings{Master: &master, Bypass: &bypass, Channels: map[string]Channel{}}
	for _, ch := range e.Channels() {
		bass, mid, treble := ch.EQ()
		vol, pan, send := ch.Volume(), ch.Pan(), ch.ReverbSend()
		s.Channels[ch.Instrument().String()] = Channel{
			Bass: &bass, Mid: &mid, Treble: &treble,
			Volume: &vol, Pan: &pan, ReverbSend: &send,
		}
	}
	return s
}

// Write encodes s as indented JSON.
func (s *Settings) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func or(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
