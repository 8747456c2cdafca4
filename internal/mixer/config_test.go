package mixer

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SamSeenX/BeatR/internal/audio"
)

func testEngine(t *testing.T) *audio.Engine {
	t.Helper()
	opts := audio.DefaultOptions()
	opts.ReverbSeconds = 0.1
	e, err := audio.New(opts)
	if err != nil {
		t.Fatalf("audio.New: %v", err)
	}
	return e
}

func TestParseAndApplyPartialDocument(t *testing.T) {
	doc := `{
		"master": 0.8,
		"channels": {
			"kick": {"bass": 6, "volume": 0.9},
			"HI-HAT": {"pan": -0.5, "reverbSend": 0.3}
		}
	}`
	s, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := s.Channels["KICK"]; !ok {
		t.Fatalf("channel names not normalized: %v", s.Channels)
	}

	e := testEngine(t)
	e.Channel(audio.Kick).SetEQ(0, 2, -3)
	s.Apply(e)

	if e.MasterVolume() != 0.8 || e.Bypassed() {
		t.Fatalf("master %v bypass %v", e.MasterVolume(), e.Bypassed())
	}
	kick := e.Channel(audio.Kick)
	if b, m, tr := kick.EQ(); b != 6 || m != 2 || tr != -3 {
		t.Fatalf("kick EQ %v %v %v, want untouched mid and treble", b, m, tr)
	}
	if kick.Volume() != 0.9 || kick.Pan() != 0 {
		t.Fatalf("kick volume %v pan %v", kick.Volume(), kick.Pan())
	}
	hat := e.Channel(audio.HiHat)
	if hat.Pan() != -0.5 || hat.ReverbSend() != 0.3 || hat.Volume() != 1 {
		t.Fatalf("hi-hat pan %v send %v volume %v", hat.Pan(), hat.ReverbSend(), hat.Volume())
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name, doc string
		want      error
	}{
		{"unknown channel", `{"channels": {"COWBELL": {"volume": 1}}}`, ErrUnknownChannel},
		{"unknown field", `{"loudness": 1}`, nil},
		{"bad json", `{"master": `, nil},
	}
	for _, c := range cases {
		_, err := Parse(strings.NewReader(c.doc))
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if c.want != nil && !errors.Is(err, c.want) {
			t.Fatalf("%s: got %v, want %v", c.name, err, c.want)
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := testEngine(t)
	src.SetMasterVolume(0.3)
	src.SetBypass(true)
	src.Channel(audio.Rim).SetEQ(1, 2, 3)
	src.Channel(audio.Rim).SetPan(0.25)

	var buf bytes.Buffer
	if err := Snapshot(src).Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	path := filepath.Join(t.TempDir(), "mixer.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Channels) != int(audio.NumInstruments) {
		t.Fatalf("snapshot has %d channels", len(s.Channels))
	}

	dst := testEngine(t)
	s.Apply(dst)
	if dst.MasterVolume() != 0.3 || !dst.Bypassed() {
		t.Fatalf("master %v bypass %v", dst.MasterVolume(), dst.Bypassed())
	}
	if b, m, tr := dst.Channel(audio.Rim).EQ(); b != 1 || m != 2 || tr != 3 || dst.Channel(audio.Rim).Pan() != 0.25 {
		t.Fatalf("rim EQ %v %v %v pan %v", b, m, tr, dst.Channel(audio.Rim).Pan())
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}
