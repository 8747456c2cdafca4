//go:build headless

package audio

import "io"

// OtoBackend is a stand-in for builds without an audio device. It accepts
// the engine but never pulls frames.
type OtoBackend struct{}

func NewOtoBackend(sampleRate int) (*OtoBackend, error) { return &OtoBackend{}, nil }

func (*OtoBackend) Start(io.Reader) error { return nil }
func (*OtoBackend) Suspend() error        { return nil }
func (*OtoBackend) Resume() error         { return nil }
func (*OtoBackend) Close() error          { return nil }
