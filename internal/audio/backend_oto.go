//go:build !headless

package audio

import (
	"fmt"
	"io"

	"github.com/ebitengine/oto/v3"
)

// otoBufferFrames is the player buffer: about 23ms at 44.1kHz.
const otoBufferFrames = 1024

// OtoBackend plays through the system audio device.
type OtoBackend struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewOtoBackend opens the device. Only one may exist per process.
func NewOtoBackend(sampleRate int) (*OtoBackend, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	<-ready
	return &OtoBackend{ctx: ctx}, nil
}

func (b *OtoBackend) Start(r io.Reader) error {
	b.player = b.ctx.NewPlayer(r)
	b.player.SetBufferSize(otoBufferFrames * 2 * 4)
	b.player.Play()
	return nil
}

func (b *OtoBackend) Suspend() error { return b.ctx.Suspend() }
func (b *OtoBackend) Resume() error  { return b.ctx.Resume() }

func (b *OtoBackend) Close() error {
	if b.player == nil {
		return nil
	}
	return b.player.Close()
}
