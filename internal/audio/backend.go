package audio

import "io"

// Backend is an output device that pulls interleaved float32 stereo
// frames from the engine once started.
type Backend interface {
	Start(r io.Reader) error
	Suspend() error
	Resume() error
	Close() error
}
