package audio

import (
	"encoding/binary"
	"math"

	"github.com/gopxl/beep/v2"
)

var _ beep.Streamer = (*Engine)(nil)

// Render fills dst with the next frames. A suspended engine writes silence
// and its clock stands still.
func (e *Engine) Render(dst [][2]float64) int {
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	return e.render(dst)
}

// render is Render with renderMu held.
func (e *Engine) render(dst [][2]float64) int {
	if e.State() != Running {
		clear(dst)
		return len(dst)
	}
	n := 0
	for n < len(dst) {
		if e.blockPos == Quantum {
			e.renderQuantum()
			e.blockPos = 0
		}
		c := copy(dst[n:], e.block[e.blockPos:])
		n += c
		e.blockPos += c
	}
	return n
}

func (e *Engine) renderQuantum() {
	e.mu.Lock()
	e.voices = append(e.voices, e.pending...)
	e.pending = e.pending[:0]
	e.mu.Unlock()

	for i := range e.in {
		clear(e.in[i])
	}
	clear(e.mixL)
	clear(e.mixR)
	clear(e.send)

	first := e.frame.Load()
	end := float64(first+Quantum) / e.sampleRate
	kept := e.voices[:0]
	for _, v := range e.voices {
		buf := e.in[v.inst]
		for i := range buf {
			buf[i] += v.sample(float64(first+int64(i)) / e.sampleRate)
		}
		if !v.done(end) {
			kept = append(kept, v)
		}
	}
	clear(e.voices[len(kept):])
	e.voices = kept
	e.live.Store(int32(len(kept)))

	bypass := e.bypass.Load()
	for i, ch := range e.channels {
		ch.process(e.in[i], e.mixL, e.mixR, e.send, bypass)
	}
	e.master.process(e.mixL, e.mixR, e.send, e.block)
	e.frame.Add(Quantum)
}

// Read renders interleaved float32 little endian stereo into p, which is
// the format the oto backend plays.
func (e *Engine) Read(p []byte) (int, error) {
	frames := len(p) / 8
	e.renderMu.Lock()
	defer e.renderMu.Unlock()
	if cap(e.readFrames) < frames {
		e.readFrames = make([][2]float64, frames)
	}
	buf := e.readFrames[:frames]
	e.render(buf)
	for i, f := range buf {
		binary.LittleEndian.PutUint32(p[i*8:], math.Float32bits(float32(f[0])))
		binary.LittleEndian.PutUint32(p[i*8+4:], math.Float32bits(float32(f[1])))
	}
	return frames * 8, nil
}

// Stream implements beep.Streamer. The engine never drains.
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	return e.Render(samples), true
}

func (e *Engine) Err() error { return nil }

// Format describes the engine output for beep encoders.
func (e *Engine) Format() beep.Format {
	return beep.Format{
		SampleRate:  beep.SampleRate(e.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
}

// Take streams the next d seconds of output and then drains.
func (e *Engine) Take(d float64) beep.Streamer {
	return beep.Take(int(math.Round(d*e.sampleRate)), e)
}
