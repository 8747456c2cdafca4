package audio

import (
	"fmt"

	"github.com/SamSeenX/BeatR/internal/dsp"
)

// Reverb convolves the summed sends with a synthetic decaying-noise
// impulse built once at construction.
type Reverb struct {
	impulse *dsp.Buffer
	conv    *dsp.Convolver
}

func newReverb(src dsp.Source, sampleRate, seconds, decay float64, block int) (*Reverb, error) {
	ir, err := dsp.BuildImpulseResponse(src, sampleRate, seconds, decay)
	if err != nil {
		return nil, err
	}
	conv, err := dsp.NewConvolver(ir.Data, sampleRate, block, true)
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}
	return &Reverb{impulse: ir, conv: conv}, nil
}

// Impulse is the stereo impulse response. Callers must not modify it.
func (r *Reverb) Impulse() *dsp.Buffer { return r.impulse }

// MasterBus sums the channel mix with the reverb return, applies the
// master volume and feeds the analyser.
type MasterBus struct {
	volume dsp.Value
	wet    dsp.Value

	reverb   *Reverb
	analyser *dsp.Analyser

	wetL, wetR []float64
}

func newMasterBus(volume, wet float64, reverb *Reverb, analyser *dsp.Analyser, block int) *MasterBus {
	m := &MasterBus{
		reverb:   reverb,
		analyser: analyser,
		wetL:     make([]float64, block),
		wetR:     make([]float64, block),
	}
	m.volume.Store(volume)
	m.wet.Store(wet)
	return m
}

// process mixes one quantum into out.
func (m *MasterBus) process(mixL, mixR, send []float64, out [][2]float64) {
	m.reverb.conv.Process(send, [][]float64{m.wetL, m.wetR})
	vol := m.volume.Load()
	wet := m.wet.Load()
	for i := range out {
		out[i][0] = (mixL[i] + m.wetL[i]*wet) * vol
		out[i][1] = (mixR[i] + m.wetR[i]*wet) * vol
	}
	m.analyser.Write(out)
}
