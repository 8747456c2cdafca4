package audio

import (
	"github.com/SamSeenX/BeatR/internal/dsp"
)

// Channel EQ corner frequencies.
const (
	BassFrequency   = 320
	MidFrequency    = 1000
	MidQ            = 0.5
	TrebleFrequency = 3200
)

// Channel is the strip every hit of one instrument passes through:
// bass shelf, mid peak and treble shelf, then pan and volume into the
// master bus. The reverb send taps the raw input in parallel. Setters may be called
// from any goroutine; the render loop picks the values up at the next
// quantum.
type Channel struct {
	inst Instrument

	bass, mid, treble dsp.Value
	volume, pan, send dsp.Value

	low, peak, high *dsp.Biquad
}

func newChannel(inst Instrument, sampleRate, send float64) *Channel {
	c := &Channel{
		inst: inst,
		low:  dsp.NewBiquad(dsp.Lowshelf, sampleRate, BassFrequency, 1, 0),
		peak: dsp.NewBiquad(dsp.Peaking, sampleRate, MidFrequency, MidQ, 0),
		high: dsp.NewBiquad(dsp.Highshelf, sampleRate, TrebleFrequency, 1, 0),
	}
	c.volume.Store(1)
	c.send.Store(send)
	return c
}

func (c *Channel) Instrument() Instrument { return c.inst }

// SetEQ sets the three band gains in dB.
func (c *Channel) SetEQ(bass, mid, treble float64) {
	c.bass.Store(bass)
	c.mid.Store(mid)
	c.treble.Store(treble)
}

func (c *Channel) EQ() (bass, mid, treble float64) {
	return c.bass.Load(), c.mid.Load(), c.treble.Load()
}

func (c *Channel) SetVolume(v float64) { c.volume.Store(v) }
func (c *Channel) Volume() float64     { return c.volume.Load() }

// SetPan stores the position as given; rendering clamps it to [-1, 1].
func (c *Channel) SetPan(p float64) { c.pan.Store(p) }
func (c *Channel) Pan() float64     { return c.pan.Load() }

func (c *Channel) SetReverbSend(v float64) { c.send.Store(v) }
func (c *Channel) ReverbSend() float64     { return c.send.Load() }

// process runs one quantum of channel input and accumulates the result
// into the master mix and the reverb bus. In bypass the input goes to both
// sides of the mix unchanged and nothing is sent.
func (c *Channel) process(in, outL, outR, reverb []float64, bypass bool) {
	if bypass {
		for i, x := range in {
			outL[i] += x
			outR[i] += x
		}
		return
	}
	c.low.SetGain(c.bass.Load())
	c.peak.SetGain(c.mid.Load())
	c.high.SetGain(c.treble.Load())
	gl, gr := dsp.PanGains(c.pan.Load())
	vol := c.volume.Load()
	send := c.send.Load()
	for i, x := range in {
		reverb[i] += x * send
		x = c.high.Process(c.peak.Process(c.low.Process(x))) * vol
		outL[i] += x * gl
		outR[i] += x * gr
	}
}
