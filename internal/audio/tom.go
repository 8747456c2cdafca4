package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

type tom struct{}

func (tom) newVoice(r *rig, at float64) *Voice {
	const d = 0.4
	v := newVoice(Tom, at)
	o := r.osc(dsp.Sine, 200, at, at+d)
	o.Frequency.ExponentialRampToValueAtTime(50, at+d)
	v.add(o, decay(0.8, at, d))
	return v
}
