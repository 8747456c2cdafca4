package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

// kick is a sine pitch-dropped from 150Hz under a half second decay.
type kick struct{}

func (kick) newVoice(r *rig, at float64) *Voice {
	const d = 0.5
	v := newVoice(Kick, at)
	o := r.osc(dsp.Sine, 150, at, at+d)
	o.Frequency.ExponentialRampToValueAtTime(dsp.MinExponentialValue, at+d)
	v.add(o, decay(1, at, d))
	return v
}
