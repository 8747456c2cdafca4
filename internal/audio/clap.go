package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

// clap is bandpassed noise with a 10ms attack.
type clap struct{}

func (clap) newVoice(r *rig, at float64) *Voice {
	v := newVoice(Clap, at)
	noise := r.noise(0.2)
	noise.Start = at

	env := dsp.NewParam(1)
	env.SetValueAtTime(0, at)
	env.LinearRampToValueAtTime(0.8, at+0.01)
	env.ExponentialRampToValueAtTime(dsp.MinExponentialValue, at+0.15)

	v.add(noise, env, r.filter(dsp.Bandpass, 1500))
	return v
}
