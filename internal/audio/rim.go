package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

// rim is a 50ms square click through an 800Hz bandpass.
type rim struct{}

func (rim) newVoice(r *rig, at float64) *Voice {
	const d = 0.05
	v := newVoice(Rim, at)
	o := r.osc(dsp.Square, 400, at, at+d)
	v.add(o, decay(0.5, at, d), r.filter(dsp.Bandpass, 800))
	return v
}
