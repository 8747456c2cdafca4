package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

// hihat is a tenth of a second of noise band-limited to the top octave.
type hihat struct{}

func (hihat) newVoice(r *rig, at float64) *Voice {
	v := newVoice(HiHat, at)
	noise := r.noise(0.1)
	noise.Start = at
	v.add(noise, decay(0.6, at, 0.05),
		r.filter(dsp.Bandpass, 10000),
		r.filter(dsp.Highpass, 7000))
	return v
}
