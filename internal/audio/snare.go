package audio

import "github.com/SamSeenX/BeatR/internal/dsp"

// snare layers highpassed noise with a short triangle body.
type snare struct{}

func (snare) newVoice(r *rig, at float64) *Voice {
	const d = 0.2
	v := newVoice(Snare, at)

	noise := r.noise(1)
	noise.Start, noise.Stop = at, at+d
	v.add(noise, decay(1, at, d), r.filter(dsp.Highpass, 1000))

	body := r.osc(dsp.Triangle, 100, at, at+d)
	v.add(body, decay(0.5, at, 0.1))
	return v
}
