package dsp

import "math"

// PanGains returns the left and right gains for a mono signal using the
// equal-power law of the Web Audio StereoPannerNode. pan is clamped to
// [-1,1]; the center position is -3 dB on each side.
func PanGains(pan float64) (left, right float64) {
	if pan < -1 {
		pan = -1
	} else if pan > 1 {
		pan = 1
	} else if math.IsNaN(pan) {
		pan = 0
	}
	x := (pan + 1) / 2
	return math.Cos(x * math.Pi / 2), math.Sin(x * math.Pi / 2)
}
