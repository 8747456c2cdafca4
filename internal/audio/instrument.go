package audio

import "strings"

// Instrument identifies one of the fixed drum channels.
type Instrument int

const (
	Kick Instrument = iota
	Snare
	HiHat
	Tom
	Clap
	Rim

	// NumInstruments is the number of channels an engine owns.
	NumInstruments
)

var instrumentNames = [NumInstruments]string{
	Kick:  "KICK",
	Snare: "SNARE",
	HiHat: "HI-HAT",
	Tom:   "TOM",
	Clap:  "CLAP",
	Rim:   "RIM",
}

// durations is how long each hit lasts from its trigger time.
var durations = [NumInstruments]float64{
	Kick:  0.5,
	Snare: 0.2,
	HiHat: 0.1,
	Tom:   0.4,
	Clap:  0.2,
	Rim:   0.05,
}

func (i Instrument) Valid() bool { return i >= 0 && i < NumInstruments }

func (i Instrument) String() string {
	if !i.Valid() {
		return "UNKNOWN"
	}
	return instrumentNames[i]
}

// Duration is the time from the trigger until the hit's sources stop.
func (i Instrument) Duration() float64 {
	if !i.Valid() {
		return 0
	}
	return durations[i]
}

// ParseInstrument maps a channel name such as "HI-HAT" to its Instrument.
// Matching ignores case and surrounding space.
func ParseInstrument(name string) (Instrument, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for i, n := range instrumentNames {
		if n == name {
			return Instrument(i), true
		}
	}
	return 0, false
}

// Instruments lists every instrument in channel order.
func Instruments() []Instrument {
	out := make([]Instrument, NumInstruments)
	for i := range out {
		out[i] = Instrument(i)
	}
	return out
}
