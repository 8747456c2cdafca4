package dsp

import (
	"fmt"
	"math"

	"github.com/maddyblue/go-dsp/fft"
)

// Normalization constants of the Web Audio ConvolverNode.
const (
	convolverGainCalibration           = 0.00125
	convolverGainCalibrationSampleRate = 44100
	convolverMinPower                  = 0.000125
)

// Convolver applies a multi-channel impulse response to a mono signal using
// uniformly partitioned overlap-save convolution. Processing one block at a
// time adds no latency: the output block includes the current input block.
type Convolver struct {
	block    int
	channels int
	// parts[c][j] is the spectrum of partition j of channel c.
	parts [][][]complex128
	// fdl holds the input spectra of the last len(parts[c]) blocks.
	fdl  [][]complex128
	head int

	prev   []float64
	frame  []complex128
	acc    []complex128
	silent int
	scale  float64
}

// NormalizationScale is the gain the Web Audio ConvolverNode applies to an
// impulse response when normalize is true.
func NormalizationScale(ir [][]float64, sampleRate float64) float64 {
	var power float64
	length := 0
	for _, ch := range ir {
		for _, v := range ch {
			power += v * v
		}
		length = len(ch)
	}
	if len(ir) == 0 || length == 0 {
		return 1
	}
	power = math.Sqrt(power / float64(len(ir)*length))
	if math.IsNaN(power) || math.IsInf(power, 0) || power < convolverMinPower {
		power = convolverMinPower
	}
	scale := 1 / power
	scale *= convolverGainCalibration
	if sampleRate > 0 {
		scale *= convolverGainCalibrationSampleRate / sampleRate
	}
	return scale
}

// NewConvolver prepares the partition spectra of ir ([channel][frame]).
// blockSize is the number of frames handed to every Process call.
func NewConvolver(ir [][]float64, sampleRate float64, blockSize int, normalize bool) (*Convolver, error) {
	if blockSize <= 0 || blockSize&(blockSize-1) != 0 {
		return nil, fmt.Errorf("%w: block size %d is not a power of two", ErrInvalidImpulse, blockSize)
	}
	if len(ir) == 0 || len(ir[0]) == 0 {
		return nil, fmt.Errorf("%w: empty impulse", ErrInvalidImpulse)
	}
	length := len(ir[0])
	for c, ch := range ir {
		if len(ch) != length {
			return nil, fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidImpulse, c, len(ch), length)
		}
	}

	c := &Convolver{
		block:    blockSize,
		channels: len(ir),
		prev:     make([]float64, blockSize),
		frame:    make([]complex128, 2*blockSize),
		acc:      make([]complex128, 2*blockSize),
		scale:    1,
	}
	if normalize {
		c.scale = NormalizationScale(ir, sampleRate)
	}

	n := (length + blockSize - 1) / blockSize
	c.parts = make([][][]complex128, len(ir))
	for ch, data := range ir {
		c.parts[ch] = make([][]complex128, n)
		for j := 0; j < n; j++ {
			seg := make([]complex128, 2*blockSize)
			for i := 0; i < blockSize; i++ {
				k := j*blockSize + i
				if k >= length {
					break
				}
				seg[i] = complex(data[k]*c.scale, 0)
			}
			c.parts[ch][j] = fft.FFT(seg)
		}
	}
	c.fdl = make([][]complex128, n)
	for j := range c.fdl {
		c.fdl[j] = make([]complex128, 2*blockSize)
	}
	c.silent = n + 1
	return c, nil
}

func (c *Convolver) BlockSize() int { return c.block }

func (c *Convolver) Channels() int { return c.channels }

// Partitions is the number of impulse blocks convolved per call.
func (c *Convolver) Partitions() int { return len(c.fdl) }

// Scale is the normalization gain folded into the partitions.
func (c *Convolver) Scale() float64 { return c.scale }

// Process convolves one block of mono input into out[channel], overwriting it.
// len(in) and every len(out[c]) must equal BlockSize.
func (c *Convolver) Process(in []float64, out [][]float64) {
	zero := true
	for _, v := range in {
		if v != 0 {
			zero = false
			break
		}
	}
	if zero {
		c.silent++
	} else {
		c.silent = 0
	}
	// Every delay line slot has seen only silence: the output is silence.
	if c.silent > len(c.fdl) {
		for _, o := range out {
			clear(o)
		}
		clear(c.prev)
		return
	}

	for i := 0; i < c.block; i++ {
		c.frame[i] = complex(c.prev[i], 0)
		c.frame[c.block+i] = complex(in[i], 0)
	}
	copy(c.prev, in)

	c.head = (c.head + len(c.fdl) - 1) % len(c.fdl)
	copy(c.fdl[c.head], fft.FFT(c.frame))

	for ch := 0; ch < c.channels && ch < len(out); ch++ {
		clear(c.acc)
		for j, h := range c.parts[ch] {
			x := c.fdl[(c.head+j)%len(c.fdl)]
			for k := range c.acc {
				c.acc[k] += x[k] * h[k]
			}
		}
		y := fft.IFFT(c.acc)
		dst := out[ch]
		for i := 0; i < c.block; i++ {
			dst[i] = real(y[c.block+i])
		}
	}
}

// Reset clears the convolution history.
func (c *Convolver) Reset() {
	for _, x := range c.fdl {
		clear(x)
	}
	clear(c.prev)
	c.silent = len(c.fdl) + 1
}
