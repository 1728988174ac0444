package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/driftlab/wavelayout/internal/wavefield"
)

// Spectrum samples the height signal at probe point p for n samples at
// sampleRate Hz and returns its one-sided power spectrum. n is rounded up
// to the next power of two; the mean is removed so bin 0 carries no DC
// spike from the base height.
func Spectrum(p wavefield.Vec2, params wavefield.Params, sampleRate float64, n int) []float64 {
	if n < 2 {
		n = 2
	}
	n = nextPow2(n)

	samples := make([]float64, n)
	mean := 0.0
	for i := range samples {
		t := float64(i) / sampleRate
		samples[i] = wavefield.Evaluate(p, t, params)
		mean += samples[i]
	}
	mean /= float64(n)
	for i := range samples {
		samples[i] -= mean
	}

	spec := fft.FFTReal(samples)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i]) / float64(n)
	}
	return ps
}

// DominantFrequency returns the strongest bin of a power spectrum as a
// frequency in Hz, with its power.
func DominantFrequency(ps []float64, sampleRate float64) (freq, power float64) {
	best := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > ps[best] {
			best = i
		}
	}
	if len(ps) == 0 {
		return 0, 0
	}
	binWidth := sampleRate / float64(2*len(ps))
	return float64(best) * binWidth, ps[best]
}

// BandEnergy returns the fraction of total spectral energy between loHz
// and hiHz. The 0.2-1.1 Hz band is where vection-induced discomfort
// concentrates, so a high fraction there is a red flag for a parameter
// set even when it passes the hard bounds.
func BandEnergy(ps []float64, sampleRate float64, loHz, hiHz float64) float64 {
	if len(ps) == 0 {
		return 0
	}
	binWidth := sampleRate / float64(2*len(ps))

	total := 0.0
	band := 0.0
	for i, p := range ps {
		e := p * p
		total += e
		f := float64(i) * binWidth
		if f >= loHz && f <= hiHz {
			band += e
		}
	}
	if total == 0 {
		return 0
	}
	return band / total
}

// PeakToPeak evaluates the field over duration seconds at sampleRate Hz
// across the given probe points and returns the extreme heights observed.
func PeakToPeak(pts []wavefield.Vec2, params wavefield.Params, duration, sampleRate float64) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)

	steps := int(duration * sampleRate)
	for i := 0; i <= steps; i++ {
		t := float64(i) / sampleRate
		for _, p := range pts {
			h := wavefield.Evaluate(p, t, params)
			min = math.Min(min, h)
			max = math.Max(max, h)
		}
	}
	return min, max
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
