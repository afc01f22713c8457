// Package harmonic generates a sine signal with optional Gaussian noise for
// the interactive harmonic demo.
package harmonic

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

// Samples is the number of points over one [0, 2π] period.
const Samples = 1000

// Params are the slider and toggle values of the demo.
type Params struct {
	Amplitude     float64 `json:"amplitude"`
	Frequency     float64 `json:"frequency"`
	Phase         float64 `json:"phase"`
	NoiseMean     float64 `json:"noise_mean"`
	NoiseVariance float64 `json:"noise_variance"`
	ShowNoise     bool    `json:"show_noise"`
}

// Defaults are the values restored by the reset control.
func Defaults() Params {
	return Params{
		Amplitude:     1.0,
		Frequency:     1.0,
		Phase:         0.0,
		NoiseMean:     0.0,
		NoiseVariance: 0.5,
		ShowNoise:     true,
	}
}

// Bounds is the inclusive slider range of one parameter.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Limits are the slider ranges, keyed by the parameter's JSON name.
var Limits = map[string]Bounds{
	"amplitude":      {Min: 0, Max: 10},
	"frequency":      {Min: 0.1, Max: 10},
	"phase":          {Min: 0, Max: 2 * math.Pi},
	"noise_mean":     {Min: -2, Max: 2},
	"noise_variance": {Min: 0, Max: 1},
}

// Validate checks every parameter against its slider range.
func (p Params) Validate() error {
	values := map[string]float64{
		"amplitude":      p.Amplitude,
		"frequency":      p.Frequency,
		"phase":          p.Phase,
		"noise_mean":     p.NoiseMean,
		"noise_variance": p.NoiseVariance,
	}
	for _, name := range []string{"amplitude", "frequency", "phase", "noise_mean", "noise_variance"} {
		v, b := values[name], Limits[name]
		if math.IsNaN(v) || v < b.Min || v > b.Max {
			return fmt.Errorf("%s %g outside [%g, %g]", name, v, b.Min, b.Max)
		}
	}
	return nil
}

// Series is one rendering of the demo chart.
type Series struct {
	T     []float64 `json:"t"`
	Clean []float64 `json:"clean"`
	// Noisy equals Clean when noise is hidden.
	Noisy     []float64 `json:"noisy"`
	ShowNoise bool      `json:"show_noise"`
}

// Generator renders series from params using its own random source. It is
// safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. Pass a nil source for a randomly seeded one.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Generator{rng: rand.New(src)}
}

// Clean evaluates A·sin(f·t + φ).
func Clean(p Params, t float64) float64 {
	return p.Amplitude * math.Sin(p.Frequency*t+p.Phase)
}

// Generate samples the clean signal over [0, 2π] and, when noise is shown,
// adds normal noise with the configured mean and variance. A fresh noise
// draw is taken on every call.
func (g *Generator) Generate(p Params) Series {
	s := Series{
		T:         linspace(0, 2*math.Pi, Samples),
		Clean:     make([]float64, Samples),
		Noisy:     make([]float64, Samples),
		ShowNoise: p.ShowNoise,
	}
	stddev := math.Sqrt(p.NoiseVariance)

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, t := range s.T {
		s.Clean[i] = Clean(p, t)
		if p.ShowNoise {
			s.Noisy[i] = s.Clean[i] + p.NoiseMean + stddev*g.rng.NormFloat64()
		} else {
			s.Noisy[i] = s.Clean[i]
		}
	}
	return s
}

func linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}
