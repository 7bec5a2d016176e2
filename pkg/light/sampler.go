package light

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// LightRef is one light in the scene's light list, referenced by the
// primitive id the scene layer attaches it under.
type LightRef struct {
	Primitive core.PrimitiveID
	Power     float64 // used as selection weight; uniform sampler ignores it
}

// LightSampler selects one light among several per direct-lighting sample.
// A uniform sampler is the simplest correct choice; a power-weighted
// sampler reduces variance when lights differ wildly in brightness.
type LightSampler interface {
	// SampleLight returns the chosen light's index and its selection
	// probability (not yet combined with the light's own directional pdf).
	SampleLight(rng core.RNG) (index int, pdf float64)
	// PDF returns the selection probability of light index i.
	PDF(index int) float64
	Count() int
}

// UniformLightSampler picks among n lights with equal probability.
type UniformLightSampler struct {
	lights []LightRef
}

func NewUniformLightSampler(lights []LightRef) *UniformLightSampler {
	return &UniformLightSampler{lights: lights}
}

func (s *UniformLightSampler) Count() int { return len(s.lights) }

func (s *UniformLightSampler) SampleLight(rng core.RNG) (int, float64) {
	n := len(s.lights)
	if n == 0 {
		return -1, 0
	}
	idx := rng.Intn(n)
	return idx, 1.0 / float64(n)
}

func (s *UniformLightSampler) PDF(index int) float64 {
	if len(s.lights) == 0 {
		return 0
	}
	return 1.0 / float64(len(s.lights))
}

// WeightedLightSampler picks a light with probability proportional to its
// Power, via inverse-CDF sampling over a precomputed prefix sum.
type WeightedLightSampler struct {
	lights   []LightRef
	cdf      []float64
	totalPow float64
}

func NewWeightedLightSampler(lights []LightRef) *WeightedLightSampler {
	cdf := make([]float64, len(lights))
	total := 0.0
	for i, l := range lights {
		total += l.Power
		cdf[i] = total
	}
	return &WeightedLightSampler{lights: lights, cdf: cdf, totalPow: total}
}

func (s *WeightedLightSampler) Count() int { return len(s.lights) }

func (s *WeightedLightSampler) SampleLight(rng core.RNG) (int, float64) {
	n := len(s.lights)
	if n == 0 || s.totalPow <= 0 {
		return -1, 0
	}
	target := rng.Float64() * s.totalPow
	idx := 0
	for i, c := range s.cdf {
		if target < c {
			idx = i
			break
		}
		idx = i
	}
	return idx, s.PDF(idx)
}

func (s *WeightedLightSampler) PDF(index int) float64 {
	if index < 0 || index >= len(s.lights) || s.totalPow <= 0 {
		return 0
	}
	return s.lights[index].Power / s.totalPow
}
