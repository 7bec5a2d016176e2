package light

import (
	"math"
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

func TestUniformLightSamplerDistribution(t *testing.T) {
	lights := []LightRef{{Primitive: 0}, {Primitive: 1}, {Primitive: 2}}
	s := NewUniformLightSampler(lights)
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}
	for i := 0; i < s.Count(); i++ {
		if got := s.PDF(i); math.Abs(got-1.0/3) > 1e-12 {
			t.Errorf("PDF(%d) = %f, want %f", i, got, 1.0/3)
		}
	}

	rng := core.NewGoRNG(1)
	counts := make([]int, 3)
	const n = 30000
	for i := 0; i < n; i++ {
		idx, pdf := s.SampleLight(rng)
		if math.Abs(pdf-1.0/3) > 1e-12 {
			t.Fatalf("SampleLight pdf = %f, want %f", pdf, 1.0/3)
		}
		counts[idx]++
	}
	for i, c := range counts {
		frac := float64(c) / n
		if math.Abs(frac-1.0/3) > 0.02 {
			t.Errorf("light %d selected %f of the time, want ~1/3", i, frac)
		}
	}
}

func TestUniformLightSamplerEmpty(t *testing.T) {
	s := NewUniformLightSampler(nil)
	if idx, pdf := s.SampleLight(core.NewGoRNG(1)); idx != -1 || pdf != 0 {
		t.Errorf("SampleLight() on empty sampler = (%d, %f), want (-1, 0)", idx, pdf)
	}
	if pdf := s.PDF(0); pdf != 0 {
		t.Errorf("PDF(0) on empty sampler = %f, want 0", pdf)
	}
}

func TestWeightedLightSamplerFavorsBrighterLights(t *testing.T) {
	lights := []LightRef{
		{Primitive: 0, Power: 1},
		{Primitive: 1, Power: 9},
	}
	s := NewWeightedLightSampler(lights)

	if got := s.PDF(0); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("PDF(0) = %f, want 0.1", got)
	}
	if got := s.PDF(1); math.Abs(got-0.9) > 1e-9 {
		t.Errorf("PDF(1) = %f, want 0.9", got)
	}

	rng := core.NewGoRNG(2)
	counts := make([]int, 2)
	const n = 30000
	for i := 0; i < n; i++ {
		idx, pdf := s.SampleLight(rng)
		if pdf != s.PDF(idx) {
			t.Fatalf("SampleLight pdf %f disagrees with PDF(%d) = %f", pdf, idx, s.PDF(idx))
		}
		counts[idx]++
	}
	frac1 := float64(counts[1]) / n
	if math.Abs(frac1-0.9) > 0.02 {
		t.Errorf("brighter light selected %f of the time, want ~0.9", frac1)
	}
}

func TestWeightedLightSamplerZeroTotalPower(t *testing.T) {
	lights := []LightRef{{Primitive: 0, Power: 0}, {Primitive: 1, Power: 0}}
	s := NewWeightedLightSampler(lights)
	if idx, pdf := s.SampleLight(core.NewGoRNG(1)); idx != -1 || pdf != 0 {
		t.Errorf("SampleLight() with zero total power = (%d, %f), want (-1, 0)", idx, pdf)
	}
}
