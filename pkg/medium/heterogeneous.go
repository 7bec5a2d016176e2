package medium

import (
	"math"

	"github.com/ojrac/opensimplex-go"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/phase"
)

// DensityField supplies a non-negative density scale at a world point; the
// medium's local extinction is SigmaTBase*Density(p). A measured voxel grid
// is the usual real-world backing for this; Heterogeneous here is backed by
// a procedural simplex-noise field, standing in for one.
type DensityField interface {
	Density(p core.Vec3) float64
}

// NoiseDensityField is a DensityField built from a single octave of
// open-simplex noise, remapped to [0,1], for procedurally generated
// heterogeneous media (smoke, fog banks) where no measured grid exists.
type NoiseDensityField struct {
	noise *opensimplex.Noise
	Scale float64 // spatial frequency
}

// NewNoiseDensityField builds a density field seeded deterministically from
// seed, sampling simplex noise at the given spatial frequency.
func NewNoiseDensityField(seed int64, scale float64) *NoiseDensityField {
	return &NoiseDensityField{noise: opensimplex.New(seed), Scale: scale}
}

func (f *NoiseDensityField) Density(p core.Vec3) float64 {
	n := f.noise.Eval3(p.X*f.Scale, p.Y*f.Scale, p.Z*f.Scale) // in [-1,1]
	return core.Clamp1((n+1)*0.5, 0, 1)
}

// Heterogeneous is a medium whose extinction varies spatially, sampled with
// delta tracking (a majorant extinction plus null collisions) and an
// unbiased ratio-tracking transmittance estimator — the standard recipe for
// media with no closed-form free-flight distribution.
type Heterogeneous struct {
	Field          DensityField
	SigmaTBase     float64 // extinction at density 1.0 (the field's majorant)
	ScatterAlbedo  float64 // sigmaS/sigmaT, assumed spatially constant
	phaseFn        core.PhaseFunction
	maxNullCollide int
}

// NewHeterogeneous builds a heterogeneous medium over field, with
// sigmaTBase the extinction coefficient at the field's maximum density
// (i.e. the delta-tracking majorant) and scatterAlbedo the (assumed
// spatially constant) single-scattering albedo.
func NewHeterogeneous(field DensityField, sigmaTBase, scatterAlbedo, g float64) *Heterogeneous {
	return &Heterogeneous{
		Field:          field,
		SigmaTBase:     sigmaTBase,
		ScatterAlbedo:  core.Clamp1(scatterAlbedo, 0, 1),
		phaseFn:        phase.NewHenyeyGreenstein(g),
		maxNullCollide: 10_000, // backstop against pathological majorant mismatch
	}
}

// SampleDistance runs delta tracking: repeatedly draw a candidate distance
// under the majorant sigmaTBase, and accept it as a real collision with
// probability sigmaT(p)/sigmaTBase, otherwise treat it as a null collision
// and continue from there. The ratio of real-to-majorant extinction and the
// majorant's own exponential pdf cancel exactly at each step, so no running
// weight needs to be tracked for survivors; a real collision's weight is
// just the local scattering albedo.
func (m *Heterogeneous) SampleDistance(rng core.RNG, ray core.Ray, tMax float64) (float64, core.Vec3, bool) {
	if m.SigmaTBase <= 0 {
		return 0, core.NewVec3(1, 1, 1), false
	}
	t := 0.0
	for i := 0; i < m.maxNullCollide; i++ {
		dt := -math.Log(1-rng.Float64()) / m.SigmaTBase
		t += dt
		if t >= tMax {
			return 0, core.NewVec3(1, 1, 1), false
		}
		sigmaT := m.SigmaTBase * m.Field.Density(ray.At(t))
		if rng.Float64() < sigmaT/m.SigmaTBase {
			albedo := sigmaT * m.ScatterAlbedo / sigmaT // == m.ScatterAlbedo; kept explicit for clarity
			return t, core.NewVec3(albedo, albedo, albedo), true
		}
	}
	return 0, core.NewVec3(1, 1, 1), false
}

// Transmittance estimates transmittance along [0, tMax] via ratio tracking:
// the same delta-tracking random walk, but null collisions accumulate a
// running weight of (1 - sigmaT(p)/sigmaTBase) instead of being free, and
// the walk never stops early on a real collision. Once the running weight
// drops below 1e-4, Russian roulette ends the walk with probability 1/2 and
// doubles the weight of survivors.
func (m *Heterogeneous) Transmittance(rng core.RNG, ray core.Ray, tMax float64) core.Vec3 {
	if m.SigmaTBase <= 0 {
		return core.NewVec3(1, 1, 1)
	}
	tr := 1.0
	t := 0.0
	for i := 0; i < m.maxNullCollide; i++ {
		dt := -math.Log(1-rng.Float64()) / m.SigmaTBase
		t += dt
		if t >= tMax {
			break
		}
		sigmaT := m.SigmaTBase * m.Field.Density(ray.At(t))
		tr *= 1 - sigmaT/m.SigmaTBase
		if tr <= 0 {
			return core.Vec3{}
		}
		if tr < 1e-4 {
			if rng.Float64() < 0.5 {
				return core.Vec3{}
			}
			tr *= 2
		}
	}
	return core.NewVec3(tr, tr, tr)
}

func (m *Heterogeneous) Phase() core.PhaseFunction { return m.phaseFn }
