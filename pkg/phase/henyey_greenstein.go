// Package phase implements phase functions for participating media: the
// medium analogue of a BSDF, describing how light scatters off a
// scattering event rather than a surface.
package phase

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// HenyeyGreenstein is the classic single-parameter phase function,
// parameterized by asymmetry g in [-1, 1]: negative values favor
// backscattering, positive values favor forward scattering, zero is
// isotropic.
type HenyeyGreenstein struct {
	G float64
}

func NewHenyeyGreenstein(g float64) *HenyeyGreenstein {
	return &HenyeyGreenstein{G: core.Clamp1(g, -0.999, 0.999)}
}

func (p *HenyeyGreenstein) IsSpecular() bool { return false }

// Sample draws an outgoing direction wo given the incoming direction wi,
// both in world space; wi is the direction of travel arriving at the
// scattering point, so forward scattering gives wo close to wi. Weight is
// always 1 because phase functions are normalized probability densities
// over the sphere.
func (p *HenyeyGreenstein) Sample(rng core.RNG, wi core.Vec3) (wo core.Vec3, pdf float64) {
	cosTheta := core.SampleHenyeyGreenstein(p.G, rng.Float64(), rng.Float64())
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	phi := 2 * math.Pi * rng.Float64()
	local := core.Vec3{X: sinTheta * math.Cos(phi), Y: sinTheta * math.Sin(phi), Z: cosTheta}
	wo = core.NewBasis(wi.Negate()).ToWorld(local)
	pdf = core.HenyeyGreenstein(cosTheta, p.G)
	return wo, pdf
}

// PDF returns the phase function density for the scattering angle between
// wi and wo.
func (p *HenyeyGreenstein) PDF(wi, wo core.Vec3) float64 {
	return core.HenyeyGreenstein(wi.Negate().Dot(wo), p.G)
}

// Eval is the phase-function value for (wi, wo); for Henyey-Greenstein the
// value and the pdf coincide since the phase function is itself a density.
func (p *HenyeyGreenstein) Eval(wi, wo core.Vec3) core.Vec3 {
	v := p.PDF(wi, wo)
	return core.NewVec3(v, v, v)
}
