// Package medium implements the participating-media variants the
// volumetric path tracer consumes through the core.Medium contract:
// closed-form distance sampling and transmittance for a homogeneous
// medium, and delta/ratio tracking over a procedural density field for a
// heterogeneous one.
package medium

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/phase"
)

// Homogeneous is a medium with constant absorption and scattering
// coefficients everywhere: the textbook case with an exact exponential
// free-flight sampler and an exact Beer-Lambert transmittance.
type Homogeneous struct {
	SigmaA, SigmaS float64
	phaseFn        core.PhaseFunction
}

// NewHomogeneous builds a homogeneous medium with the given absorption and
// scattering coefficients, scattering according to a Henyey-Greenstein
// phase function with asymmetry g.
func NewHomogeneous(sigmaA, sigmaS, g float64) *Homogeneous {
	return &Homogeneous{SigmaA: sigmaA, SigmaS: sigmaS, phaseFn: phase.NewHenyeyGreenstein(g)}
}

func (m *Homogeneous) sigmaT() float64 { return m.SigmaA + m.SigmaS }

// SampleDistance draws a free-flight distance via exact exponential
// sampling, t = -ln(1-u)/sigmaT. When the drawn distance lands beyond tMax,
// the exact analytic probability of that event, exp(-sigmaT*tMax), cancels
// the survival weight exactly, leaving weight 1 with no interaction. When
// it lands inside, the exponential pdf cancels the exponential
// transmittance entirely, leaving only the single-scattering albedo
// sigmaS/sigmaT as weight.
func (m *Homogeneous) SampleDistance(rng core.RNG, ray core.Ray, tMax float64) (float64, core.Vec3, bool) {
	sigmaT := m.sigmaT()
	if sigmaT <= 0 {
		return 0, core.NewVec3(1, 1, 1), false
	}
	t := -math.Log(1-rng.Float64()) / sigmaT
	if t >= tMax {
		return 0, core.NewVec3(1, 1, 1), false
	}
	albedo := m.SigmaS / sigmaT
	return t, core.NewVec3(albedo, albedo, albedo), true
}

// Transmittance evaluates Beer-Lambert attenuation exactly; homogeneous
// media need no stochastic estimator.
func (m *Homogeneous) Transmittance(rng core.RNG, ray core.Ray, tMax float64) core.Vec3 {
	tr := math.Exp(-m.sigmaT() * tMax)
	return core.NewVec3(tr, tr, tr)
}

func (m *Homogeneous) Phase() core.PhaseFunction { return m.phaseFn }
