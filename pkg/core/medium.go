package core

// PhaseFunction governs in-scatter direction at a medium event; the medium
// analogue of a Material's directional lobe, but with no surface normal to
// orient around.
type PhaseFunction interface {
	IsSpecular() bool
	Sample(rng RNG, wi Vec3) (wo Vec3, pdf float64)
	PDF(wi, wo Vec3) float64
	Eval(wi, wo Vec3) Vec3
}

// Medium is a participating medium. pkg/scene binds at most one, globally,
// for the whole scene rather than per primitive. It supplies free-flight distance sampling and transmittance evaluation
// along a ray segment, and the phase function that governs scattering at a
// sampled event.
type Medium interface {
	// SampleDistance samples a free-flight distance t in [0, tMax) along
	// ray. ok=false means no medium interaction occurred before tMax (the
	// walk should proceed to whatever lies at tMax, typically a surface).
	// weight folds in the ratio of the sampled-distance pdf and any
	// absorption/null-collision bookkeeping, so callers never divide by a
	// separately tracked pdf.
	SampleDistance(rng RNG, ray Ray, tMax float64) (t float64, weight Vec3, ok bool)
	// Transmittance returns an unbiased estimate of the transmittance along
	// ray's segment [0, tMax]. For a homogeneous medium this is exact
	// (Beer-Lambert); for a heterogeneous medium it is a ratio-tracking
	// estimator and varies sample to sample.
	Transmittance(rng RNG, ray Ray, tMax float64) Vec3
	// Phase returns the phase function governing scattering within this
	// medium.
	Phase() PhaseFunction
}
