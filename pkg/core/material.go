package core

// MaterialDirectionSample is what Material.SampleDirection returns: a
// sampled outgoing direction together with the lobe it was drawn from and
// its contribution/pdf weight.
type MaterialDirectionSample struct {
	Wo     Vec3
	Comp   Component
	Weight Vec3
}

// Material is the polymorphic BSDF contract shared by every scattering
// model (diffuse, glossy, mirror, glass, alpha mask, and the lobe mixtures
// built from them). Geom carries the shading frame (Geom.N) and any
// material-local state (UV for textured lookups) for the point being
// shaded; Wi is the unit direction toward the previous vertex.
type Material interface {
	// IsSpecular reports whether lobe comp (or the whole material, when
	// comp is MarginalComponent) has a Dirac-delta pdf.
	IsSpecular(geom Geom, comp Component) bool

	// SampleDirection draws an outgoing direction Wo given the incoming
	// direction Wi, or reports no sample (e.g. sampling probability zero).
	SampleDirection(rng RNG, geom Geom, wi Vec3, dir TransportDirection) (MaterialDirectionSample, bool)

	// PdfDirection returns the density of wo under SampleDirection for the
	// given lobe. evalDelta selects whether Dirac components report their
	// (otherwise undefined) finite density; ordinarily false.
	PdfDirection(geom Geom, comp Component, wi, wo Vec3, evalDelta bool) float64

	// Eval returns the BSDF value f(wi, wo) for lobe comp. evalDelta makes
	// delta lobes report a finite value instead of zero, used only by
	// callers that already divided out the delta (i.e. specular-aware MIS
	// bookkeeping, never on the accumulation hot path).
	Eval(geom Geom, comp Component, wi, wo Vec3, dir TransportDirection, evalDelta bool) Vec3

	// Reflectance returns the diffuse albedo at geom, when the material has
	// one, for use by sampling heuristics that want a cheap radiance proxy.
	Reflectance(geom Geom) (Vec3, bool)
}
