package core

// Scene is the sampling contract integrators speak to. They never touch
// geometry, materials, lights, or media directly; every probabilistic
// operation a path-tracing walk needs is exposed here, so pkg/integrator can
// be written once against this interface and driven by any scene
// implementation that satisfies it (see pkg/scene.Scene).
//
// All pdfs are with respect to the measure noted per method. Densities that
// contain a Dirac-delta component return a finite value only when the
// caller passes evalDelta=true; ordinarily delta components report zero so
// MIS weights collapse correctly.
type Scene interface {
	// PrimaryRay returns the deterministic camera ray for a raster
	// coordinate rp in [0,1]^2, given the film's aspect ratio.
	PrimaryRay(rp Vec2, aspect float64) Ray

	// RasterPosition is the inverse of PrimaryRay: given a primary-ray
	// direction wo, returns the raster coordinate it came from, or false if
	// wo misses the film entirely.
	RasterPosition(wo Vec3, aspect float64) (Vec2, bool)

	// Intersect finds the closest hit along ray within [tmin, tmax]. When
	// the scene has an environment light and tmax is +Inf, a miss still
	// yields an interaction: an InfiniteEnvHit carrying the ray direction
	// as Geom.Wo.
	Intersect(ray Ray, tmin, tmax float64) (SceneInteraction, bool)

	// Visible casts a shadow ray between two interactions and reports
	// whether they see each other unoccluded. Symmetric: Visible(a, b) ==
	// Visible(b, a). tmax is shortened by a small epsilon on both ends to
	// avoid self-intersection; if one endpoint is infinite, the ray is cast
	// from the finite endpoint along the infinite endpoint's Geom.Wo (which
	// points away from the finite side) with a finite tmax so the
	// environment itself is excluded from the test.
	Visible(sp1, sp2 SceneInteraction) bool

	// IsLight reports whether sp's attached primitive is a light.
	IsLight(sp SceneInteraction) bool

	// IsSpecular reports whether lobe comp at sp has a Dirac-delta pdf.
	IsSpecular(sp SceneInteraction, comp Component) bool

	// SampleRay is the unified ray-sampling entry point. It does not
	// intersect the scene: the returned Sp is the point sampling was done
	// from (sp itself for a surface or medium point, the canonical endpoint
	// for a camera or light terminator), annotated with the sampled
	// direction Wo and its weight. Callers advance the walk by building a
	// ray with RayFrom(Sp.Geom.P) and calling Intersect themselves. If sp is
	// a terminator endpoint (camera or light), a primary/emission ray is
	// sampled and wi is ignored; otherwise a direction is sampled from the
	// attached material/phase given (sp, wi).
	SampleRay(rng RNG, sp SceneInteraction, wi Vec3) (RaySample, bool)

	// SampleDirection is the direction-only counterpart of SampleRay: it
	// does not intersect the scene to produce a new SceneInteraction.
	SampleDirection(rng RNG, sp SceneInteraction, wi Vec3) (DirectionSample, bool)

	// PdfDirection returns the density of wo under SampleDirection/SampleRay
	// for the given lobe, in plain solid-angle measure for every
	// interaction; no projected-solid-angle density is offered, whether or
	// not sp.Geom.Degenerated is set.
	PdfDirection(sp SceneInteraction, comp Component, wi, wo Vec3) float64

	// SampleDirectLight samples a point on a light and the direction from
	// that point toward sp, for next-event estimation. By convention, the
	// returned sample's Wo points from the light endpoint to sp; shading
	// callers use -Wo.
	SampleDirectLight(rng RNG, sp SceneInteraction) (RaySample, bool)

	// SampleDirectCamera is the light-tracing dual of SampleDirectLight: it
	// samples a point on the camera (the lens/pinhole) and the direction
	// from that point toward sp.
	SampleDirectCamera(rng RNG, sp SceneInteraction, aspect float64) (RaySample, bool)

	// PdfDirect returns the density of the direct-sampling strategies above:
	// the probability of choosing endpoint spEndpoint/compEndpoint and the
	// direction wo toward sp.
	PdfDirect(sp, spEndpoint SceneInteraction, compEndpoint Component, wo Vec3) float64

	// SampleDistance samples either a medium interaction or the next
	// surface hit along the ray leaving sp in direction wo. The returned
	// weight folds in any analytic transmittance division so the walk never
	// needs a separate pdf to divide by.
	SampleDistance(rng RNG, sp SceneInteraction, wo Vec3) (DistanceSample, bool)

	// EvalTransmittance returns an unbiased transmittance estimate between
	// two interactions; stochastic (ratio/delta tracking) for heterogeneous
	// media, exact for homogeneous media or vacuum.
	EvalTransmittance(rng RNG, sp1, sp2 SceneInteraction) Vec3

	// EvalContrib evaluates the BSDF, phase function, emission, or
	// importance at sp (depending on sp's tag) for the lobe comp and the
	// direction pair (wi, wo).
	EvalContrib(sp SceneInteraction, comp Component, wi, wo Vec3) Vec3

	// EvalContribEndpointDirection forces emission/importance evaluation at
	// sp toward direction wo, even when sp was not tagged as an endpoint
	// (used for direct-hit contributions on a light-bearing surface).
	EvalContribEndpointDirection(sp SceneInteraction, wo Vec3) Vec3

	// Reflectance returns the diffuse albedo at sp for lobe comp, when the
	// attached material exposes one; used by material-selection heuristics,
	// not by the core radiance estimator.
	Reflectance(sp SceneInteraction, comp Component) (Vec3, bool)

	// TraversePrimitiveNodes visits every scene-graph node in pre-order,
	// reporting its accumulated world transform. visit returning false
	// stops the traversal early.
	TraversePrimitiveNodes(visit func(primitive PrimitiveID, xform Transform) bool)
}
