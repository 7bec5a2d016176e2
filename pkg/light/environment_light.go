package light

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// EnvironmentLight is an infinite directional emitter: every ray that
// misses all finite geometry is lit by it. Direct sampling draws a
// cosine-weighted direction around the shading normal, which cancels the
// cosine term in the rendering equation and needs no importance texture to
// behave reasonably for a uniform environment.
type EnvironmentLight struct {
	Emission    core.Vec3
	worldCenter core.Vec3
	worldRadius float64
	primitive   core.PrimitiveID
}

func NewEnvironmentLight(emission core.Vec3, id core.PrimitiveID) *EnvironmentLight {
	return &EnvironmentLight{Emission: emission, primitive: id}
}

func (l *EnvironmentLight) ID() core.PrimitiveID { return l.primitive }

// Preprocess records the finite scene's bounding sphere, needed to place a
// concrete origin point when this light is sampled as a ray endpoint
// (SampleRay / light tracing), since an infinite light has no true position.
func (l *EnvironmentLight) Preprocess(worldCenter core.Vec3, worldRadius float64) {
	l.worldCenter = worldCenter
	l.worldRadius = worldRadius
}

// SampleDirectLight draws a cosine-weighted direction around the shading
// normal n at point sp and reports it as an infinite light endpoint.
func (l *EnvironmentLight) SampleDirectLight(rng core.RNG, sp, n core.Vec3) (core.RaySample, bool) {
	local, pdf := core.SampleCosineHemisphere(rng.Float64(), rng.Float64())
	if pdf <= 0 {
		return core.RaySample{}, false
	}
	dir := core.NewBasis(n).ToWorld(local) // direction from sp toward the light
	wo := dir.Negate()                     // points from the light endpoint to sp

	endpoint := core.SceneInteraction{
		Type:      core.LightEndpoint,
		Primitive: l.primitive,
		Geom: core.Geom{
			Infinite: true,
			Wo:       dir,
		},
	}
	weight := l.Emission.Multiply(1 / pdf)
	return core.RaySample{Sp: endpoint, Comp: core.MarginalComponent, Wo: wo, Weight: weight}, true
}

// PdfDirect returns the cosine-hemisphere density of sampling direction dir
// (from sp toward the light) around normal n.
func (l *EnvironmentLight) PdfDirect(dir, n core.Vec3) float64 {
	return core.CosineHemispherePDF(dir.Dot(n))
}

// EmittedRadiance is constant in every direction.
func (l *EnvironmentLight) EmittedRadiance(wo core.Vec3) core.Vec3 {
	return l.Emission
}

// EmissionAreaPDF returns the planar-disk sampling density used when this
// light is chosen as a full path endpoint (SampleRay), following the
// standard "project disk of world radius" infinite-light emission measure.
func (l *EnvironmentLight) EmissionAreaPDF() float64 {
	if l.worldRadius <= 0 {
		return 0
	}
	return 1.0 / (math.Pi * l.worldRadius * l.worldRadius)
}
