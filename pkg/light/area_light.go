package light

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/accel"
	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// AreaLight is a one-sided diffuse emitter over the surface of a quad:
// uniform sampling in area measure, converted to solid angle as needed by
// the caller's chosen integration measure.
type AreaLight struct {
	Quad      *accel.Quad
	Ke        core.Vec3
	primitive core.PrimitiveID
}

func NewAreaLight(quad *accel.Quad, ke core.Vec3, id core.PrimitiveID) *AreaLight {
	return &AreaLight{Quad: quad, Ke: ke, primitive: id}
}

func (l *AreaLight) ID() core.PrimitiveID { return l.primitive }

// SampleDirectLight samples a point on the light uniformly by area and
// returns the direction from that point toward sp, with wo pointing from
// the light to sp as the sampling contract requires.
func (l *AreaLight) SampleDirectLight(rng core.RNG, sp core.Vec3) (core.RaySample, bool) {
	p, n := l.Quad.SamplePoint(rng.Float64(), rng.Float64())
	toShading := sp.Subtract(p)
	dist2 := toShading.LengthSquared()
	if dist2 <= 0 {
		return core.RaySample{}, false
	}
	dist := math.Sqrt(dist2)
	wo := toShading.Multiply(1 / dist) // points from light to sp

	cosTheta := wo.Dot(n)
	if cosTheta <= 1e-8 {
		return core.RaySample{}, false // back face, no emission
	}

	areaPdf := 1.0 / l.Quad.Area()
	solidAnglePdf := areaPdf * dist2 / cosTheta

	lightSp := core.SceneInteraction{
		Type:      core.LightEndpoint,
		Primitive: l.primitive,
		Geom:      core.Geom{P: p, N: n},
	}
	weight := l.Ke.Multiply(1 / solidAnglePdf)
	return core.RaySample{Sp: lightSp, Comp: core.MarginalComponent, Wo: wo, Weight: weight}, true
}

// PdfDirect returns the solid-angle density of sampling the point spOnLight
// (must lie on the quad, with normal n) as seen from shadingPoint.
func (l *AreaLight) PdfDirect(spOnLight core.Vec3, n core.Vec3, shadingPoint core.Vec3) float64 {
	toShading := shadingPoint.Subtract(spOnLight)
	dist2 := toShading.LengthSquared()
	if dist2 <= 0 {
		return 0
	}
	dist := math.Sqrt(dist2)
	cosTheta := n.Dot(toShading.Multiply(1 / dist))
	if cosTheta <= 1e-8 {
		return 0
	}
	areaPdf := 1.0 / l.Quad.Area()
	return areaPdf * dist2 / cosTheta
}

// EmittedRadiance returns Ke when emitting from the front face, zero
// otherwise. wo points from the light point toward the viewer, the same
// convention SampleDirectLight's own cosTheta check above uses, so the
// front face is wherever wo leaves on the same side as n.
func (l *AreaLight) EmittedRadiance(n, wo core.Vec3) core.Vec3 {
	if n.Dot(wo) > 0 {
		return l.Ke
	}
	return core.Vec3{}
}
