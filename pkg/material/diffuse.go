// Package material implements the core.Material contract: a small set of
// value types dispatched through the interface rather than a class
// hierarchy, each a BSDF lobe (or a composite of lobes) a surface
// interaction can carry.
package material

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// Diffuse is a Lambertian reflector: cosine-weighted sampling, constant
// BRDF Kd/pi.
type Diffuse struct {
	Kd core.Vec3 // albedo
}

func NewDiffuse(kd core.Vec3) *Diffuse { return &Diffuse{Kd: kd} }

func (d *Diffuse) IsSpecular(geom core.Geom, comp core.Component) bool { return false }

func (d *Diffuse) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	local, pdf := core.SampleCosineHemisphere(rng.Float64(), rng.Float64())
	if pdf <= 0 {
		return core.MaterialDirectionSample{}, false
	}
	wo := core.NewBasis(geom.N).ToWorld(local)
	f := d.Kd.Multiply(1 / math.Pi)
	weight := f.Multiply(math.Abs(wo.Dot(geom.N)) / pdf)
	return core.MaterialDirectionSample{Wo: wo, Comp: 0, Weight: weight}, true
}

func (d *Diffuse) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	return core.CosineHemispherePDF(wo.Dot(geom.N))
}

func (d *Diffuse) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	if wi.Dot(geom.N)*wo.Dot(geom.N) <= 0 {
		return core.Vec3{}
	}
	return d.Kd.Multiply(1 / math.Pi)
}

func (d *Diffuse) Reflectance(geom core.Geom) (core.Vec3, bool) { return d.Kd, true }
