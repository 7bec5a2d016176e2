package material

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// Mask is an alpha pass-through lobe: the ray continues straight through the
// surface unperturbed, as if the geometry weren't there. Used as the "miss"
// branch of a textured-alpha composite (MixtureWithAlpha).
type Mask struct{}

func NewMask() *Mask { return &Mask{} }

func (m *Mask) IsSpecular(geom core.Geom, comp core.Component) bool { return true }

func (m *Mask) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	return core.MaterialDirectionSample{Wo: wi.Negate(), Comp: 0, Weight: core.NewVec3(1, 1, 1)}, true
}

func (m *Mask) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	return 0
}

func (m *Mask) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	return core.Vec3{}
}

func (m *Mask) Reflectance(geom core.Geom) (core.Vec3, bool) { return core.Vec3{}, false }
