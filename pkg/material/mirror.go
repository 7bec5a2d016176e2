package material

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// Mirror is a perfect specular reflector: Dirac-delta pdf, weight Albedo.
type Mirror struct {
	Albedo core.Vec3
}

func NewMirror(albedo core.Vec3) *Mirror { return &Mirror{Albedo: albedo} }

func (m *Mirror) IsSpecular(geom core.Geom, comp core.Component) bool { return true }

func (m *Mirror) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	wo := wi.Negate().Reflect(geom.N)
	return core.MaterialDirectionSample{Wo: wo, Comp: 0, Weight: m.Albedo}, true
}

func (m *Mirror) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	return 0
}

func (m *Mirror) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	return core.Vec3{}
}

func (m *Mirror) Reflectance(geom core.Geom) (core.Vec3, bool) { return m.Albedo, true }
