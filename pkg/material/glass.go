package material

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// Glass is a smooth dielectric interface: reflects with Schlick-approximated
// Fresnel probability F, refracts with 1-F, forcing reflection under total
// internal reflection. Component 0 is the reflect lobe, component 1 the
// refract lobe — both delta distributions.
type Glass struct {
	Ni float64 // index of refraction
}

func NewGlass(ni float64) *Glass { return &Glass{Ni: ni} }

func (g *Glass) IsSpecular(geom core.Geom, comp core.Component) bool { return true }

func (g *Glass) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	n := geom.N
	cosThetaI := wi.Dot(n)
	entering := cosThetaI > 0
	if !entering {
		n = n.Negate()
		cosThetaI = -cosThetaI
	}

	etaI, etaT := 1.0, g.Ni
	if !entering {
		etaI, etaT = g.Ni, 1.0
	}
	eta := etaI / etaT

	wt, tir := wi.Negate().Refract(n, eta)

	r0 := (etaI - etaT) / (etaI + etaT)
	r0 *= r0
	F := core.SchlickFresnel(r0, cosThetaI)
	if tir {
		F = 1
	}

	if rng.Float64() < F {
		wo := wi.Negate().Reflect(n)
		return core.MaterialDirectionSample{Wo: wo, Comp: 0, Weight: core.NewVec3(1, 1, 1)}, true
	}

	weight := 1.0
	if dir == core.TransportEL {
		// Radiance transport across a refractive interface scales by the
		// squared ratio of the two sides' solid angles (eta^2 Jacobian);
		// importance transport (LE) omits it.
		weight = eta * eta
	}
	return core.MaterialDirectionSample{Wo: wt, Comp: 1, Weight: core.NewVec3(weight, weight, weight)}, true
}

func (g *Glass) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	return 0
}

func (g *Glass) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	return core.Vec3{}
}

func (g *Glass) Reflectance(geom core.Geom) (core.Vec3, bool) { return core.Vec3{}, false }
