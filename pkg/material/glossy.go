package material

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// GlossyAnisotropic is a Smith-masked anisotropic GGX microfacet BRDF,
// sampled via the visible-normal distribution (VNDF) to avoid wasting
// samples on normals the view direction can't see.
type GlossyAnisotropic struct {
	Ks             core.Vec3
	AlphaX, AlphaY float64
}

func NewGlossyAnisotropic(ks core.Vec3, alphaX, alphaY float64) *GlossyAnisotropic {
	return &GlossyAnisotropic{Ks: ks, AlphaX: math.Max(1e-3, alphaX), AlphaY: math.Max(1e-3, alphaY)}
}

func (g *GlossyAnisotropic) IsSpecular(geom core.Geom, comp core.Component) bool { return false }

func (g *GlossyAnisotropic) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	basis := core.NewBasis(geom.N)
	localWi := basis.ToLocal(wi)
	if localWi.Z <= 0 {
		return core.MaterialDirectionSample{}, false
	}

	wh := core.SampleGGXVNDF(localWi, g.AlphaX, g.AlphaY, rng.Float64(), rng.Float64())
	localWo := localWi.Negate().Reflect(wh)
	if localWo.Z <= 0 {
		return core.MaterialDirectionSample{}, false
	}

	pdf := g.pdfLocal(localWi, localWo, wh)
	if pdf <= 0 {
		return core.MaterialDirectionSample{}, false
	}
	f := g.evalLocal(localWi, localWo, wh)
	wo := basis.ToWorld(localWo)
	weight := f.Multiply(localWo.Z / pdf)
	return core.MaterialDirectionSample{Wo: wo, Comp: 0, Weight: weight}, true
}

func (g *GlossyAnisotropic) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	basis := core.NewBasis(geom.N)
	localWi, localWo := basis.ToLocal(wi), basis.ToLocal(wo)
	if localWi.Z <= 0 || localWo.Z <= 0 {
		return 0
	}
	wh := localWi.Add(localWo).Normalize()
	return g.pdfLocal(localWi, localWo, wh)
}

func (g *GlossyAnisotropic) pdfLocal(localWi, localWo, wh core.Vec3) float64 {
	dotWiWh := localWi.Dot(wh)
	if dotWiWh <= 0 {
		return 0
	}
	pdfWh := core.GGXG1(localWi, g.AlphaX, g.AlphaY) * dotWiWh * core.GGXD(wh, g.AlphaX, g.AlphaY) / localWi.Z
	return pdfWh / (4 * dotWiWh)
}

func (g *GlossyAnisotropic) evalLocal(localWi, localWo, wh core.Vec3) core.Vec3 {
	D := core.GGXD(wh, g.AlphaX, g.AlphaY)
	G := core.GGXG(localWi, localWo, g.AlphaX, g.AlphaY)
	denom := 4 * localWi.Z * localWo.Z
	if denom <= 0 {
		return core.Vec3{}
	}
	return g.Ks.Multiply(D * G / denom)
}

func (g *GlossyAnisotropic) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	basis := core.NewBasis(geom.N)
	localWi, localWo := basis.ToLocal(wi), basis.ToLocal(wo)
	if localWi.Z <= 0 || localWo.Z <= 0 {
		return core.Vec3{}
	}
	wh := localWi.Add(localWo).Normalize()
	return g.evalLocal(localWi, localWo, wh)
}

func (g *GlossyAnisotropic) Reflectance(geom core.Geom) (core.Vec3, bool) { return g.Ks, true }
