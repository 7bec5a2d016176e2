package material

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

func maxComponent(v core.Vec3) float64 {
	m := v.X
	if v.Y > m {
		m = v.Y
	}
	if v.Z > m {
		m = v.Z
	}
	return m
}

// diffuseSelectProb is the probability of picking the diffuse lobe when
// choosing between a diffuse and a glossy lobe by relative albedo
// magnitude, falling back to 1 (always diffuse) when both are black.
func diffuseSelectProb(kd, ks core.Vec3) float64 {
	md, ms := maxComponent(kd), maxComponent(ks)
	if md+ms <= 0 {
		return 1
	}
	return md / (md + ms)
}

// Mixture combines a Diffuse and a GlossyAnisotropic lobe. It picks one lobe
// to sample from by relative-albedo probability wD, but always evaluates
// and reports the pdf against the marginal across both lobes so unbiased
// estimators built on top of Eval/PdfDirection stay exact.
type Mixture struct {
	Diffuse *Diffuse
	Glossy  *GlossyAnisotropic
	wD      float64
}

const (
	CompDiffuse core.Component = 0
	CompGlossy  core.Component = 1
	CompAlpha   core.Component = 2
)

func NewMixture(diffuse *Diffuse, glossy *GlossyAnisotropic) *Mixture {
	return &Mixture{Diffuse: diffuse, Glossy: glossy, wD: diffuseSelectProb(diffuse.Kd, glossy.Ks)}
}

func (m *Mixture) IsSpecular(geom core.Geom, comp core.Component) bool { return false }

func (m *Mixture) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	pickDiffuse := rng.Float64() < m.wD
	var wo core.Vec3
	if pickDiffuse {
		s, ok := m.Diffuse.SampleDirection(rng, geom, wi, dir)
		if !ok {
			return core.MaterialDirectionSample{}, false
		}
		wo = s.Wo
	} else {
		s, ok := m.Glossy.SampleDirection(rng, geom, wi, dir)
		if !ok {
			return core.MaterialDirectionSample{}, false
		}
		wo = s.Wo
	}

	pdf := m.PdfDirection(geom, core.MarginalComponent, wi, wo, false)
	if pdf <= 0 {
		return core.MaterialDirectionSample{}, false
	}
	f := m.Eval(geom, core.MarginalComponent, wi, wo, dir, false)
	weight := f.Multiply(wo.AbsDot(geom.N) / pdf)
	return core.MaterialDirectionSample{Wo: wo, Comp: core.MarginalComponent, Weight: weight}, true
}

func (m *Mixture) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	return m.wD*m.Diffuse.PdfDirection(geom, CompDiffuse, wi, wo, evalDelta) +
		(1-m.wD)*m.Glossy.PdfDirection(geom, CompGlossy, wi, wo, evalDelta)
}

func (m *Mixture) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	return m.Diffuse.Eval(geom, CompDiffuse, wi, wo, dir, evalDelta).
		Add(m.Glossy.Eval(geom, CompGlossy, wi, wo, dir, evalDelta))
}

func (m *Mixture) Reflectance(geom core.Geom) (core.Vec3, bool) { return m.Diffuse.Kd, true }

// MixtureWithAlpha adds an alpha pass-through lobe to Mixture, selected by
// texture-driven opacity: with probability 1-alpha the ray passes straight
// through (CompAlpha); otherwise it falls through to the D+G split. The
// marginal is defined piecewise by which side of the surface wi and wo fall
// on: when they're on opposite sides only the Alpha lobe could have
// produced wo, when they're on the same side only D+G could have.
type MixtureWithAlpha struct {
	Mixture *Mixture
	Mask    *Mask
	Alpha   float64
}

func NewMixtureWithAlpha(mix *Mixture, alpha float64) *MixtureWithAlpha {
	return &MixtureWithAlpha{Mixture: mix, Mask: NewMask(), Alpha: alpha}
}

func (m *MixtureWithAlpha) IsSpecular(geom core.Geom, comp core.Component) bool {
	return comp == CompAlpha
}

func (m *MixtureWithAlpha) SampleDirection(rng core.RNG, geom core.Geom, wi core.Vec3, dir core.TransportDirection) (core.MaterialDirectionSample, bool) {
	if rng.Float64() >= m.Alpha {
		s, ok := m.Mask.SampleDirection(rng, geom, wi, dir)
		if !ok {
			return core.MaterialDirectionSample{}, false
		}
		s.Comp = CompAlpha
		return s, true
	}
	s, ok := m.Mixture.SampleDirection(rng, geom, wi, dir)
	if !ok {
		return core.MaterialDirectionSample{}, false
	}
	return s, true
}

func (m *MixtureWithAlpha) opposingSides(geom core.Geom, wi, wo core.Vec3) bool {
	ci, co := wi.Dot(geom.N), wo.Dot(geom.N)
	return (ci > 0) != (co > 0)
}

func (m *MixtureWithAlpha) PdfDirection(geom core.Geom, comp core.Component, wi, wo core.Vec3, evalDelta bool) float64 {
	if m.opposingSides(geom, wi, wo) {
		if !evalDelta {
			return 0
		}
		return 1 - m.Alpha
	}
	return m.Alpha * m.Mixture.PdfDirection(geom, core.MarginalComponent, wi, wo, evalDelta)
}

func (m *MixtureWithAlpha) Eval(geom core.Geom, comp core.Component, wi, wo core.Vec3, dir core.TransportDirection, evalDelta bool) core.Vec3 {
	if m.opposingSides(geom, wi, wo) {
		if !evalDelta {
			return core.Vec3{}
		}
		return core.NewVec3(1, 1, 1).Multiply(1 - m.Alpha)
	}
	return m.Mixture.Eval(geom, core.MarginalComponent, wi, wo, dir, evalDelta).Multiply(m.Alpha)
}

func (m *MixtureWithAlpha) Reflectance(geom core.Geom) (core.Vec3, bool) {
	return m.Mixture.Reflectance(geom)
}
