// Package loaders holds the one piece of OBJ/MTL interpretation this
// module is responsible for: mapping a parsed MTL material record onto a
// core.Material. Parsing the .obj/.mtl text itself is an external
// collaborator's job; this package only consumes its already-structured
// output.
package loaders

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/material"
)

// Texture is the subset of the external texture collaborator's interface
// this package needs to decide between an alpha-masked and opaque material.
type Texture interface {
	Eval(uv core.Vec2) core.Vec3
	EvalAlpha(uv core.Vec2) float64
	HasAlpha() bool
}

// MTLMaterial is the per-face material record the external OBJ/MTL loader
// hands back: diffuse/specular/emissive colors, Phong exponent, index of
// refraction, the numeric "illum" model selector, a diffuse texture
// reference, and an anisotropy parameter.
type MTLMaterial struct {
	Name         string
	Kd, Ks, Ke   core.Vec3
	Ns, Ni       float64
	Illum        int
	MapKd        Texture // nil if untextured
	Anisotropy   float64 // "an": 0 = isotropic
}

// ConvertOptions tunes illum-mapping behavior beyond what the MTL record
// itself carries.
type ConvertOptions struct {
	// SkipSpecularMat replaces illum 5 (mirror) and illum 7 (glass) with a
	// zero-albedo diffuse+glossy mixture, used to strip specular materials
	// from a scene without editing every .mtl file (e.g. a diffuse-only
	// reference render).
	SkipSpecularMat bool
	// Alpha is the baked-in opacity used when MapKd.HasAlpha() is true.
	// The renderer evaluates texture alpha once, here, rather than per
	// shading sample: material.MixtureWithAlpha's Alpha field is a
	// scalar fixed at construction, matching every other composite
	// material's per-primitive (not per-texel) granularity in this repo.
	Alpha float64
}

// Mirror and glass map directly onto illum 5 and 7; everything else falls
// through to the diffuse+glossy(+alpha) mixture family.
const (
	IllumMirror = 5
	IllumGlass  = 7
)

// ConvertMTLMaterial maps a parsed MTL record onto the renderer's internal
// Material variant set, following the illum-code convention: 5 is a
// perfect mirror, 7 is dielectric glass, and everything else is a
// diffuse+glossy(+alpha) mixture built from Kd/Ks/Ns.
func ConvertMTLMaterial(m MTLMaterial, opts ConvertOptions) core.Material {
	if opts.SkipSpecularMat && (m.Illum == IllumMirror || m.Illum == IllumGlass) {
		return zeroAlbedoMixture()
	}
	switch m.Illum {
	case IllumMirror:
		return material.NewMirror(m.Ks)
	case IllumGlass:
		return material.NewGlass(m.Ni)
	default:
		return convertMixture(m, opts)
	}
}

// zeroAlbedoMixture is the SkipSpecularMat replacement for a mirror or
// glass material: a Mixture (not MixtureWithAlpha, so no delta alpha lobe
// survives) built from an all-black diffuse and glossy lobe. It
// contributes nothing, but keeps the primitive a well-formed non-specular
// surface the MIS-driven integrators can query without special-casing it.
func zeroAlbedoMixture() core.Material {
	diffuse := material.NewDiffuse(core.Vec3{})
	glossy := material.NewGlossyAnisotropic(core.Vec3{}, 0.5, 0.5)
	return material.NewMixture(diffuse, glossy)
}

func convertMixture(m MTLMaterial, opts ConvertOptions) core.Material {
	r := 2 / (2 + m.Ns)
	anisotropicScale := math.Sqrt(math.Max(0, 1-0.9*m.Anisotropy))
	ax := math.Max(1e-3, r/anisotropicScale)
	ay := math.Max(1e-3, r*anisotropicScale)

	diffuse := material.NewDiffuse(m.Kd)
	glossy := material.NewGlossyAnisotropic(m.Ks, ax, ay)
	mix := material.NewMixture(diffuse, glossy)

	if m.MapKd != nil && m.MapKd.HasAlpha() {
		return material.NewMixtureWithAlpha(mix, opts.Alpha)
	}
	return mix
}
