// Package integrator implements the Monte Carlo estimators that turn a
// core.Scene sampling contract into splats on a film: unidirectional path
// tracing with next-event estimation and MIS (PT), and its volumetric
// counterpart (VolPT). Both are grounded on the same recursive-walk shape
// (emitted + direct + indirect, Russian roulette after a warm-up depth)
// restructured around the Scene contract instead of touching geometry or
// materials directly.
package integrator

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/film"
)

// Mode selects how a PT walk combines direct and indirect lighting.
type Mode int

const (
	// Naive never samples lights directly: all illumination arrives by
	// chance, through BSDF sampling alone.
	Naive Mode = iota
	// NEE samples lights directly at every non-specular vertex and ignores
	// emissive hits found by BSDF sampling from a vertex where NEE ran (no
	// MIS weighting); emissive hits from vertices where NEE was disabled
	// (specular vertices, the Pixel-mode primary vertex) are still counted.
	NEE
	// MIS combines both strategies with the balance heuristic.
	MIS
)

// ImageSampleMode selects how raster positions are assigned to samples.
type ImageSampleMode int

const (
	// Pixel assigns one fixed raster position per task; the scheduler
	// drives N independent samples per pixel.
	Pixel ImageSampleMode = iota
	// Image samples a random raster position per task; the scheduler
	// drives a fixed total sample count over the whole image.
	Image
)

// shadowEps pushes a continuation ray off the surface it left, avoiding
// immediate self-intersection.
const shadowEps = 1e-4

// PTConfig configures a PT walk.
type PTConfig struct {
	MaxLength       int
	Mode            Mode
	ImageSampleMode ImageSampleMode
}

// PT is a unidirectional path tracer: naive, next-event-estimation, or
// multiple-importance-sampled, at the caller's choice.
type PT struct {
	Config PTConfig
}

// NewPT returns a PT integrator with the given configuration.
func NewPT(cfg PTConfig) *PT {
	return &PT{Config: cfg}
}

// maxComponent returns the largest channel of v, used for the Russian
// roulette termination probability.
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

func isFiniteVec(v core.Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Sample traces one full path starting at raster coordinate rp and splats
// every light contribution it finds into f. rp is itself the sample: in
// Pixel mode the caller holds it fixed across many calls, in Image mode the
// caller draws a fresh one per call. aspect is the film's width/height
// ratio, needed to invert a sampled direction back to a raster coordinate.
func (pt *PT) Sample(rng core.RNG, sc core.Scene, f *film.Film, rp core.Vec2, aspect float64) {
	throughput := core.NewVec3(1, 1, 1)
	sp := core.SceneInteraction{Type: core.CameraEndpoint, Geom: core.Geom{UV: rp, Degenerated: true}}
	wi := core.Vec3{}
	rasterPos := rp

	for length := 0; length < pt.Config.MaxLength; length++ {
		s, ok := sc.SampleRay(rng, sp, wi)
		if !ok || s.Weight.IsZero() || !isFiniteVec(s.Weight) {
			break
		}
		if length == 0 {
			if p, ok := sc.RasterPosition(s.Wo, aspect); ok {
				rasterPos = p
			}
		}

		neeEnabled := pt.Config.Mode != Naive &&
			!sc.IsSpecular(s.Sp, s.Comp) &&
			(pt.Config.ImageSampleMode == Image || length > 0)

		if neeEnabled {
			pt.sampleDirectLight(rng, sc, f, s, wi, throughput, rasterPos, length, aspect)
		}

		hit, hitOK := sc.Intersect(s.RayFrom(s.Sp.Geom.P), shadowEps, math.Inf(1))
		if !hitOK {
			break
		}
		throughput = throughput.MultiplyVec(s.Weight)
		if !isFiniteVec(throughput) {
			break
		}

		if sc.IsLight(hit) && (pt.Config.Mode != NEE || !neeEnabled) {
			pt.splatDirectHit(sc, f, s, wi, hit, throughput, rasterPos, neeEnabled)
		}

		if length > 3 {
			q := math.Max(0.2, 1-maxComponent(throughput))
			if rng.Float64() < q {
				break
			}
			throughput = throughput.Multiply(1 / (1 - q))
		}

		wi = s.Wo.Negate()
		sp = hit
	}
}

// sampleDirectLight evaluates one next-event-estimation sample at the vertex
// sampling was just done from (s.Sp), reusing the lobe s.Comp the walk's
// continuation direction was drawn from to evaluate the BSDF toward the
// light sample too, so the per-lobe MIS comparison against the BSDF-sampling
// strategy stays apples to apples.
func (pt *PT) sampleDirectLight(rng core.RNG, sc core.Scene, f *film.Film, s core.RaySample, wi core.Vec3, throughput core.Vec3, rasterPos core.Vec2, length int, aspect float64) {
	sL, ok := sc.SampleDirectLight(rng, s.Sp)
	if !ok || !sc.Visible(s.Sp, sL.Sp) {
		return
	}

	rp := rasterPos
	if length == 0 {
		if p, ok := sc.RasterPosition(sL.Wo.Negate(), aspect); ok {
			rp = p
		}
	}

	woToLight := sL.Wo.Negate()
	directSamplable := !sc.IsSpecular(sL.Sp, sL.Comp) && !sL.Sp.Geom.Degenerated

	fs := sc.EvalContrib(s.Sp, s.Comp, wi, woToLight)
	misw := 1.0
	if pt.Config.Mode != NEE && directSamplable {
		misw = core.BalanceHeuristic(
			sc.PdfDirect(s.Sp, sL.Sp, sL.Comp, sL.Wo),
			sc.PdfDirection(s.Sp, s.Comp, wi, woToLight),
		)
	}

	contribution := throughput.MultiplyVec(fs).MultiplyVec(sL.Weight).Multiply(misw)
	f.Splat(rp, contribution)
}

// splatDirectHit handles a path that happened to land on a light by BSDF
// sampling: emission at the newly intersected vertex hit toward the
// direction the path arrived from, MIS-weighted against what NEE would have
// sampled from the vertex s.Sp the walk was standing at.
func (pt *PT) splatDirectHit(sc core.Scene, f *film.Film, s core.RaySample, wi core.Vec3, hit core.SceneInteraction, throughput core.Vec3, rasterPos core.Vec2, neeEnabled bool) {
	spL := hit.AsType(core.LightEndpoint)
	fs := sc.EvalContribEndpointDirection(spL, s.Wo.Negate())

	misw := 1.0
	if pt.Config.Mode != Naive && neeEnabled {
		misw = core.BalanceHeuristic(
			sc.PdfDirection(s.Sp, s.Comp, wi, s.Wo),
			sc.PdfDirect(s.Sp, spL, core.MarginalComponent, s.Wo.Negate()),
		)
	}

	f.Splat(rasterPos, throughput.MultiplyVec(fs).Multiply(misw))
}
