package integrator

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/film"
)

// VolPTConfig configures a VolPT walk. RRProb is the floor the Russian-roulette
// termination probability never goes below, however bright the path's
// throughput is.
type VolPTConfig struct {
	MaxLength       int
	Mode            Mode
	ImageSampleMode ImageSampleMode
	RRProb          float64
}

// VolPT is the volumetric counterpart of PT: it walks (direction, distance)
// pairs explicitly rather than tracing a combined ray, so free-flight
// sampling through participating media and analytic transmittance division
// both happen through the Scene contract instead of a single Intersect
// call. Unlike PT, a BSDF/phase-sampled hit that lands on a light is never
// MIS-weighted against NEE: the two strategies are mutually exclusive per
// vertex, not combined.
type VolPT struct {
	Config VolPTConfig
}

// NewVolPT returns a VolPT integrator with the given configuration.
func NewVolPT(cfg VolPTConfig) *VolPT {
	return &VolPT{Config: cfg}
}

// Sample traces one full volumetric path starting at raster coordinate rp
// and splats every light contribution it finds into f.
func (vpt *VolPT) Sample(rng core.RNG, sc core.Scene, f *film.Film, rp core.Vec2, aspect float64) {
	throughput := core.NewVec3(1, 1, 1)
	sp := core.SceneInteraction{Type: core.CameraEndpoint, Geom: core.Geom{UV: rp, Degenerated: true}}
	wi := core.Vec3{}
	rasterPos := rp

	for length := 0; length < vpt.Config.MaxLength; length++ {
		ds, ok := sc.SampleDirection(rng, sp, wi)
		if !ok || ds.Weight.IsZero() || !isFiniteVec(ds.Weight) {
			break
		}
		if length == 0 {
			if p, ok := sc.RasterPosition(ds.Wo, aspect); ok {
				rasterPos = p
			}
		}

		neeEnabled := vpt.Config.Mode != Naive &&
			!sc.IsSpecular(sp, ds.Comp) &&
			(vpt.Config.ImageSampleMode == Image || length > 0)

		if neeEnabled {
			vpt.sampleDirectLight(rng, sc, f, sp, ds, wi, throughput, rasterPos)
		}

		sd, ok := sc.SampleDistance(rng, sp, ds.Wo)
		if !ok {
			break
		}
		throughput = throughput.MultiplyVec(ds.Weight).MultiplyVec(sd.Weight)
		if !isFiniteVec(throughput) {
			break
		}

		if sc.IsLight(sd.Sp) && !neeEnabled {
			spL := sd.Sp.AsType(core.LightEndpoint)
			fs := sc.EvalContribEndpointDirection(spL, ds.Wo.Negate())
			f.Splat(rasterPos, throughput.MultiplyVec(fs))
		}

		if sd.Sp.Geom.Infinite {
			break
		}

		if length > 5 {
			q := math.Max(vpt.Config.RRProb, 1-maxComponent(throughput))
			if rng.Float64() < q {
				break
			}
			throughput = throughput.Multiply(1 / (1 - q))
		}

		wi = ds.Wo.Negate()
		sp = sd.Sp
	}
}

// sampleDirectLight evaluates one next-event-estimation sample at sp using
// stochastic transmittance rather than a binary visibility test, so it
// accounts for any medium lying between sp and the sampled light point.
func (vpt *VolPT) sampleDirectLight(rng core.RNG, sc core.Scene, f *film.Film, sp core.SceneInteraction, ds core.DirectionSample, wi core.Vec3, throughput core.Vec3, rasterPos core.Vec2) {
	sL, ok := sc.SampleDirectLight(rng, sp)
	if !ok {
		return
	}
	trans := sc.EvalTransmittance(rng, sp, sL.Sp)
	if trans.IsZero() {
		return
	}
	fs := sc.EvalContrib(sp, ds.Comp, wi, sL.Wo.Negate())
	contribution := throughput.MultiplyVec(fs).MultiplyVec(sL.Weight).MultiplyVec(trans)
	f.Splat(rasterPos, contribution)
}
