package integrator

import (
	"math"
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/accel"
	"github.com/lightmetrica/lightmetrica-go/pkg/asset"
	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/film"
	"github.com/lightmetrica/lightmetrica-go/pkg/light"
	"github.com/lightmetrica/lightmetrica-go/pkg/material"
	"github.com/lightmetrica/lightmetrica-go/pkg/scene"
)

// These are reduced-sample-count smoke variants of spec.md §8's end-to-end
// scenarios: same scene shape and same statistic under test, fewer samples
// and a loosened tolerance so the suite stays fast.

const (
	primS1Camera core.PrimitiveID = iota
	primS1Light
)

// buildSingleLightScene is scenario 1's fixture: nothing but a camera
// looking straight at a single area light, the light's emitting face turned
// toward the camera.
func buildSingleLightScene(t *testing.T) *scene.Scene {
	t.Helper()
	s := scene.New(asset.NewCatalog())
	s.SetCamera(light.NewCamera(
		core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1), core.NewVec3(0, 1, 0),
		math.Pi/3, primS1Camera,
	), 1.0)

	quad := accel.NewQuad(core.NewVec3(-1, -1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), primS1Light)
	areaLight := light.NewAreaLight(quad, core.NewVec3(1, 1, 1), primS1Light)
	s.AddAreaLight(areaLight, 1)
	s.Build(nil)
	return s
}

// Scenario 1: empty scene, single area light, MIS, 1x1 film, camera looking
// directly at it. spec.md §8.1 wants the pixel within 0.05 of (1,1,1) at
// 1024spp; this fixture's camera-to-light path has no other geometry to
// bounce off, so the estimator is exact per sample and a handful of samples
// already demonstrates convergence.
func TestScenarioSingleAreaLightMIS(t *testing.T) {
	s := buildSingleLightScene(t)
	f := film.New(1, 1)
	pt := NewPT(PTConfig{MaxLength: 4, Mode: MIS, ImageSampleMode: Pixel})
	rng := core.NewGoRNG(1)

	const spp = 64
	rp := core.NewVec2(0.5, 0.5)
	for i := 0; i < spp; i++ {
		pt.Sample(rng, s, f, rp, 1.0)
	}
	f.Rescale(1.0 / spp)

	got := f.At(0, 0)
	want := core.NewVec3(1, 1, 1)
	if math.Abs(got.X-want.X) > 0.05 || math.Abs(got.Y-want.Y) > 0.05 || math.Abs(got.Z-want.Z) > 0.05 {
		t.Errorf("pixel = %v, want within 0.05 of %v", got, want)
	}
}

// --- scenarios 2, 3, 6 share a small Cornell-box-like fixture. ---

const (
	primBoxCamera core.PrimitiveID = iota
	primBoxFloor
	primBoxCeiling
	primBoxBack
	primBoxLeft
	primBoxRight
	primBoxLight
	primBoxSphere
)

// boxScene is a simplified Cornell box: floor/ceiling/back wall white, left
// wall red, right wall green, a small bright quad light recessed in the
// ceiling, open on the camera side. withMirrorSphere additionally drops a
// mirror sphere in the middle of the floor, for scenario 3.
func boxScene(t *testing.T, withMirrorSphere bool) (*scene.Scene, float64) {
	t.Helper()
	catalog := asset.NewCatalog()
	catalog.Replace("white", material.NewDiffuse(core.NewVec3(0.78, 0.78, 0.78)))
	catalog.Replace("red", material.NewDiffuse(core.NewVec3(0.85, 0.1, 0.1)))
	catalog.Replace("green", material.NewDiffuse(core.NewVec3(0.1, 0.85, 0.1)))
	catalog.Replace("mirror", material.NewMirror(core.NewVec3(0.95, 0.95, 0.95)))

	s := scene.New(catalog)
	aspect := 1.0
	s.SetCamera(light.NewCamera(
		core.NewVec3(0, 1, 2.5), core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0),
		math.Pi/3, primBoxCamera,
	), aspect)

	s.AddPrimitive(accel.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), primBoxFloor), "white")
	s.AddPrimitive(accel.NewQuad(core.NewVec3(-1, 2, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), primBoxCeiling), "white")
	s.AddPrimitive(accel.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), primBoxBack), "white")
	s.AddPrimitive(accel.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), primBoxLeft), "red")
	s.AddPrimitive(accel.NewQuad(core.NewVec3(1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(0, 2, 0), primBoxRight), "green")

	lightQuad := accel.NewQuad(core.NewVec3(-0.3, 1.99, -0.3), core.NewVec3(0.6, 0, 0), core.NewVec3(0, 0, 0.6), primBoxLight)
	s.AddAreaLight(light.NewAreaLight(lightQuad, core.NewVec3(15, 15, 15), primBoxLight), 1)

	if withMirrorSphere {
		s.AddPrimitive(accel.NewSphere(core.NewVec3(0, 0.5, -0.2), 0.5, primBoxSphere), "mirror")
	}

	s.Build(nil)
	return s, aspect
}

// render1x1 draws spp independent camera samples at the fixed raster
// position rp, through a freshly configured PT, and returns the averaged
// splat.
func render1x1(s *scene.Scene, aspect float64, cfg PTConfig, rp core.Vec2, rng core.RNG, spp int) core.Vec3 {
	f := film.New(1, 1)
	pt := NewPT(cfg)
	for i := 0; i < spp; i++ {
		pt.Sample(rng, s, f, rp, aspect)
	}
	f.Rescale(1.0 / float64(spp))
	return f.At(0, 0)
}

// Scenario 2: Cornell-box red-bleed sanity. A raster position known (and
// verified below) to land directly on the red wall should read substantially
// more red than green.
func TestScenarioCornellBoxRedWallSanity(t *testing.T) {
	s, aspect := boxScene(t, false)

	rp := core.NewVec2(0.08, 0.5)
	ray := s.PrimaryRay(rp, aspect)
	hit, ok := s.Intersect(ray, 1e-4, math.Inf(1))
	if !ok || hit.Primitive != primBoxLeft {
		t.Fatalf("fixture raster position must land on the left (red) wall, got hit=%v ok=%v", hit, ok)
	}

	cfg := PTConfig{MaxLength: 6, Mode: MIS, ImageSampleMode: Pixel}
	got := render1x1(s, aspect, cfg, rp, core.NewGoRNG(2), 256)

	if got.X <= 0 {
		t.Fatalf("expected nonzero red channel on the red wall, got %v", got)
	}
	if got.X < 1.2*got.Y {
		t.Errorf("red channel = %f, green channel = %f; want red >= 1.2x green on the red wall", got.X, got.Y)
	}
}

// Scenario 3: mirror sphere over a diffuse floor (the example pack carries
// no checkerboard material, so a plain diffuse floor stands in for the
// checker plane named in spec.md §8.3 -- the property under test, naive vs
// MIS agreement, doesn't depend on the floor's texture). Naive and MIS PT
// are different estimators of the same integral and must converge to the
// same pixel value.
func TestScenarioMirrorNaiveVsMISAgree(t *testing.T) {
	s, aspect := boxScene(t, true)

	rp := core.NewVec2(0.5, 0.66)
	ray := s.PrimaryRay(rp, aspect)
	hit, ok := s.Intersect(ray, 1e-4, math.Inf(1))
	if !ok || hit.Primitive != primBoxSphere {
		t.Fatalf("fixture raster position must land on the mirror sphere, got hit=%v ok=%v", hit, ok)
	}

	const spp = 1024
	naive := render1x1(s, aspect, PTConfig{MaxLength: 8, Mode: Naive, ImageSampleMode: Pixel}, rp, core.NewGoRNG(3), spp)
	mis := render1x1(s, aspect, PTConfig{MaxLength: 8, Mode: MIS, ImageSampleMode: Pixel}, rp, core.NewGoRNG(4), spp)

	rms := math.Sqrt((sq(naive.X-mis.X) + sq(naive.Y-mis.Y) + sq(naive.Z-mis.Z)) / 3)
	const tol = 0.15 // loosened from spec.md §8.3's 0.02 for the reduced sample count here
	if rms > tol {
		t.Errorf("naive=%v mis=%v RMS=%f, want <= %f", naive, mis, rms, tol)
	}
}

func sq(x float64) float64 { return x * x }

// Scenario 6: Russian-roulette unbiasedness. pt.go has no flag to disable
// RR outright (it always applies once a path passes length 3), so this
// compares two max-length budgets that both exercise RR at different
// depths instead of an RR-on/RR-off pair: if RR's 1/(1-q) compensation
// were biased, pushing the cutoff from 6 to 14 bounces would shift the
// mean by more than the (negligible, for this low-albedo box) energy
// carried by bounces 7-14 alone.
func TestScenarioRussianRouletteUnbiased(t *testing.T) {
	s, aspect := boxScene(t, false)
	rp := core.NewVec2(0.08, 0.5) // the red wall pixel from scenario 2, reused for its strong GI signal

	const spp = 1024
	short := render1x1(s, aspect, PTConfig{MaxLength: 6, Mode: MIS, ImageSampleMode: Pixel}, rp, core.NewGoRNG(5), spp)
	long := render1x1(s, aspect, PTConfig{MaxLength: 14, Mode: MIS, ImageSampleMode: Pixel}, rp, core.NewGoRNG(6), spp)

	rms := math.Sqrt((sq(short.X-long.X) + sq(short.Y-long.Y) + sq(short.Z-long.Z)) / 3)
	const tol = 0.15
	if rms > tol {
		t.Errorf("maxLength=6 mean=%v, maxLength=14 mean=%v, RMS=%f, want <= %f (RR should not bias longer-budget renders)", short, long, rms, tol)
	}
}
