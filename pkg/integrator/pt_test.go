package integrator

import (
	"math"
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
	"github.com/lightmetrica/lightmetrica-go/pkg/film"
)

// fakeScene is a hand-wired core.Scene stub: every method returns a fixed,
// test-configured value rather than doing any real geometric work. Only the
// methods pt.go actually calls need to behave; the rest satisfy the
// interface with zero values.
type fakeScene struct {
	sampleRayOK     bool
	sampleRayComp   core.Component
	sampleRayWo     core.Vec3
	sampleRayWeight core.Vec3

	intersectHit core.SceneInteraction
	intersectOK  bool

	neeOK      bool
	neeSp      core.SceneInteraction
	neeComp    core.Component
	neeWo      core.Vec3
	neeWeight  core.Vec3
	visible    bool
	isSpecular bool

	emission     core.Vec3
	fsDirect     core.Vec3
	pdfDirect    float64
	pdfDirection float64

	lightPrimitives map[core.PrimitiveID]bool
	rasterPos       core.Vec2

	sampleDirectionOK     bool
	sampleDirectionComp   core.Component
	sampleDirectionWo     core.Vec3
	sampleDirectionWeight core.Vec3

	sampleDistanceOK     bool
	sampleDistanceSp     core.SceneInteraction
	sampleDistanceWeight core.Vec3

	transmittance core.Vec3
}

func (s *fakeScene) PrimaryRay(core.Vec2, float64) core.Ray { return core.Ray{} }

func (s *fakeScene) RasterPosition(core.Vec3, float64) (core.Vec2, bool) {
	return s.rasterPos, true
}

func (s *fakeScene) Intersect(core.Ray, float64, float64) (core.SceneInteraction, bool) {
	return s.intersectHit, s.intersectOK
}

func (s *fakeScene) Visible(core.SceneInteraction, core.SceneInteraction) bool { return s.visible }

func (s *fakeScene) IsLight(sp core.SceneInteraction) bool {
	return s.lightPrimitives[sp.Primitive]
}

func (s *fakeScene) IsSpecular(core.SceneInteraction, core.Component) bool { return s.isSpecular }

func (s *fakeScene) SampleRay(_ core.RNG, sp core.SceneInteraction, _ core.Vec3) (core.RaySample, bool) {
	return core.RaySample{Sp: sp, Comp: s.sampleRayComp, Wo: s.sampleRayWo, Weight: s.sampleRayWeight}, s.sampleRayOK
}

func (s *fakeScene) SampleDirection(core.RNG, core.SceneInteraction, core.Vec3) (core.DirectionSample, bool) {
	return core.DirectionSample{Comp: s.sampleDirectionComp, Wo: s.sampleDirectionWo, Weight: s.sampleDirectionWeight}, s.sampleDirectionOK
}

func (s *fakeScene) PdfDirection(core.SceneInteraction, core.Component, core.Vec3, core.Vec3) float64 {
	return s.pdfDirection
}

func (s *fakeScene) SampleDirectLight(core.RNG, core.SceneInteraction) (core.RaySample, bool) {
	return core.RaySample{Sp: s.neeSp, Comp: s.neeComp, Wo: s.neeWo, Weight: s.neeWeight}, s.neeOK
}

func (s *fakeScene) SampleDirectCamera(core.RNG, core.SceneInteraction, float64) (core.RaySample, bool) {
	return core.RaySample{}, false
}

func (s *fakeScene) PdfDirect(core.SceneInteraction, core.SceneInteraction, core.Component, core.Vec3) float64 {
	return s.pdfDirect
}

func (s *fakeScene) SampleDistance(core.RNG, core.SceneInteraction, core.Vec3) (core.DistanceSample, bool) {
	return core.DistanceSample{Sp: s.sampleDistanceSp, Weight: s.sampleDistanceWeight}, s.sampleDistanceOK
}

func (s *fakeScene) EvalTransmittance(core.RNG, core.SceneInteraction, core.SceneInteraction) core.Vec3 {
	return s.transmittance
}

func (s *fakeScene) EvalContrib(core.SceneInteraction, core.Component, core.Vec3, core.Vec3) core.Vec3 {
	return s.fsDirect
}

func (s *fakeScene) EvalContribEndpointDirection(core.SceneInteraction, core.Vec3) core.Vec3 {
	return s.emission
}

func (s *fakeScene) Reflectance(core.SceneInteraction, core.Component) (core.Vec3, bool) {
	return core.Vec3{}, false
}

func (s *fakeScene) TraversePrimitiveNodes(func(core.PrimitiveID, core.Transform) bool) {}

// newFakeScene builds a one-bounce-then-light fixture: the first SampleRay
// call always succeeds with weight (1,1,1), and Intersect reports a hit on
// primitive 42, which is registered as a light. The caller flips neeOK,
// visible, etc. per test.
func newFakeScene() *fakeScene {
	return &fakeScene{
		sampleRayOK:     true,
		sampleRayWeight: core.NewVec3(1, 1, 1),
		intersectHit:    core.SceneInteraction{Primitive: 42},
		intersectOK:     true,
		lightPrimitives: map[core.PrimitiveID]bool{42: true},
		rasterPos:       core.NewVec2(0.5, 0.5),

		sampleDirectionOK:     true,
		sampleDirectionWeight: core.NewVec3(1, 1, 1),
		sampleDistanceOK:      true,
		sampleDistanceSp:      core.SceneInteraction{Primitive: 42},
		sampleDistanceWeight:  core.NewVec3(1, 1, 1),
		transmittance:         core.NewVec3(1, 1, 1),
	}
}

func TestPixelModeDisablesNEEOnPrimaryVertex(t *testing.T) {
	for _, mode := range []Mode{Naive, NEE, MIS} {
		s := newFakeScene()
		s.emission = core.NewVec3(2, 2, 2)
		s.neeOK = true // would fire if NEE were enabled at length 0

		f := film.New(4, 4)
		pt := NewPT(PTConfig{MaxLength: 1, Mode: mode, ImageSampleMode: Pixel})
		pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

		got := f.At(2, 2)
		if got != core.NewVec3(2, 2, 2) {
			t.Errorf("mode %v: pixel = %v, want the unweighted direct-hit emission (2,2,2)", mode, got)
		}
	}
}

func TestNEEModeDoesNotDoubleCountADirectHit(t *testing.T) {
	s := newFakeScene()
	s.emission = core.NewVec3(2, 2, 2)
	s.neeOK = true
	s.visible = true
	s.neeWeight = core.NewVec3(1, 1, 1)
	s.fsDirect = core.NewVec3(0.3, 0.3, 0.3)

	f := film.New(4, 4)
	pt := NewPT(PTConfig{MaxLength: 1, Mode: NEE, ImageSampleMode: Image})
	pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

	got := f.At(2, 2)
	want := core.NewVec3(0.3, 0.3, 0.3)
	if got != want {
		t.Errorf("pixel = %v, want only the NEE contribution %v (no double-counted emission)", got, want)
	}
}

func TestMISCombinesDirectHitAndNEEWithBalanceHeuristic(t *testing.T) {
	s := newFakeScene()
	s.emission = core.NewVec3(2, 2, 2)
	s.neeOK = true
	s.visible = true
	s.neeWeight = core.NewVec3(1, 1, 1)
	s.fsDirect = core.NewVec3(0.4, 0.4, 0.4)
	s.pdfDirect = 1.0
	s.pdfDirection = 1.0

	f := film.New(4, 4)
	pt := NewPT(PTConfig{MaxLength: 1, Mode: MIS, ImageSampleMode: Image})
	pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

	got := f.At(2, 2)
	want := core.NewVec3(1.2, 1.2, 1.2) // 0.5*(0.4,0.4,0.4) NEE + 0.5*(2,2,2) direct hit
	if math.Abs(got.X-want.X) > 1e-9 || math.Abs(got.Y-want.Y) > 1e-9 || math.Abs(got.Z-want.Z) > 1e-9 {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestWalkTerminatesWhenSampleRayFails(t *testing.T) {
	s := newFakeScene()
	s.sampleRayOK = false

	f := film.New(4, 4)
	pt := NewPT(PTConfig{MaxLength: 4, Mode: MIS, ImageSampleMode: Pixel})
	pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

	if got := f.At(2, 2); !got.IsZero() {
		t.Errorf("pixel = %v, want zero when the first SampleRay call fails", got)
	}
}

func TestWalkTerminatesWhenIntersectMisses(t *testing.T) {
	s := newFakeScene()
	s.intersectOK = false

	f := film.New(4, 4)
	pt := NewPT(PTConfig{MaxLength: 4, Mode: MIS, ImageSampleMode: Pixel})
	pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

	if got := f.At(2, 2); !got.IsZero() {
		t.Errorf("pixel = %v, want zero when the post-sample Intersect call misses", got)
	}
}

func TestWalkAbortsOnNonFiniteThroughput(t *testing.T) {
	s := newFakeScene()
	s.sampleRayWeight = core.NewVec3(math.Inf(1), 1, 1)
	s.emission = core.NewVec3(2, 2, 2)

	f := film.New(4, 4)
	pt := NewPT(PTConfig{MaxLength: 4, Mode: Naive, ImageSampleMode: Pixel})
	pt.Sample(core.NewGoRNG(1), s, f, core.NewVec2(0.5, 0.5), 1.0)

	if got := f.At(2, 2); !got.IsZero() {
		t.Errorf("pixel = %v, want zero: a non-finite weight must abort before splatting", got)
	}
}

func TestMaxComponent(t *testing.T) {
	if got := maxComponent(core.NewVec3(0.1, 0.9, 0.3)); got != 0.9 {
		t.Errorf("maxComponent = %f, want 0.9", got)
	}
}

func TestIsFiniteVec(t *testing.T) {
	if !isFiniteVec(core.NewVec3(1, 2, 3)) {
		t.Error("(1,2,3) should be finite")
	}
	if isFiniteVec(core.NewVec3(math.NaN(), 0, 0)) {
		t.Error("a NaN component should not be finite")
	}
	if isFiniteVec(core.NewVec3(math.Inf(1), 0, 0)) {
		t.Error("an infinite component should not be finite")
	}
}
