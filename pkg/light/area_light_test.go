package light

import (
	"math"
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/accel"
	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

func TestAreaLightSampleDirectLightMatchesPdfDirect(t *testing.T) {
	quad := accel.NewQuad(core.NewVec3(-1, 5, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), 1)
	al := NewAreaLight(quad, core.NewVec3(1, 1, 1), 1)

	shadingPoint := core.NewVec3(0, 0, 0)
	rng := core.NewGoRNG(11)

	sum := 0.0
	const n = 20000
	for i := 0; i < n; i++ {
		rs, ok := al.SampleDirectLight(rng, shadingPoint)
		if !ok {
			continue
		}
		pdf := al.PdfDirect(rs.Sp.Geom.P, rs.Sp.Geom.N, shadingPoint)
		if pdf <= 0 {
			t.Fatalf("sampled point should have nonzero pdf under PdfDirect")
		}
		sum += pdf * rs.Weight.X // Weight is Ke/pdf with Ke=1, so each term is 1 when the pdfs agree
	}
	estimate := sum / n
	if math.Abs(estimate-1) > 0.05 {
		t.Errorf("expected ~1, got %f", estimate)
	}
}

func TestAreaLightBackFaceNoContribution(t *testing.T) {
	// Edge order u=(0,0,2), v=(2,0,0) makes u.Cross(v) point up (+Y).
	quad := accel.NewQuad(core.NewVec3(-1, 0, -1), core.NewVec3(0, 0, 2), core.NewVec3(2, 0, 0), 1)
	al := NewAreaLight(quad, core.NewVec3(1, 1, 1), 1)

	// Shading point below the quad, quad's normal points up (+Y): back face.
	shadingPoint := core.NewVec3(0, -5, 0)
	rng := core.NewGoRNG(5)
	hits := 0
	for i := 0; i < 100; i++ {
		if _, ok := al.SampleDirectLight(rng, shadingPoint); ok {
			hits++
		}
	}
	if hits != 0 {
		t.Errorf("sampling from behind a one-sided area light should never succeed, got %d hits", hits)
	}
}
