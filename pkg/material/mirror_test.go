package material

import (
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

func TestMirrorPerfectReflection(t *testing.T) {
	m := NewMirror(core.NewVec3(0.9, 0.9, 0.9))
	geom := core.Geom{N: core.NewVec3(0, 0, 1)}
	wi := core.NewVec3(0, 1, 1).Normalize() // direction back toward the viewer

	s, ok := m.SampleDirection(core.NewGoRNG(1), geom, wi, core.TransportEL)
	if !ok {
		t.Fatal("mirror should always scatter")
	}

	expected := core.NewVec3(0, -1, 1).Normalize()
	if s.Wo.Subtract(expected).Length() > 1e-9 {
		t.Errorf("expected reflection %v, got %v", expected, s.Wo)
	}
}

func TestMirrorIsSpecularAndZeroPdf(t *testing.T) {
	m := NewMirror(core.NewVec3(1, 1, 1))
	geom := core.Geom{N: core.NewVec3(0, 0, 1)}
	if !m.IsSpecular(geom, 0) {
		t.Error("mirror should report specular")
	}
	if pdf := m.PdfDirection(geom, 0, core.Vec3{}, core.Vec3{}, false); pdf != 0 {
		t.Errorf("mirror pdf should be zero without evalDelta, got %f", pdf)
	}
}
