package core

import (
	"math"
	"testing"
)

func randomCosineDirection(normal Vec3, u1, u2 float64) Vec3 {
	local, _ := SampleCosineHemisphere(u1, u2)
	return NewBasis(normal).ToWorld(local)
}

func TestRandomCosineDirection(t *testing.T) {
	normal := NewVec3(0, 0, 1)

	const numSamples = 10000
	var totalCosine float64
	belowHemisphere := 0

	for i := 0; i < numSamples; i++ {
		u1 := (float64(i) + 0.5) / numSamples
		u2 := math.Mod(float64(i)*0.61803398875, 1.0)
		dir := randomCosineDirection(normal, u1, u2)

		length := dir.Length()
		if math.Abs(length-1.0) > 1e-3 {
			t.Errorf("Generated direction not unit length: %f", length)
		}

		cosTheta := dir.Dot(normal)
		if cosTheta < 0 {
			belowHemisphere++
		}

		totalCosine += math.Max(0, cosTheta)
	}

	if belowHemisphere > 0 {
		t.Errorf("Found %d rays below hemisphere out of %d", belowHemisphere, numSamples)
	}

	avgCosine := totalCosine / float64(numSamples)
	expectedAvgCosine := 2.0 / 3.0
	tolerance := 0.05
	if math.Abs(avgCosine-expectedAvgCosine) > tolerance {
		t.Errorf("Average cosine %f doesn't match expected %f (±%f)",
			avgCosine, expectedAvgCosine, tolerance)
	}
}

func TestRandomCosineDirectionOrthonormalBasis(t *testing.T) {
	testNormals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 0, 0),
		NewVec3(0.577, 0.577, 0.577).Normalize(),
		NewVec3(-1, 0, 0),
	}

	for _, normal := range testNormals {
		for i := 0; i < 100; i++ {
			u1 := (float64(i) + 0.5) / 100
			u2 := math.Mod(float64(i)*0.37, 1.0)
			dir := randomCosineDirection(normal, u1, u2)

			if math.Abs(dir.Length()-1.0) > 1e-3 {
				t.Errorf("Non-unit direction for normal %v: length=%f", normal, dir.Length())
			}

			cosTheta := dir.Dot(normal)
			if cosTheta < -1e-9 {
				t.Errorf("Direction below hemisphere for normal %v: cosTheta=%f", normal, cosTheta)
			}
		}
	}
}

func TestReflectPreservesAngle(t *testing.T) {
	n := NewVec3(0, 0, 1)
	v := NewVec3(1, 0, -1).Normalize()
	r := v.Reflect(n)
	if math.Abs(r.Dot(n)-(-v.Dot(n))) > 1e-9 {
		t.Errorf("reflected direction should mirror the incidence angle about the normal")
	}
	if math.Abs(r.LengthSquared()-1) > 1e-9 {
		t.Errorf("reflect should preserve unit length, got %v", r)
	}
}

func TestRefractNormalIncidenceIsUndeviated(t *testing.T) {
	n := NewVec3(0, 0, 1)
	v := NewVec3(0, 0, -1)
	refracted, tir := v.Refract(n, 1.0/1.5)
	if tir {
		t.Fatal("normal incidence should never total-internal-reflect")
	}
	if !refracted.Equals(v) {
		t.Errorf("normal-incidence refraction should pass straight through, got %v", refracted)
	}
}

func TestRefractTotalInternalReflection(t *testing.T) {
	n := NewVec3(0, 0, 1)
	v := NewVec3(0.99, 0, -0.1).Normalize() // grazing angle, dense-to-sparse
	_, tir := v.Refract(n, 1.5)
	if !tir {
		t.Errorf("expected total internal reflection at grazing angle with eta > 1")
	}
}

func TestBasisRoundTrip(t *testing.T) {
	normals := []Vec3{
		NewVec3(0, 0, 1),
		NewVec3(0, 1, 0),
		NewVec3(1, 1, 1).Normalize(),
		NewVec3(0, 0, -1),
	}
	for _, n := range normals {
		b := NewBasis(n)
		local := NewVec3(0.3, -0.4, 0.866)
		world := b.ToWorld(local)
		back := b.ToLocal(world)
		if math.Abs(back.X-local.X) > 1e-9 || math.Abs(back.Y-local.Y) > 1e-9 || math.Abs(back.Z-local.Z) > 1e-9 {
			t.Errorf("basis round trip failed for normal %v: got %v, want %v", n, back, local)
		}
		if math.Abs(b.ToWorld(Vec3{X: 0, Y: 0, Z: 1}).Subtract(n).Length()) > 1e-9 {
			t.Errorf("basis Z axis should equal the input normal for %v", n)
		}
	}
}
