package accel

import (
	"testing"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

func TestBVHFindsClosestHit(t *testing.T) {
	near := NewSphere(core.NewVec3(0, 0, -5), 1, 1)
	far := NewSphere(core.NewVec3(0, 0, -10), 1, 2)

	bvh := NewBVH([]Primitive{near, far})

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := bvh.Intersect(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Primitive != 1 {
		t.Errorf("expected to hit the nearer sphere (id 1), got %v", hit.Primitive)
	}
}

func TestBVHMissReportsNoHit(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1, 1)
	bvh := NewBVH([]Primitive{s})

	ray := core.NewRay(core.NewVec3(0, 100, 0), core.NewVec3(0, 0, -1))
	if _, ok := bvh.Intersect(ray, 0.001, 1000); ok {
		t.Error("expected no hit for a ray that misses all geometry")
	}
}

func TestBVHManyPrimitivesSplits(t *testing.T) {
	var prims []Primitive
	for i := 0; i < 64; i++ {
		prims = append(prims, NewSphere(core.NewVec3(float64(i)*3, 0, -5), 1, core.PrimitiveID(i)))
	}
	bvh := NewBVH(prims)

	ray := core.NewRay(core.NewVec3(30, 0, 0), core.NewVec3(0, 0, -1))
	hit, ok := bvh.Intersect(ray, 0.001, 1000)
	if !ok {
		t.Fatal("expected a hit among 64 spheres")
	}
	if hit.Primitive != 10 {
		t.Errorf("expected to hit sphere 10 at x=30, got primitive %v", hit.Primitive)
	}
}

func TestBVHIntersectAnyShortCircuits(t *testing.T) {
	s := NewSphere(core.NewVec3(0, 0, -5), 1, 1)
	bvh := NewBVH([]Primitive{s})

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if !bvh.IntersectAny(ray, 0.001, 1000) {
		t.Error("expected any-hit to report true")
	}
}

func TestEmptyBVH(t *testing.T) {
	bvh := NewBVH(nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := bvh.Intersect(ray, 0.001, 1000); ok {
		t.Error("empty BVH should never report a hit")
	}
}
