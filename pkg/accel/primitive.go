// Package accel provides the acceleration-structure query surface the
// sampling contract builds on: a BVH over opaque Primitive values,
// returning HitInfo records keyed by core.PrimitiveID rather than an
// embedded material/light pointer, so the scene layer decides what a
// primitive id is attached to.
package accel

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// HitInfo is the result of a successful ray/primitive intersection.
type HitInfo struct {
	T         float64
	Point     core.Vec3
	Normal    core.Vec3 // geometric, outward-facing relative to the incoming ray
	UV        core.Vec2
	Primitive core.PrimitiveID
	FrontFace bool
}

// Primitive is a single piece of intersectable geometry tagged with the
// PrimitiveID the scene layer will use to resolve its material/light/medium
// attachment. It owns no material state itself.
type Primitive interface {
	// Hit tests the ray against the primitive within [tMin, tMax].
	Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool)
	// HitAny is a cheaper any-hit test for shadow rays.
	HitAny(ray core.Ray, tMin, tMax float64) bool
	// BoundingBox returns the primitive's world-space AABB.
	BoundingBox() core.AABB
	// ID returns the PrimitiveID this piece of geometry is tagged with.
	ID() core.PrimitiveID
}

// setFaceNormal orients outwardNormal against the incoming ray direction,
// following the teacher's front/back face convention: Normal always points
// against the ray, FrontFace records which side was actually hit.
func setFaceNormal(ray core.Ray, outwardNormal core.Vec3) (core.Vec3, bool) {
	frontFace := ray.Direction.Dot(outwardNormal) < 0
	if frontFace {
		return outwardNormal, true
	}
	return outwardNormal.Negate(), false
}
