package accel

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// leafThreshold is the node size below which the BVH stops splitting and
// falls back to linear search; splitting further costs more in tree
// traversal than it saves in per-leaf tests.
const leafThreshold = 8

type bvhNode struct {
	box         core.AABB
	left, right *bvhNode
	prims       []Primitive
}

// BVH is a bounding volume hierarchy over a fixed set of primitives, built
// once at scene load and queried read-only for the lifetime of a render.
type BVH struct {
	root              *bvhNode
	FiniteWorldCenter core.Vec3
	FiniteWorldRadius float64
}

// NewBVH builds a BVH from prims by splitting each node at the midpoint of
// the longest axis of its bounding box — cheap to build and good enough for the
// branching factors a path-tracing hot loop needs.
func NewBVH(prims []Primitive) *BVH {
	if len(prims) == 0 {
		return &BVH{}
	}
	cp := make([]Primitive, len(prims))
	copy(cp, prims)

	center, radius := finiteWorldBounds(cp)
	return &BVH{root: build(cp), FiniteWorldCenter: center, FiniteWorldRadius: radius}
}

func build(prims []Primitive) *bvhNode {
	box := prims[0].BoundingBox()
	for _, p := range prims[1:] {
		box = box.Union(p.BoundingBox())
	}
	if len(prims) <= leafThreshold {
		return &bvhNode{box: box, prims: prims}
	}

	axis := box.LongestAxis()
	split := axisSplit(box, axis)

	var left, right []Primitive
	for _, p := range prims {
		if axisValue(p.BoundingBox().Center(), axis) < split {
			left = append(left, p)
		} else {
			right = append(right, p)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &bvhNode{box: box, prims: prims}
	}

	return &bvhNode{box: box, left: build(left), right: build(right)}
}

func axisValue(v core.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func axisSplit(box core.AABB, axis int) float64 {
	return (axisValue(box.Min, axis) + axisValue(box.Max, axis)) * 0.5
}

// Intersect finds the closest primitive hit along ray within [tMin, tMax].
func (b *BVH) Intersect(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	if b.root == nil {
		return HitInfo{}, false
	}
	return hitNode(b.root, ray, tMin, tMax)
}

func hitNode(node *bvhNode, ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	if !node.box.Hit(ray, tMin, tMax) {
		return HitInfo{}, false
	}

	if node.prims != nil {
		var best HitInfo
		found := false
		closest := tMax
		for _, p := range node.prims {
			if hit, ok := p.Hit(ray, tMin, closest); ok {
				found = true
				closest = hit.T
				best = hit
			}
		}
		return best, found
	}

	var best HitInfo
	found := false
	closest := tMax
	if node.left != nil {
		if hit, ok := hitNode(node.left, ray, tMin, closest); ok {
			found, closest, best = true, hit.T, hit
		}
	}
	if node.right != nil {
		if hit, ok := hitNode(node.right, ray, tMin, closest); ok {
			found, best = true, hit
		}
	}
	return best, found
}

// IntersectAny is the any-hit test used for shadow rays.
func (b *BVH) IntersectAny(ray core.Ray, tMin, tMax float64) bool {
	if b.root == nil {
		return false
	}
	return hitAnyNode(b.root, ray, tMin, tMax)
}

func hitAnyNode(node *bvhNode, ray core.Ray, tMin, tMax float64) bool {
	if !node.box.Hit(ray, tMin, tMax) {
		return false
	}
	if node.prims != nil {
		for _, p := range node.prims {
			if p.HitAny(ray, tMin, tMax) {
				return true
			}
		}
		return false
	}
	if node.left != nil && hitAnyNode(node.left, ray, tMin, tMax) {
		return true
	}
	if node.right != nil && hitAnyNode(node.right, ray, tMin, tMax) {
		return true
	}
	return false
}

func finiteWorldBounds(prims []Primitive) (core.Vec3, float64) {
	var box core.AABB
	has := false
	for _, p := range prims {
		b := p.BoundingBox()
		size := b.Size()
		if size.X > 1e5 || size.Y > 1e5 || size.Z > 1e5 {
			continue
		}
		if !has {
			box, has = b, true
		} else {
			box = box.Union(b)
		}
	}
	if !has {
		return core.Vec3{}, 0
	}
	center := box.Center()
	return center, box.Max.Subtract(center).Length()
}
