package accel

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// Quad is a planar rectangle defined by a corner and two edge vectors,
// tagged with a PrimitiveID. It doubles as the geometry behind area lights:
// pkg/light.AreaLight samples points on it via SamplePoint/Area.
type Quad struct {
	Corner, U, V core.Vec3
	Normal       core.Vec3
	d            float64
	w            core.Vec3
	prim         core.PrimitiveID
}

func NewQuad(corner, u, v core.Vec3, id core.PrimitiveID) *Quad {
	normal := u.Cross(v).Normalize()
	d := normal.Dot(corner)
	cross := u.Cross(v)
	w := normal.Multiply(1.0 / normal.Dot(cross))
	return &Quad{Corner: corner, U: u, V: v, Normal: normal, d: d, w: w, prim: id}
}

func (q *Quad) ID() core.PrimitiveID { return q.prim }

// Area returns the quad's surface area, |U x V|.
func (q *Quad) Area() float64 {
	return q.U.Cross(q.V).Length()
}

// SamplePoint maps two uniform random numbers to a point on the quad and its
// outward normal, for area-light sampling.
func (q *Quad) SamplePoint(u1, u2 float64) (core.Vec3, core.Vec3) {
	p := q.Corner.Add(q.U.Multiply(u1)).Add(q.V.Multiply(u2))
	return p, q.Normal
}

func (q *Quad) BoundingBox() core.AABB {
	corners := []core.Vec3{
		q.Corner,
		q.Corner.Add(q.U),
		q.Corner.Add(q.V),
		q.Corner.Add(q.U).Add(q.V),
	}
	return core.NewAABBFromPoints(corners...).Expand(1e-4)
}

func (q *Quad) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	denom := ray.Direction.Dot(q.Normal)
	if math.Abs(denom) < 1e-8 {
		return HitInfo{}, false
	}
	t := (q.d - ray.Origin.Dot(q.Normal)) / denom
	if t < tMin || t > tMax {
		return HitInfo{}, false
	}
	point := ray.At(t)
	hv := point.Subtract(q.Corner)
	alpha := q.w.Dot(hv.Cross(q.V))
	beta := q.w.Dot(q.U.Cross(hv))
	if alpha < 0 || alpha > 1 || beta < 0 || beta > 1 {
		return HitInfo{}, false
	}
	normal, frontFace := setFaceNormal(ray, q.Normal)
	return HitInfo{
		T:         t,
		Point:     point,
		Normal:    normal,
		UV:        core.NewVec2(alpha, beta),
		Primitive: q.prim,
		FrontFace: frontFace,
	}, true
}

func (q *Quad) HitAny(ray core.Ray, tMin, tMax float64) bool {
	_, ok := q.Hit(ray, tMin, tMax)
	return ok
}
