package accel

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// Sphere is a ray-intersectable sphere tagged with a PrimitiveID.
type Sphere struct {
	Center core.Vec3
	Radius float64
	Prim   core.PrimitiveID
}

func NewSphere(center core.Vec3, radius float64, id core.PrimitiveID) *Sphere {
	return &Sphere{Center: center, Radius: radius, Prim: id}
}

func (s *Sphere) ID() core.PrimitiveID { return s.Prim }

func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}

func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return HitInfo{}, false
	}
	sqrtD := math.Sqrt(discriminant)

	root := (-halfB - sqrtD) / a
	if root < tMin || root > tMax {
		root = (-halfB + sqrtD) / a
		if root < tMin || root > tMax {
			return HitInfo{}, false
		}
	}

	point := ray.At(root)
	outwardNormal := point.Subtract(s.Center).Multiply(1.0 / s.Radius)
	normal, frontFace := setFaceNormal(ray, outwardNormal)

	theta := math.Acos(-outwardNormal.Y)
	phi := math.Atan2(-outwardNormal.Z, outwardNormal.X) + math.Pi
	uv := core.NewVec2(phi/(2*math.Pi), theta/math.Pi)

	return HitInfo{
		T:         root,
		Point:     point,
		Normal:    normal,
		UV:        uv,
		Primitive: s.Prim,
		FrontFace: frontFace,
	}, true
}

func (s *Sphere) HitAny(ray core.Ray, tMin, tMax float64) bool {
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius
	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return false
	}
	sqrtD := math.Sqrt(discriminant)
	root := (-halfB - sqrtD) / a
	if root >= tMin && root <= tMax {
		return true
	}
	root = (-halfB + sqrtD) / a
	return root >= tMin && root <= tMax
}
