package accel

import "github.com/lightmetrica/lightmetrica-go/pkg/core"

// Triangle is a single triangle with optional per-vertex normals and UVs,
// tagged with a PrimitiveID (normally one shared by every triangle of a
// mesh, via TriangleMesh).
type Triangle struct {
	V0, V1, V2    core.Vec3
	N0, N1, N2    core.Vec3
	UV0, UV1, UV2 core.Vec2
	smooth        bool
	normal        core.Vec3
	bbox          core.AABB
	prim          core.PrimitiveID
}

func NewTriangle(v0, v1, v2 core.Vec3, uv0, uv1, uv2 core.Vec2, id core.PrimitiveID) *Triangle {
	t := &Triangle{V0: v0, V1: v1, V2: v2, UV0: uv0, UV1: uv1, UV2: uv2, prim: id}
	t.normal = v1.Subtract(v0).Cross(v2.Subtract(v0)).Normalize()
	t.bbox = core.NewAABBFromPoints(v0, v1, v2)
	return t
}

// NewTriangleSmooth attaches per-vertex shading normals, interpolated by
// barycentric coordinates at the hit point (Phong/Gouraud shading normals).
func NewTriangleSmooth(v0, v1, v2, n0, n1, n2 core.Vec3, uv0, uv1, uv2 core.Vec2, id core.PrimitiveID) *Triangle {
	t := NewTriangle(v0, v1, v2, uv0, uv1, uv2, id)
	t.N0, t.N1, t.N2, t.smooth = n0, n1, n2, true
	return t
}

func (t *Triangle) ID() core.PrimitiveID  { return t.prim }
func (t *Triangle) BoundingBox() core.AABB { return t.bbox }

func (t *Triangle) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	const epsilon = 1e-8

	edge1 := t.V1.Subtract(t.V0)
	edge2 := t.V2.Subtract(t.V0)
	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if a > -epsilon && a < epsilon {
		return HitInfo{}, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(t.V0)
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return HitInfo{}, false
	}

	q := s.Cross(edge1)
	v := f * ray.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return HitInfo{}, false
	}

	tParam := f * edge2.Dot(q)
	if tParam < tMin || tParam > tMax {
		return HitInfo{}, false
	}

	point := ray.At(tParam)
	uv := core.BarycentricVec2(t.UV0, t.UV1, t.UV2, u, v)

	geomNormal := t.normal
	if t.smooth {
		geomNormal = core.Barycentric(t.N0, t.N1, t.N2, u, v).Normalize()
	}
	normal, frontFace := setFaceNormal(ray, geomNormal)

	return HitInfo{
		T:         tParam,
		Point:     point,
		Normal:    normal,
		UV:        uv,
		Primitive: t.prim,
		FrontFace: frontFace,
	}, true
}

func (t *Triangle) HitAny(ray core.Ray, tMin, tMax float64) bool {
	_, ok := t.Hit(ray, tMin, tMax)
	return ok
}

// TriangleMesh groups a batch of triangles sharing a PrimitiveID so the
// scene layer can attach one material to an entire mesh without retagging
// every face.
type TriangleMesh struct {
	Triangles []*Triangle
	prim      core.PrimitiveID
}

func NewTriangleMesh(triangles []*Triangle, id core.PrimitiveID) *TriangleMesh {
	return &TriangleMesh{Triangles: triangles, prim: id}
}

func (m *TriangleMesh) ID() core.PrimitiveID { return m.prim }

func (m *TriangleMesh) BoundingBox() core.AABB {
	if len(m.Triangles) == 0 {
		return core.AABB{}
	}
	box := m.Triangles[0].BoundingBox()
	for _, t := range m.Triangles[1:] {
		box = box.Union(t.BoundingBox())
	}
	return box
}

func (m *TriangleMesh) Hit(ray core.Ray, tMin, tMax float64) (HitInfo, bool) {
	var best HitInfo
	found := false
	closest := tMax
	for _, t := range m.Triangles {
		if hit, ok := t.Hit(ray, tMin, closest); ok {
			found = true
			closest = hit.T
			best = hit
			best.Primitive = m.prim
		}
	}
	return best, found
}

func (m *TriangleMesh) HitAny(ray core.Ray, tMin, tMax float64) bool {
	for _, t := range m.Triangles {
		if t.HitAny(ray, tMin, tMax) {
			return true
		}
	}
	return false
}

// Flatten exposes the mesh's individual triangles for BVH leaf storage,
// retagged with the mesh's shared PrimitiveID.
func (m *TriangleMesh) Flatten() []Primitive {
	out := make([]Primitive, len(m.Triangles))
	for i, t := range m.Triangles {
		tc := *t
		tc.prim = m.prim
		out[i] = &tc
	}
	return out
}
