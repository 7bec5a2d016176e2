package core

// InteractionType tags what a SceneInteraction represents: a real surface or
// medium point encountered during traversal, or one of the two path
// endpoints (camera, light), or a miss against an infinite environment.
type InteractionType int

const (
	SurfacePoint InteractionType = iota
	MediumPoint
	CameraEndpoint
	LightEndpoint
	InfiniteEnvHit
)

func (t InteractionType) String() string {
	switch t {
	case SurfacePoint:
		return "SurfacePoint"
	case MediumPoint:
		return "MediumPoint"
	case CameraEndpoint:
		return "CameraEndpoint"
	case LightEndpoint:
		return "LightEndpoint"
	case InfiniteEnvHit:
		return "InfiniteEnvHit"
	default:
		return "Unknown"
	}
}

// PrimitiveID is an opaque handle to whatever is attached to a geometric
// point: material, light, camera, or medium. Scene implementations decide
// how to resolve it; nothing outside pkg/scene interprets its bits.
type PrimitiveID int32

// InvalidPrimitive marks a SceneInteraction that carries no primitive
// attachment (e.g. a pure environment miss).
const InvalidPrimitive PrimitiveID = -1

// Geom is the geometric payload of a SceneInteraction.
type Geom struct {
	P           Vec3 // world position; meaningless when Infinite
	N           Vec3 // shading normal
	Infinite    bool // true for environment misses; P is not meaningful
	Degenerated bool // true for point/directional lights and the pinhole camera
	UV          Vec2
	Wo          Vec3 // valid only when Infinite: the miss direction
}

// SceneInteraction is a tagged record describing a sampled point along a
// path: a surface or medium vertex encountered by tracing, or one of the two
// path endpoints, or a miss against an infinite environment.
type SceneInteraction struct {
	Type      InteractionType
	Geom      Geom
	Primitive PrimitiveID
}

// AsType returns a copy of sp re-tagged with a different InteractionType.
// The same geometric point is evaluated once as a surface during the walk
// and again as an endpoint when its contribution (emission/importance) is
// folded in; AsType produces the second view without mutating the first.
func (sp SceneInteraction) AsType(t InteractionType) SceneInteraction {
	cp := sp
	cp.Type = t
	return cp
}

// IsEndpoint reports whether sp is tagged as a camera or light endpoint.
func (sp SceneInteraction) IsEndpoint() bool {
	return sp.Type == CameraEndpoint || sp.Type == LightEndpoint
}

// Component selects one lobe of a composite material or light. -1 means
// "unspecified", i.e. evaluate against the marginal across all lobes.
type Component int

const MarginalComponent Component = -1

// RaySample is the result of sampling a direction from an interaction: the
// point sampling was done from (Sp; unchanged for a surface/medium point,
// the canonical endpoint for a camera/light terminator), the lobe it came
// from, the direction taken, and a contribution/pdf weight. It carries no
// new intersection; RayFrom plus a separate Intersect call produces that.
type RaySample struct {
	Sp     SceneInteraction
	Comp   Component
	Wo     Vec3
	Weight Vec3
}

// RayFrom reconstructs the traced ray for a RaySample: it starts at origin
// (normally Sp.Geom.P) and points along Wo.
func (rs RaySample) RayFrom(origin Vec3) Ray {
	return NewRay(origin, rs.Wo)
}

// DirectionSample is the direction-only counterpart of RaySample: no new
// SceneInteraction is produced, only a sampled direction and its weight.
type DirectionSample struct {
	Wo     Vec3
	Comp   Component
	Weight Vec3
}

// DistanceSample is the result of sampling a distance along a ray through
// possibly-participating media: either a medium event or the next surface.
// Weight folds in any analytic transmittance division so callers never
// divide by a separately-tracked pdf.
type DistanceSample struct {
	Sp     SceneInteraction
	Weight Vec3
}

// TransportDirection distinguishes eye-to-light (EL) from light-to-eye (LE)
// transport. Most materials are reciprocal and ignore it; Glass's
// radiance-transport Jacobian (eta^2) is direction-dependent and does not.
type TransportDirection int

const (
	TransportEL TransportDirection = iota
	TransportLE
)
