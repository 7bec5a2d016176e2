// Package light implements the endpoint distributions (camera, area light,
// environment light) and light-selection sampler the scene layer composes
// into the core.Scene contract.
package light

import (
	"math"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// Camera is a pinhole camera: a single point (no lens, no depth of field),
// deterministic primary rays, unit importance over the whole film.
type Camera struct {
	Origin                core.Vec3
	Forward, Right, Up    core.Vec3 // orthonormal, camera-space basis
	halfHeight            float64   // tan(verticalFOV/2)
	focalDistance         float64
	primitive             core.PrimitiveID
}

// NewCamera builds a pinhole camera looking from eye toward target, with
// the given vertical field of view (radians) and a unit focal distance.
func NewCamera(eye, target, up core.Vec3, vfov float64, id core.PrimitiveID) *Camera {
	forward := target.Subtract(eye).Normalize()
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)
	return &Camera{
		Origin:        eye,
		Forward:       forward,
		Right:         right,
		Up:            trueUp,
		halfHeight:    math.Tan(vfov / 2),
		focalDistance: 1.0,
		primitive:     id,
	}
}

func (c *Camera) ID() core.PrimitiveID { return c.primitive }

// PrimaryRay returns the deterministic camera ray through raster coordinate
// rp in [0,1]^2 for the given film aspect ratio.
func (c *Camera) PrimaryRay(rp core.Vec2, aspect float64) core.Ray {
	halfWidth := aspect * c.halfHeight
	x := (rp.X - 0.5) * 2 * halfWidth
	y := (0.5 - rp.Y) * 2 * c.halfHeight // raster Y grows downward
	dir := c.Forward.Multiply(c.focalDistance).
		Add(c.Right.Multiply(x)).
		Add(c.Up.Multiply(y)).
		Normalize()
	return core.NewRay(c.Origin, dir)
}

// RasterPosition inverts PrimaryRay: given a primary-ray direction wo, it
// recovers the raster coordinate it came from, or false if wo points behind
// the camera or outside the film.
func (c *Camera) RasterPosition(wo core.Vec3, aspect float64) (core.Vec2, bool) {
	forwardComp := wo.Dot(c.Forward)
	if forwardComp <= 0 {
		return core.Vec2{}, false
	}
	scale := c.focalDistance / forwardComp
	x := wo.Dot(c.Right) * scale
	y := wo.Dot(c.Up) * scale

	halfWidth := aspect * c.halfHeight
	s := 0.5 + x/(2*halfWidth)
	t := 0.5 - y/(2*c.halfHeight)
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return core.Vec2{}, false
	}
	return core.Vec2{X: s, Y: t}, true
}

// CameraEndpoint returns the degenerate SceneInteraction representing the
// pinhole itself: a single point with no area, tagged core.CameraEndpoint.
func (c *Camera) CameraEndpoint() core.SceneInteraction {
	return core.SceneInteraction{
		Type:      core.CameraEndpoint,
		Primitive: c.primitive,
		Geom: core.Geom{
			P:           c.Origin,
			N:           c.Forward,
			Degenerated: true,
		},
	}
}

// SampleDirectCamera samples the camera point and the direction from it
// toward sp, for light-tracing. Because the pinhole is a single point the
// "sample" is trivial: the only randomness is whether sp's raster falls
// inside the film.
func (c *Camera) SampleDirectCamera(sp core.SceneInteraction, aspect float64) (core.RaySample, bool) {
	toCamera := c.Origin.Subtract(sp.Geom.P)
	dist2 := toCamera.LengthSquared()
	if dist2 <= 0 {
		return core.RaySample{}, false
	}
	wo := toCamera.Normalize().Negate() // points from camera endpoint to sp
	if _, ok := c.RasterPosition(wo, aspect); !ok {
		return core.RaySample{}, false
	}
	importance := 1.0
	weight := core.NewVec3(importance, importance, importance).Multiply(1 / dist2)
	return core.RaySample{
		Sp:     c.CameraEndpoint(),
		Comp:   core.MarginalComponent,
		Wo:     wo,
		Weight: weight,
	}, true
}

// EvalContribEndpointDirection returns the camera's importance toward wo:
// 1 on valid rasters, 0 otherwise.
func (c *Camera) EvalContribEndpointDirection(wo core.Vec3, aspect float64) core.Vec3 {
	if _, ok := c.RasterPosition(wo, aspect); ok {
		return core.NewVec3(1, 1, 1)
	}
	return core.Vec3{}
}
