// Package film implements the accumulation buffer integrators splat
// radiance contributions into. It is the one piece of shared mutable state
// a render touches from every worker; splat takes the lock, rescale/clear
// are single-threaded phase operations called between passes.
package film

import (
	"math"
	"sync"

	"github.com/lightmetrica/lightmetrica-go/pkg/core"
)

// Film is a W x H grid of accumulated (unnormalized) radiance values.
type Film struct {
	mu            sync.Mutex
	Width, Height int
	pixels        []core.Vec3
}

// New allocates a cleared film of the given dimensions.
func New(width, height int) *Film {
	return &Film{Width: width, Height: height, pixels: make([]core.Vec3, width*height)}
}

// Splat accumulates value into the pixel under fractional raster coordinate
// rp in [0,1]^2. Contributions with any non-finite component are dropped
// rather than accumulated, per the renderer's NaN/Inf discipline; a splat
// landing outside the film (rp outside [0,1)^2) is silently ignored.
func (f *Film) Splat(rp core.Vec2, value core.Vec3) {
	if !isFinite(value) {
		return
	}
	x := int(math.Floor(rp.X * float64(f.Width)))
	y := int(math.Floor(rp.Y * float64(f.Height)))
	if x < 0 || x >= f.Width || y < 0 || y >= f.Height {
		return
	}
	idx := y*f.Width + x
	f.mu.Lock()
	f.pixels[idx] = f.pixels[idx].Add(value)
	f.mu.Unlock()
}

func isFinite(v core.Vec3) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}

// Rescale multiplies every pixel by s. Called once per render, between the
// scheduler draining and the caller reading the final image (e.g.
// normalizing by 1/spp or W*H/totalSamples).
func (f *Film) Rescale(s float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pixels {
		f.pixels[i] = f.pixels[i].Multiply(s)
	}
}

// Clear zeroes every pixel.
func (f *Film) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.pixels {
		f.pixels[i] = core.Vec3{}
	}
}

// At returns the current value of pixel (x, y).
func (f *Film) At(x, y int) core.Vec3 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pixels[y*f.Width+x]
}

// Aspect returns the film's width/height ratio, the value every Scene
// sampling-contract method that takes an aspect parameter expects.
func (f *Film) Aspect() float64 {
	return float64(f.Width) / float64(f.Height)
}
