package core

import "math/rand"

// RNG is the source of randomness threaded through every sampling call. It is
// narrow on purpose: integrators and materials only ever need uniform floats
// and an initial seed, never the full *rand.Rand surface.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// GoRNG adapts the standard library's *rand.Rand to the RNG interface.
type GoRNG struct {
	r *rand.Rand
}

// NewGoRNG returns a GoRNG seeded deterministically from seed.
func NewGoRNG(seed int64) *GoRNG {
	return &GoRNG{r: rand.New(rand.NewSource(seed))}
}

func (g *GoRNG) Float64() float64 { return g.r.Float64() }
func (g *GoRNG) Intn(n int) int   { return g.r.Intn(n) }
