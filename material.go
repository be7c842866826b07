package phys2d

import "math"

// Material bundles the surface and mass properties attached to a shape.
// Restitution is clamped to [0, 1]: 0 is a dead stop, 1 a perfectly elastic
// bounce.
type Material struct {
	Density     float64
	Friction    float64
	Restitution float64
}

// MakeMaterial clamps restitution into range and floors negative density
// and friction at zero.
func MakeMaterial(density, friction, restitution float64) Material {
	if density < 0.0 {
		density = 0.0
	}
	if friction < 0.0 {
		friction = 0.0
	}
	return Material{
		Density:     density,
		Friction:    friction,
		Restitution: Clamp(restitution, 0.0, 1.0),
	}
}

// DefaultMaterial matches a generic solid object: unit density, moderate
// friction, no bounce.
var DefaultMaterial = Material{Density: 1.0, Friction: 0.5, Restitution: 0.0}

// mixFriction combines the friction of two materials by geometric mean, so
// one frictionless surface yields a frictionless contact.
func mixFriction(a, b float64) float64 {
	return math.Sqrt(a * b)
}

// mixRestitution combines restitution by max, so a bouncy ball bounces off
// anything.
func mixRestitution(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Filter controls collision eligibility independent of geometry.
//
// GroupIndex has the highest precedence: shapes sharing a positive group
// always collide, shapes sharing a negative group never collide. At group
// zero (or differing groups) the bitmask test applies: each shape's category
// must intersect the other's collision mask.
type Filter struct {
	CategoryBits  uint32
	CollisionBits uint32
	GroupIndex    int32
}

// DefaultFilter collides with everything.
var DefaultFilter = Filter{CategoryBits: 0x0001, CollisionBits: 0xFFFFFFFF, GroupIndex: 0}

// ShouldCollide applies the group/bitmask precedence rules.
func (f Filter) ShouldCollide(other Filter) bool {
	if f.GroupIndex == other.GroupIndex && f.GroupIndex != 0 {
		return f.GroupIndex > 0
	}
	return f.CategoryBits&other.CollisionBits != 0 && other.CategoryBits&f.CollisionBits != 0
}
