package phys2d

import "math"

func assert(a bool, msg string) {
	if !a {
		panic("phys2d internal: " + msg)
	}
}

const pi = math.Pi

// Global tuning constants, meters-kilograms-seconds units.
// Runtime-adjustable counterparts live in Tuning.

// The maximum number of contact points between two convex shapes.
const maxManifoldPoints = 2

// The maximum number of vertices on a convex polygon.
const maxPolygonVertices = 8

// Fattening applied to AABBs in the dynamic tree so proxies can move a
// little without triggering a tree update. In meters.
const aabbExtension = 0.1

// Dimensionless multiplier used to predict AABB displacement from the
// current move delta.
const aabbMultiplier = 2.0

// A small length used as a collision and constraint tolerance. Chosen to be
// numerically significant but visually insignificant.
const linearSlop = 0.005

// A small angle used as a constraint tolerance.
const angularSlop = 2.0 / 180.0 * pi

// The radius of the polygon/segment shape skin.
const skinRadius = 2.0 * linearSlop

// A relative velocity threshold for restitution. Collisions slower than this
// are treated as inelastic.
const velocityThreshold = 1.0

// The maximum linear position correction applied per position iteration.
// Prevents overshoot.
const maxLinearCorrection = 0.2

// The maximum angular position correction applied per position iteration.
const maxAngularCorrection = 8.0 / 180.0 * pi

// The maximum translation of a body per substep. Guards the solver against
// numerical blowup, not a gameplay limit.
const maxTranslation = 2.0
const maxTranslationSquared = maxTranslation * maxTranslation

// The maximum rotation of a body per substep.
const maxRotation = 0.5 * pi
const maxRotationSquared = maxRotation * maxRotation

// How fast penetration is resolved by the position solver. Values near 1
// remove overlap in one step but overshoot.
const baumgarte = 0.2
