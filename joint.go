package phys2d

// JointKind identifies the constraint variant.
type JointKind uint8

const (
	JointFixed JointKind = iota
	JointPin
	JointDistance
	JointSpring
	JointLimit
	JointGroove
	JointRotarySpring
	JointRotaryLimit
	JointRatchet
	JointGear
	JointMotor
)

func (k JointKind) String() string {
	switch k {
	case JointFixed:
		return "fixed"
	case JointPin:
		return "pin"
	case JointDistance:
		return "distance"
	case JointSpring:
		return "spring"
	case JointLimit:
		return "limit"
	case JointGroove:
		return "groove"
	case JointRotarySpring:
		return "rotary-spring"
	case JointRotaryLimit:
		return "rotary-limit"
	case JointRatchet:
		return "ratchet"
	case JointGear:
		return "gear"
	case JointMotor:
		return "motor"
	}
	return "unknown"
}

// Joint constrains two bodies. Joints are created through a World and are
// invalidated, never reused, when either body is destroyed.
type Joint interface {
	Kind() JointKind
	BodyA() *Body
	BodyB() *Body
	// CollisionEnabled reports whether the joined bodies' shapes may still
	// collide with each other. Default false: jointed bodies pass through
	// each other.
	CollisionEnabled() bool
	SetCollisionEnable(enabled bool)
	Destroyed() bool

	base() *jointBase
	otherBody(b *Body) *Body

	// The solver protocol: effective masses and bias at substep start,
	// cached impulses replayed, then iterated velocity impulses, then
	// optional position-space correction.
	initVelocityConstraints(h float64)
	warmStart()
	solveVelocityConstraints(h float64)
	solvePositionConstraints() bool
}

type jointBase struct {
	kind             JointKind
	world            *World
	bodyA, bodyB     *Body
	collideConnected bool
	destroyed        bool
}

func (j *jointBase) Kind() JointKind { return j.kind }
func (j *jointBase) BodyA() *Body    { return j.bodyA }
func (j *jointBase) BodyB() *Body    { return j.bodyB }
func (j *jointBase) Destroyed() bool { return j.destroyed }

func (j *jointBase) CollisionEnabled() bool { return j.collideConnected }

func (j *jointBase) SetCollisionEnable(enabled bool) {
	if j.collideConnected == enabled {
		return
	}
	j.collideConnected = enabled
	if j.world != nil {
		j.world.contactManager.flagBodyForFiltering(j.bodyA)
	}
}

func (j *jointBase) base() *jointBase { return j }

func (j *jointBase) otherBody(b *Body) *Body {
	if j.bodyA == b {
		return j.bodyB
	}
	return j.bodyA
}

// solvePositionConstraints defaults to done: joints that correct purely
// through bias velocity have no position pass.
func (j *jointBase) solvePositionConstraints() bool { return true }

// biasVelocity turns a position error into a capped corrective velocity.
func biasVelocity(c, h, maxBias float64) float64 {
	return Clamp(-baumgarte*c/h, -maxBias, maxBias)
}

// validateJointBodies is the shared construction check for every joint
// kind.
func validateJointBodies(op string, w *World, a, b *Body) error {
	if a == nil || b == nil {
		return usageErr(op, "joint needs two bodies")
	}
	if a == b {
		return usageErr(op, "cannot joint a body to itself")
	}
	if a.destroyed || b.destroyed {
		return usageErr(op, "referenced body is destroyed")
	}
	if a.world != w || b.world != w {
		return usageErr(op, "body belongs to a different world")
	}
	return nil
}
