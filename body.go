package phys2d

import "math"

// BodyKind selects how a body participates in simulation.
//
// Static bodies never move and have infinite effective mass. Kinematic
// bodies move under externally driven velocity, unaffected by forces and by
// the solver. Dynamic bodies carry mass and respond to everything.
type BodyKind uint8

const (
	StaticBody BodyKind = iota
	KinematicBody
	DynamicBody
)

func (k BodyKind) String() string {
	switch k {
	case StaticBody:
		return "static"
	case KinematicBody:
		return "kinematic"
	case DynamicBody:
		return "dynamic"
	}
	return "unknown"
}

// Body is a rigid body. Create bodies through a World; a body belongs to
// exactly one world for its whole life.
type Body struct {
	world *World
	kind  BodyKind
	// Slot index and generation in the world's body arena. A destroyed
	// body's generation never matches a live slot again.
	slot int
	gen  uint32

	xf          Transform
	angle       float64
	worldCenter Vec2 // center of mass, world space
	localCenter Vec2 // center of mass, body-local space

	// origin and angle at the start of the last integration, for broad
	// phase displacement and non-finite state recovery
	position0 Vec2
	angle0    float64

	linearVelocity  Vec2
	angularVelocity float64

	force  Vec2
	torque float64

	linearDamping  float64
	angularDamping float64
	gravityEnabled bool

	mass, invMass float64
	inertia, invI float64 // rotational inertia about the center of mass

	massOverride   float64 // > 0 replaces the aggregated mass
	momentOverride float64 // > 0 replaces the aggregated moment

	tag    int
	shapes []*Shape
	joints []Joint

	destroyed bool
}

func newBody(w *World, kind BodyKind, position Vec2) *Body {
	return &Body{
		world:          w,
		kind:           kind,
		xf:             Transform{P: position, Q: rotIdentity},
		worldCenter:    position,
		gravityEnabled: true,
		mass:           0.0,
		invMass:        0.0,
	}
}

func (b *Body) Kind() BodyKind { return b.kind }
func (b *Body) World() *World  { return b.world }

// Destroyed reports whether the body has been removed from its world. Any
// stale reference held after destruction answers true here and fails
// structural operations with a UsageError.
func (b *Body) Destroyed() bool { return b.destroyed }

func (b *Body) Position() Vec2       { return b.xf.P }
func (b *Body) Rotation() float64    { return b.angle }
func (b *Body) Transform() Transform { return b.xf }

// SetPosition teleports the body. Velocity is unchanged; contacts are
// re-evaluated on the next step.
func (b *Body) SetPosition(p Vec2) {
	b.setTransform(p, b.angle)
}

// SetRotation sets the body angle in radians.
func (b *Body) SetRotation(angle float64) {
	b.setTransform(b.xf.P, angle)
}

func (b *Body) setTransform(p Vec2, angle float64) {
	b.xf.P = p
	b.angle = angle
	b.xf.Q.SetAngle(angle)
	b.worldCenter = TransformVec(b.xf, b.localCenter)
	if b.world == nil {
		return
	}
	if b.world.locked {
		// Mid-step the broad phase is being iterated; the proxy refresh
		// runs with the other deferred mutations at step end.
		b.world.defer_(b.synchronizeProxies)
		return
	}
	b.synchronizeProxies()
}

func (b *Body) Velocity() Vec2 { return b.linearVelocity }

func (b *Body) SetVelocity(v Vec2) {
	if b.kind == StaticBody {
		return
	}
	b.linearVelocity = v
}

func (b *Body) AngularVelocity() float64 { return b.angularVelocity }

func (b *Body) SetAngularVelocity(w float64) {
	if b.kind == StaticBody {
		return
	}
	b.angularVelocity = w
}

// SetDamping sets the linear and angular velocity decay rates. A damping of
// d removes roughly d*dt of the velocity per second of simulated time.
func (b *Body) SetDamping(linear, angular float64) {
	b.linearDamping = math.Max(0.0, linear)
	b.angularDamping = math.Max(0.0, angular)
}

func (b *Body) LinearDamping() float64  { return b.linearDamping }
func (b *Body) AngularDamping() float64 { return b.angularDamping }

// SetGravityEnabled controls whether world gravity accelerates this body.
func (b *Body) SetGravityEnabled(enabled bool) { b.gravityEnabled = enabled }
func (b *Body) GravityEnabled() bool           { return b.gravityEnabled }

func (b *Body) Tag() int       { return b.tag }
func (b *Body) SetTag(tag int) { b.tag = tag }

func (b *Body) Shapes() []*Shape { return b.shapes }

// Mass returns the effective mass: zero for static and kinematic bodies.
func (b *Body) Mass() float64 { return b.mass }

// Moment returns the rotational inertia about the center of mass.
func (b *Body) Moment() float64 { return b.inertia }

// SetMass overrides the mass aggregated from the attached shapes. Pass 0 to
// return to aggregation.
func (b *Body) SetMass(mass float64) {
	b.massOverride = math.Max(0.0, mass)
	b.resetMassData()
}

// SetMoment overrides the rotational inertia aggregated from the attached
// shapes. Pass 0 to return to aggregation.
func (b *Body) SetMoment(moment float64) {
	b.momentOverride = math.Max(0.0, moment)
	b.resetMassData()
}

// AttachShape gives the body ownership of the shape and registers it with
// the broad phase. A shape can be attached to one body once.
func (b *Body) AttachShape(s *Shape) error {
	if b.destroyed {
		return usageErr("AttachShape", "body is destroyed")
	}
	if s.body != nil {
		return usageErr("AttachShape", "shape already attached to a body")
	}
	s.body = b
	b.shapes = append(b.shapes, s)

	w := b.world
	if w.locked {
		w.defer_(func() { b.finishAttach(s) })
	} else {
		b.finishAttach(s)
	}
	return nil
}

func (b *Body) finishAttach(s *Shape) {
	w := b.world
	s.proxies = make([]int, s.childCount())
	for i := range s.proxies {
		bb := s.computeAABB(b.xf, i)
		s.proxies[i] = w.broadPhase.CreateProxy(bb, &shapeProxy{shape: s, childIndex: i})
	}
	b.resetMassData()
}

// DetachShape removes a shape from the body, dropping any contacts it is
// part of (their separate events fire during the next step if they were
// touching).
func (b *Body) DetachShape(s *Shape) error {
	if s.body != b {
		return usageErr("DetachShape", "shape is not attached to this body")
	}
	w := b.world
	if w.locked {
		w.defer_(func() { b.finishDetach(s) })
		return nil
	}
	b.finishDetach(s)
	return nil
}

func (b *Body) finishDetach(s *Shape) {
	w := b.world
	w.contactManager.destroyContactsOf(s)
	for _, id := range s.proxies {
		w.broadPhase.DestroyProxy(id)
	}
	s.proxies = nil
	s.body = nil
	for i, other := range b.shapes {
		if other == s {
			b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
			break
		}
	}
	b.resetMassData()
}

// ApplyForce accumulates a force at a world point for the next substep.
func (b *Body) ApplyForce(force, point Vec2) {
	if b.kind != DynamicBody {
		return
	}
	b.force = b.force.Add(force)
	b.torque += Cross(point.Sub(b.worldCenter), force)
}

// ApplyForceToCenter accumulates a force through the center of mass.
func (b *Body) ApplyForceToCenter(force Vec2) {
	if b.kind != DynamicBody {
		return
	}
	b.force = b.force.Add(force)
}

// ApplyTorque accumulates a torque for the next substep.
func (b *Body) ApplyTorque(torque float64) {
	if b.kind != DynamicBody {
		return
	}
	b.torque += torque
}

// ApplyLinearImpulse immediately changes velocity as if the impulse acted
// over one instant at a world point.
func (b *Body) ApplyLinearImpulse(impulse, point Vec2) {
	if b.kind != DynamicBody {
		return
	}
	b.linearVelocity = b.linearVelocity.Add(impulse.Scale(b.invMass))
	b.angularVelocity += b.invI * Cross(point.Sub(b.worldCenter), impulse)
}

// ApplyAngularImpulse immediately changes angular velocity.
func (b *Body) ApplyAngularImpulse(impulse float64) {
	if b.kind != DynamicBody {
		return
	}
	b.angularVelocity += b.invI * impulse
}

// WorldPoint maps a body-local point to world space.
func (b *Body) WorldPoint(local Vec2) Vec2 { return TransformVec(b.xf, local) }

// LocalPoint maps a world-space point into the body frame.
func (b *Body) LocalPoint(world Vec2) Vec2 { return InvTransformVec(b.xf, world) }

// WorldVector rotates a body-local direction into world space.
func (b *Body) WorldVector(local Vec2) Vec2 { return RotVec(b.xf.Q, local) }

// LocalVector rotates a world-space direction into the body frame.
func (b *Body) LocalVector(world Vec2) Vec2 { return InvRotVec(b.xf.Q, world) }

// resetMassData recomputes mass, center of mass, and rotational inertia
// from the attached shapes, honoring overrides.
func (b *Body) resetMassData() {
	b.mass = 0.0
	b.invMass = 0.0
	b.inertia = 0.0
	b.invI = 0.0
	b.localCenter.SetZero()

	if b.kind != DynamicBody {
		b.worldCenter = b.xf.P
		return
	}

	var center Vec2
	inertiaOrigin := 0.0
	for _, s := range b.shapes {
		md := s.computeMass()
		if md.mass == 0.0 {
			continue
		}
		b.mass += md.mass
		center = center.Add(md.center.Scale(md.mass))
		inertiaOrigin += md.i
	}

	if b.mass > 0.0 {
		center = center.Scale(1.0 / b.mass)
	} else {
		// A dynamic body with only hollow shapes still needs finite mass.
		b.mass = 1.0
	}

	if b.massOverride > 0.0 {
		b.mass = b.massOverride
	}
	b.invMass = 1.0 / b.mass

	// Inertia about the center of mass via the parallel-axis theorem.
	b.inertia = inertiaOrigin - b.mass*Dot(center, center)
	if b.momentOverride > 0.0 {
		b.inertia = b.momentOverride
	}
	if b.inertia > 0.0 {
		b.invI = 1.0 / b.inertia
	} else {
		b.inertia = 0.0
		b.invI = 0.0
	}

	oldCenter := b.worldCenter
	b.localCenter = center
	b.worldCenter = TransformVec(b.xf, b.localCenter)

	// Moving the center of mass changes its velocity contribution.
	b.linearVelocity = b.linearVelocity.Add(CrossSV(b.angularVelocity, b.worldCenter.Sub(oldCenter)))
}

// currentTransform derives the origin transform from the center of mass
// and angle as they stand mid-solve, without touching the cached xf.
func (b *Body) currentTransform() Transform {
	q := MakeRot(b.angle)
	return Transform{P: b.worldCenter.Sub(RotVec(q, b.localCenter)), Q: q}
}

// synchronizeTransform rebuilds the origin transform from the integrated
// center of mass and angle.
func (b *Body) synchronizeTransform() {
	b.xf.Q.SetAngle(b.angle)
	b.xf.P = b.worldCenter.Sub(RotVec(b.xf.Q, b.localCenter))
}

func (b *Body) synchronizeProxies() {
	if b.world == nil {
		return
	}
	bp := b.world.broadPhase
	for _, s := range b.shapes {
		for i, id := range s.proxies {
			bb := s.computeAABB(b.xf, i)
			bp.MoveProxy(id, bb, Vec2{})
		}
	}
}

// advance integrates the body's velocity into its position over h seconds,
// clamping huge per-substep motion to keep the solver stable.
func (b *Body) advance(h float64) {
	translation := b.linearVelocity.Scale(h)
	if translation.LengthSquared() > maxTranslationSquared {
		ratio := maxTranslation / translation.Length()
		b.linearVelocity = b.linearVelocity.Scale(ratio)
	}
	rotation := h * b.angularVelocity
	if rotation*rotation > maxRotationSquared {
		ratio := maxRotation / math.Abs(rotation)
		b.angularVelocity *= ratio
	}

	b.worldCenter = b.worldCenter.Add(b.linearVelocity.Scale(h))
	b.angle += h * b.angularVelocity
	b.synchronizeTransform()
}
