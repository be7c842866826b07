package phys2d

// World owns every body, shape, joint, and contact of one simulation and
// drives the step pipeline: broad phase, narrow phase, listener gating,
// solving, integration. A world is single-threaded; stepping it from two
// goroutines, or re-entering Step from a listener callback, is a usage
// error.
type World struct {
	gravity  Vec2
	speed    float64
	substeps int

	autoStep   bool
	updateRate int
	tickCount  int
	pendingDt  float64

	time   float64
	locked bool

	broadPhase     *broadPhase
	contactManager *contactManager

	bodies  []*Body
	nextGen uint32
	joints  []Joint

	listener   ContactListener
	diagnostic func(b *Body, detail string)

	tuning Tuning

	deferred []func()

	// scratch for the step, reused across calls
	activeContacts []*Contact
}

// NewWorld creates an empty world with the given gravity, unit speed, and
// one substep.
func NewWorld(gravity Vec2) *World {
	w := &World{
		gravity:    gravity,
		speed:      1.0,
		substeps:   1,
		updateRate: 1,
		tuning:     DefaultTuning(),
		broadPhase: newBroadPhase(),
		nextGen:    1,
	}
	w.contactManager = newContactManager(w)
	return w
}

func (w *World) Gravity() Vec2           { return w.gravity }
func (w *World) SetGravity(gravity Vec2) { w.gravity = gravity }

// Speed scales the effective delta passed into the pipeline, running the
// simulation faster or slower than the caller's clock without changing
// substep granularity.
func (w *World) Speed() float64 { return w.speed }

func (w *World) SetSpeed(speed float64) {
	if speed > 0.0 && IsValidFloat(speed) {
		w.speed = speed
	}
}

// Substeps returns how many solver/integration passes each Step runs.
func (w *World) Substeps() int { return w.substeps }

func (w *World) SetSubsteps(substeps int) {
	if substeps >= 1 {
		w.substeps = substeps
	}
}

// UpdateRate is the ratio of external ticks to physics ticks: at rate N
// the world steps once every N Update calls, with the skipped deltas
// accumulated so total simulated time is unchanged.
func (w *World) UpdateRate() int { return w.updateRate }

func (w *World) SetUpdateRate(rate int) {
	if rate >= 1 {
		w.updateRate = rate
	}
}

// SetAutoStep switches between Update-driven and Step-driven modes; the
// two are mutually exclusive per world.
func (w *World) SetAutoStep(enabled bool) {
	w.autoStep = enabled
	w.tickCount = 0
	w.pendingDt = 0.0
}

func (w *World) AutoStep() bool { return w.autoStep }

// Time returns accumulated simulation time in seconds.
func (w *World) Time() float64 { return w.time }

// SetContactListener registers the listener receiving contact lifecycle
// events. Pass nil to detach.
func (w *World) SetContactListener(l ContactListener) { w.listener = l }

// SetDiagnosticHandler registers a callback invoked when a body's state
// turns non-finite and is clamped. The simulation continues either way.
func (w *World) SetDiagnosticHandler(f func(b *Body, detail string)) { w.diagnostic = f }

func (w *World) Tuning() Tuning { return w.tuning }

func (w *World) SetTuning(t Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}
	w.tuning = t
	return nil
}

func (w *World) Bodies() []*Body { return w.bodies }
func (w *World) Joints() []Joint { return w.joints }

// BodyRef is a stable arena reference to a body: slot index plus
// generation. A ref to a destroyed body fails lookup instead of reaching a
// recycled slot.
type BodyRef struct {
	Slot int
	Gen  uint32
}

// Ref returns the body's arena reference.
func (b *Body) Ref() BodyRef { return BodyRef{Slot: b.slot, Gen: b.gen} }

// FindBody resolves an arena reference, reporting false for stale refs.
func (w *World) FindBody(ref BodyRef) (*Body, bool) {
	if ref.Slot < 0 || ref.Slot >= len(w.bodies) {
		return nil, false
	}
	b := w.bodies[ref.Slot]
	if b == nil || b.gen != ref.Gen {
		return nil, false
	}
	return b, true
}

// CreateStaticBody creates an immovable body at the given position.
func (w *World) CreateStaticBody(position Vec2) *Body {
	return w.createBody(StaticBody, position)
}

// CreateKinematicBody creates an infinite-mass body moved only by its own
// velocity.
func (w *World) CreateKinematicBody(position Vec2) *Body {
	return w.createBody(KinematicBody, position)
}

// CreateDynamicBody creates a fully simulated body.
func (w *World) CreateDynamicBody(position Vec2) *Body {
	return w.createBody(DynamicBody, position)
}

func (w *World) createBody(kind BodyKind, position Vec2) *Body {
	b := newBody(w, kind, position)
	b.gen = w.nextGen
	w.nextGen++
	if w.locked {
		w.defer_(func() { w.registerBody(b) })
	} else {
		w.registerBody(b)
	}
	return b
}

func (w *World) registerBody(b *Body) {
	b.slot = len(w.bodies)
	w.bodies = append(w.bodies, b)
}

// DestroyBody removes the body, its shapes, and every joint attached to it
// from the world. Contacts still touching fire their separate event.
// Requested from inside a step, destruction happens at step end.
func (w *World) DestroyBody(b *Body) error {
	if b == nil || b.destroyed {
		return usageErr("DestroyBody", "body already destroyed")
	}
	if b.world != w {
		return usageErr("DestroyBody", "body belongs to a different world")
	}
	if w.locked {
		w.defer_(func() { w.finishDestroyBody(b) })
		return nil
	}
	w.finishDestroyBody(b)
	return nil
}

func (w *World) finishDestroyBody(b *Body) {
	if b.destroyed {
		return
	}

	// Joints referencing a destroyed body are invalidated, never reused.
	for len(b.joints) > 0 {
		w.finishDestroyJoint(b.joints[0])
	}

	// Fire every separate while all shapes are still fully attached, so a
	// listener can read the contact (world manifold included) during the
	// callback. Teardown follows.
	for _, s := range b.shapes {
		w.contactManager.destroyContactsOf(s)
	}
	for _, s := range b.shapes {
		for _, id := range s.proxies {
			w.broadPhase.DestroyProxy(id)
		}
		s.proxies = nil
		s.body = nil
	}
	b.shapes = nil
	b.destroyed = true
	b.gen = 0

	if b.slot >= 0 && b.slot < len(w.bodies) && w.bodies[b.slot] == b {
		last := len(w.bodies) - 1
		w.bodies[b.slot] = w.bodies[last]
		w.bodies[b.slot].slot = b.slot
		w.bodies = w.bodies[:last]
	}
}

// addJoint registers a constructed joint. Existing contacts between the
// bodies are re-filtered so contact suppression applies immediately.
func (w *World) addJoint(j Joint) {
	base := j.base()
	w.joints = append(w.joints, j)
	base.bodyA.joints = append(base.bodyA.joints, j)
	base.bodyB.joints = append(base.bodyB.joints, j)
	w.contactManager.flagBodyForFiltering(base.bodyA)
}

// DestroyJoint removes the joint. Contact suppression between its bodies
// ends with it.
func (w *World) DestroyJoint(j Joint) error {
	if j == nil || j.Destroyed() {
		return usageErr("DestroyJoint", "joint already destroyed")
	}
	if j.base().world != w {
		return usageErr("DestroyJoint", "joint belongs to a different world")
	}
	if w.locked {
		w.defer_(func() { w.finishDestroyJoint(j) })
		return nil
	}
	w.finishDestroyJoint(j)
	return nil
}

func (w *World) finishDestroyJoint(j Joint) {
	base := j.base()
	if base.destroyed {
		return
	}
	base.destroyed = true

	removeJoint := func(list []Joint) []Joint {
		for i, other := range list {
			if other == j {
				return append(list[:i], list[i+1:]...)
			}
		}
		return list
	}
	w.joints = removeJoint(w.joints)
	base.bodyA.joints = removeJoint(base.bodyA.joints)
	base.bodyB.joints = removeJoint(base.bodyB.joints)

	if !base.bodyA.destroyed {
		w.contactManager.flagBodyForFiltering(base.bodyA)
	}
}

// defer_ queues a structural mutation requested while the step pipeline is
// iterating; it runs when the current step finishes.
func (w *World) defer_(f func()) {
	w.deferred = append(w.deferred, f)
}

func (w *World) runDeferred() {
	// Deferred work may defer more work; drain until settled.
	for len(w.deferred) > 0 {
		batch := w.deferred
		w.deferred = nil
		for _, f := range batch {
			f()
		}
	}
}

// Update is the external tick in autoStep mode: the world advances by the
// frame delta, honoring the update rate. In manual mode it does nothing.
func (w *World) Update(dt float64) error {
	if !w.autoStep {
		return nil
	}
	if w.locked {
		return usageErr("Update", "re-entrant update call")
	}
	w.pendingDt += dt
	w.tickCount++
	if w.tickCount < w.updateRate {
		return nil
	}
	w.tickCount = 0
	stepDt := w.pendingDt
	w.pendingDt = 0.0
	return w.step(stepDt)
}

// Step advances the simulation by dt seconds in manual mode.
func (w *World) Step(dt float64) error {
	if w.autoStep {
		return usageErr("Step", "world is in autoStep mode; drive it with Update")
	}
	return w.step(dt)
}

func (w *World) step(dt float64) error {
	if w.locked {
		return usageErr("Step", "re-entrant step call")
	}
	if !IsValidFloat(dt) || dt < 0.0 {
		return usageErr("Step", "invalid dt %v", dt)
	}
	if dt == 0.0 {
		return nil
	}

	w.locked = true
	effective := dt * w.speed
	h := effective / float64(w.substeps)
	for i := 0; i < w.substeps; i++ {
		w.subStep(h)
	}
	w.time += effective
	w.locked = false

	w.runDeferred()
	return nil
}
