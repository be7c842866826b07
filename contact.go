package phys2d

// collideFunc evaluates the narrow phase for one normalized shape-class
// pairing.
type collideFunc func(m *Manifold, a *Shape, childA int, xfA Transform, b *Shape, childB int, xfB Transform)

// dispatchEntry binds the collision routine for a (classA, classB) pair.
// swap means the pair must be stored in reversed order to hit the
// normalized routine (e.g. circle-polygon runs as polygon-circle).
type dispatchEntry struct {
	fn   collideFunc
	swap bool
}

// dispatchTable replaces virtual double dispatch: one table entry per
// shape-class pair. Segment-segment has no entry; two hollow zero-thickness
// shapes generate no contact.
var dispatchTable [3][3]dispatchEntry

func init() {
	circles := func(m *Manifold, a *Shape, _ int, xfA Transform, b *Shape, _ int, xfB Transform) {
		collideCircles(m, a, xfA, b, xfB)
	}
	polygonCircle := func(m *Manifold, a *Shape, _ int, xfA Transform, b *Shape, _ int, xfB Transform) {
		collidePolygonAndCircle(m, a, xfA, b, xfB)
	}
	polygons := func(m *Manifold, a *Shape, _ int, xfA Transform, b *Shape, _ int, xfB Transform) {
		collidePolygons(m, a, xfA, b, xfB)
	}
	segmentCircle := func(m *Manifold, a *Shape, childA int, xfA Transform, b *Shape, _ int, xfB Transform) {
		collideSegmentAndCircle(m, a, childA, xfA, b, xfB)
	}
	segmentPolygon := func(m *Manifold, a *Shape, childA int, xfA Transform, b *Shape, _ int, xfB Transform) {
		collideSegmentAndPolygon(m, a, childA, xfA, b, xfB)
	}

	dispatchTable[classCircle][classCircle] = dispatchEntry{fn: circles}
	dispatchTable[classPolygon][classCircle] = dispatchEntry{fn: polygonCircle}
	dispatchTable[classCircle][classPolygon] = dispatchEntry{fn: polygonCircle, swap: true}
	dispatchTable[classPolygon][classPolygon] = dispatchEntry{fn: polygons}
	dispatchTable[classSegment][classCircle] = dispatchEntry{fn: segmentCircle}
	dispatchTable[classCircle][classSegment] = dispatchEntry{fn: segmentCircle, swap: true}
	dispatchTable[classSegment][classPolygon] = dispatchEntry{fn: segmentPolygon}
	dispatchTable[classPolygon][classSegment] = dispatchEntry{fn: segmentPolygon, swap: true}
}

// Contact is the persistent manifold between two shape children. It is
// created when fat AABBs start to overlap, updated every step while they
// do, and destroyed on separation. Accumulated impulses live in the
// manifold points and warm-start the solver.
type Contact struct {
	shapeA, shapeB *Shape
	childA, childB int
	evaluateFn     collideFunc

	manifold Manifold

	touching bool
	// enabled is the per-step preSolve gate.
	enabled bool
	// ignored is set when the begin listener vetoes the collision; it
	// sticks until the pair separates.
	ignored bool
	// filterFlag requests a filter re-check on the next update.
	filterFlag bool

	friction        float64
	restitution     float64
	surfaceVelocity float64
}

// newContact normalizes the pair order against the dispatch table, or
// returns nil for pairings with no collision routine.
func newContact(a *Shape, childA int, b *Shape, childB int) *Contact {
	entry := dispatchTable[a.kind.class()][b.kind.class()]
	if entry.fn == nil {
		return nil
	}
	if entry.swap {
		a, b = b, a
		childA, childB = childB, childA
	}
	return &Contact{
		shapeA:     a,
		shapeB:     b,
		childA:     childA,
		childB:     childB,
		evaluateFn: entry.fn,
		enabled:    true,
	}
}

func (c *Contact) ShapeA() *Shape { return c.shapeA }
func (c *Contact) ShapeB() *Shape { return c.shapeB }

// Touching reports whether the shapes overlapped at the last narrow-phase
// update.
func (c *Contact) Touching() bool { return c.touching }

// Manifold exposes the current local manifold.
func (c *Contact) Manifold() *Manifold { return &c.manifold }

// WorldManifold evaluates the manifold at the current body transforms.
func (c *Contact) WorldManifold() WorldManifold {
	var wm WorldManifold
	wm.Initialize(&c.manifold, c.shapeA.body.xf, c.shapeA.radius, c.shapeB.body.xf, c.shapeB.radius)
	return wm
}

// Friction returns the effective friction for this step, re-mixed from the
// materials at the start of every step.
func (c *Contact) Friction() float64 { return c.friction }

// SetFriction overrides friction for the current step only.
func (c *Contact) SetFriction(friction float64) { c.friction = friction }

// Restitution returns the effective restitution for this step.
func (c *Contact) Restitution() float64 { return c.restitution }

// SetRestitution overrides restitution for the current step only.
func (c *Contact) SetRestitution(restitution float64) { c.restitution = restitution }

// SurfaceVelocity is a conveyor-belt style tangential surface speed, zero
// unless a preSolve listener sets it. Valid for the current step only.
func (c *Contact) SurfaceVelocity() float64 { return c.surfaceVelocity }

// SetSurfaceVelocity sets the tangential surface speed for this step only.
func (c *Contact) SetSurfaceVelocity(v float64) { c.surfaceVelocity = v }

// resetStepState re-mixes material properties; preSolve overrides last for
// exactly one step.
func (c *Contact) resetStepState() {
	c.friction = mixFriction(c.shapeA.material.Friction, c.shapeB.material.Friction)
	c.restitution = mixRestitution(c.shapeA.material.Restitution, c.shapeB.material.Restitution)
	c.surfaceVelocity = 0.0
	c.enabled = true
}

// evaluate runs the narrow phase, carrying accumulated impulses over to
// points whose contact id survived so the solver warm-starts.
func (c *Contact) evaluate() {
	oldManifold := c.manifold

	xfA := c.shapeA.body.xf
	xfB := c.shapeB.body.xf
	c.evaluateFn(&c.manifold, c.shapeA, c.childA, xfA, c.shapeB, c.childB, xfB)
	c.touching = c.manifold.PointCount > 0

	for i := 0; i < c.manifold.PointCount; i++ {
		mp := &c.manifold.Points[i]
		mp.NormalImpulse = 0.0
		mp.TangentImpulse = 0.0
		for j := 0; j < oldManifold.PointCount; j++ {
			if oldManifold.Points[j].ID == mp.ID {
				mp.NormalImpulse = oldManifold.Points[j].NormalImpulse
				mp.TangentImpulse = oldManifold.Points[j].TangentImpulse
				break
			}
		}
	}
}

// eventsEnabled applies the contact-test bitmask gate: listener events for
// this pair are delivered only when one shape's contact-test mask selects
// the other's category.
func (c *Contact) eventsEnabled() bool {
	return c.shapeA.contactTestBits&c.shapeB.filter.CategoryBits != 0 ||
		c.shapeB.contactTestBits&c.shapeA.filter.CategoryBits != 0
}
