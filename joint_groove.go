package phys2d

// maxBias caps the corrective velocity a bias-solved joint may inject per
// second, keeping deep errors from launching bodies.
const maxJointBias = 20.0

// GrooveJoint constrains an anchor on body B to slide along a line segment
// fixed in body A's frame, like a pin riding in a slot. While the pin is
// between the groove ends only the across-groove direction is constrained;
// at either end it behaves like a pin joint.
type GrooveJoint struct {
	jointBase

	grooveA Vec2 // groove endpoints in body A's frame
	grooveB Vec2
	grooveN Vec2 // groove normal in body A's frame
	anchorB Vec2 // pivot in body B's frame

	clampSign float64
	tn        Vec2 // groove normal, world space
	rA, rB    Vec2
	k         Mat22
	bias      Vec2
	jAcc      Vec2
}

// CreateGrooveJoint builds a groove between two world-space points on body
// A, with the pivot anchored to body B at a world-space point.
func (w *World) CreateGrooveJoint(a, b *Body, grooveStart, grooveEnd, anchor Vec2) (*GrooveJoint, error) {
	if err := validateJointBodies("CreateGrooveJoint", w, a, b); err != nil {
		return nil, err
	}
	if grooveEnd.Sub(grooveStart).LengthSquared() < linearSlop*linearSlop {
		return nil, configErr("CreateGrooveJoint", "groove endpoints are coincident")
	}
	ga := a.LocalPoint(grooveStart)
	gb := a.LocalPoint(grooveEnd)
	n := CrossVS(gb.Sub(ga), 1.0)
	n.Normalize()
	j := &GrooveJoint{
		jointBase: jointBase{kind: JointGroove, world: w, bodyA: a, bodyB: b},
		grooveA:   ga,
		grooveB:   gb,
		grooveN:   n,
		anchorB:   b.LocalPoint(anchor),
	}
	w.addJoint(j)
	return j, nil
}

func (j *GrooveJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	ta := TransformVec(a.xf, j.grooveA)
	tb := TransformVec(a.xf, j.grooveB)
	n := RotVec(a.xf.Q, j.grooveN)
	d := Dot(ta, n)
	j.tn = n

	j.rB = RotVec(b.xf.Q, j.anchorB.Sub(b.localCenter))

	// Where along the groove does the pivot sit?
	pivot := b.worldCenter.Add(j.rB)
	td := Cross(pivot, n)

	switch {
	case td <= Cross(ta, n):
		j.clampSign = 1.0
		j.rA = ta.Sub(a.worldCenter)
	case td >= Cross(tb, n):
		j.clampSign = -1.0
		j.rA = tb.Sub(a.worldCenter)
	default:
		j.clampSign = 0.0
		j.rA = n.Skew().Scale(-td).Add(n.Scale(d)).Sub(a.worldCenter)
	}

	j.k = pointMassMatrix(a, b, j.rA, j.rB)

	// Position error as a capped bias velocity.
	delta := b.worldCenter.Add(j.rB).Sub(a.worldCenter.Add(j.rA))
	bias := delta.Scale(-baumgarte / h)
	if l := bias.Length(); l > maxJointBias {
		bias = bias.Scale(maxJointBias / l)
	}
	j.bias = bias
}

// constrainImpulse projects away any accumulated impulse that would pull
// the pivot past a groove end it is clamped against.
func (j *GrooveJoint) constrainImpulse(impulse Vec2) Vec2 {
	if j.clampSign*Cross(impulse, j.tn) > 0.0 {
		return impulse
	}
	return j.tn.Scale(Dot(impulse, j.tn))
}

func (j *GrooveJoint) warmStart() {
	applyPointImpulse(j.bodyA, j.bodyB, j.rA, j.rB, j.jAcc)
}

func (j *GrooveJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	vr := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB)).
		Sub(a.linearVelocity).Sub(CrossSV(a.angularVelocity, j.rA))

	impulse := j.k.Solve(j.bias.Sub(vr))
	old := j.jAcc
	j.jAcc = j.constrainImpulse(old.Add(impulse))
	applyPointImpulse(a, b, j.rA, j.rB, j.jAcc.Sub(old))
}

// GrooveLength returns the slot length in body A's frame.
func (j *GrooveJoint) GrooveLength() float64 {
	return j.grooveB.Sub(j.grooveA).Length()
}
