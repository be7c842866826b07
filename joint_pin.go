package phys2d

// PinJoint makes two anchor points coincide while leaving relative rotation
// free, like a swivel. A 2x2 block constraint on the anchor velocity.
type PinJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2

	rA, rB  Vec2
	mass    Mat22
	impulse Vec2
}

// CreatePinJoint pins the bodies together at a world-space point.
func (w *World) CreatePinJoint(a, b *Body, anchor Vec2) (*PinJoint, error) {
	if err := validateJointBodies("CreatePinJoint", w, a, b); err != nil {
		return nil, err
	}
	j := &PinJoint{
		jointBase:    jointBase{kind: JointPin, world: w, bodyA: a, bodyB: b},
		localAnchorA: a.LocalPoint(anchor),
		localAnchorB: b.LocalPoint(anchor),
	}
	w.addJoint(j)
	return j, nil
}

// AnchorA returns the constraint anchor on body A in world space.
func (j *PinJoint) AnchorA() Vec2 { return j.bodyA.WorldPoint(j.localAnchorA) }

// AnchorB returns the constraint anchor on body B in world space.
func (j *PinJoint) AnchorB() Vec2 { return j.bodyB.WorldPoint(j.localAnchorB) }

// pointMassMatrix builds the 2x2 effective mass for a point constraint with
// the given body-relative anchors.
func pointMassMatrix(a, b *Body, rA, rB Vec2) Mat22 {
	var k Mat22
	k.Ex.X = a.invMass + b.invMass + a.invI*rA.Y*rA.Y + b.invI*rB.Y*rB.Y
	k.Ex.Y = -a.invI*rA.X*rA.Y - b.invI*rB.X*rB.Y
	k.Ey.X = k.Ex.Y
	k.Ey.Y = a.invMass + b.invMass + a.invI*rA.X*rA.X + b.invI*rB.X*rB.X
	return k
}

func applyPointImpulse(a, b *Body, rA, rB, p Vec2) {
	a.linearVelocity = a.linearVelocity.Sub(p.Scale(a.invMass))
	a.angularVelocity -= a.invI * Cross(rA, p)
	b.linearVelocity = b.linearVelocity.Add(p.Scale(b.invMass))
	b.angularVelocity += b.invI * Cross(rB, p)
}

func (j *PinJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = RotVec(a.xf.Q, j.localAnchorA.Sub(a.localCenter))
	j.rB = RotVec(b.xf.Q, j.localAnchorB.Sub(b.localCenter))
	j.mass = pointMassMatrix(a, b, j.rA, j.rB)
}

func (j *PinJoint) warmStart() {
	applyPointImpulse(j.bodyA, j.bodyB, j.rA, j.rB, j.impulse)
}

func (j *PinJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	cdot := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB)).
		Sub(a.linearVelocity).Sub(CrossSV(a.angularVelocity, j.rA))
	impulse := j.mass.Solve(cdot.Neg())
	j.impulse = j.impulse.Add(impulse)
	applyPointImpulse(a, b, j.rA, j.rB, impulse)
}

func (j *PinJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	qA := MakeRot(a.angle)
	qB := MakeRot(b.angle)

	rA := RotVec(qA, j.localAnchorA.Sub(a.localCenter))
	rB := RotVec(qB, j.localAnchorB.Sub(b.localCenter))

	c := b.worldCenter.Add(rB).Sub(a.worldCenter.Add(rA))
	positionError := c.Length()

	k := pointMassMatrix(a, b, rA, rB)
	impulse := k.Solve(c).Neg()

	a.worldCenter = a.worldCenter.Sub(impulse.Scale(a.invMass))
	a.angle -= a.invI * Cross(rA, impulse)
	b.worldCenter = b.worldCenter.Add(impulse.Scale(b.invMass))
	b.angle += b.invI * Cross(rB, impulse)

	return positionError <= linearSlop
}
