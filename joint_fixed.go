package phys2d

// FixedJoint fuses two bodies rigidly: the anchor points coincide and the
// relative rotation stays at its value from creation time. The linear part
// is a 2x2 block like the pin joint; the angular part is a scalar
// constraint solved alongside it.
type FixedJoint struct {
	jointBase

	localAnchorA   Vec2
	localAnchorB   Vec2
	referenceAngle float64

	rA, rB         Vec2
	linearMass     Mat22
	angularMass    float64
	linearImpulse  Vec2
	angularImpulse float64
}

// CreateFixedJoint welds the bodies together through a world-space anchor.
func (w *World) CreateFixedJoint(a, b *Body, anchor Vec2) (*FixedJoint, error) {
	if err := validateJointBodies("CreateFixedJoint", w, a, b); err != nil {
		return nil, err
	}
	j := &FixedJoint{
		jointBase:      jointBase{kind: JointFixed, world: w, bodyA: a, bodyB: b},
		localAnchorA:   a.LocalPoint(anchor),
		localAnchorB:   b.LocalPoint(anchor),
		referenceAngle: b.angle - a.angle,
	}
	w.addJoint(j)
	return j, nil
}

func (j *FixedJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = RotVec(a.xf.Q, j.localAnchorA.Sub(a.localCenter))
	j.rB = RotVec(b.xf.Q, j.localAnchorB.Sub(b.localCenter))
	j.linearMass = pointMassMatrix(a, b, j.rA, j.rB)

	k := a.invI + b.invI
	if k > 0.0 {
		j.angularMass = 1.0 / k
	} else {
		j.angularMass = 0.0
	}
}

func (j *FixedJoint) warmStart() {
	a, b := j.bodyA, j.bodyB
	applyPointImpulse(a, b, j.rA, j.rB, j.linearImpulse)
	a.angularVelocity -= a.invI * j.angularImpulse
	b.angularVelocity += b.invI * j.angularImpulse
}

func (j *FixedJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	// Angular first so the linear solve sees the corrected spin.
	cdotAngular := b.angularVelocity - a.angularVelocity
	angularImpulse := -j.angularMass * cdotAngular
	j.angularImpulse += angularImpulse
	a.angularVelocity -= a.invI * angularImpulse
	b.angularVelocity += b.invI * angularImpulse

	cdot := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB)).
		Sub(a.linearVelocity).Sub(CrossSV(a.angularVelocity, j.rA))
	impulse := j.linearMass.Solve(cdot.Neg())
	j.linearImpulse = j.linearImpulse.Add(impulse)
	applyPointImpulse(a, b, j.rA, j.rB, impulse)
}

func (j *FixedJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB

	angularError := b.angle - a.angle - j.referenceAngle
	correction := Clamp(angularError, -maxAngularCorrection, maxAngularCorrection)
	if j.angularMass > 0.0 {
		impulse := -j.angularMass * correction
		a.angle -= a.invI * impulse
		b.angle += b.invI * impulse
	}

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

	return positionError <= linearSlop && abs(angularError) <= angularSlop
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
