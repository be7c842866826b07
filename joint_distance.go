package phys2d

// DistanceJoint keeps the distance between two anchor points exactly at its
// creation-time value, like a massless rigid rod.
type DistanceJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2
	length       float64

	u       Vec2
	rA, rB  Vec2
	mass    float64
	impulse float64
}

// CreateDistanceJoint rods the bodies together between two world-space
// anchors; the rod length is their current separation.
func (w *World) CreateDistanceJoint(a, b *Body, anchorA, anchorB Vec2) (*DistanceJoint, error) {
	if err := validateJointBodies("CreateDistanceJoint", w, a, b); err != nil {
		return nil, err
	}
	length := anchorB.Sub(anchorA).Length()
	if length < linearSlop {
		return nil, configErr("CreateDistanceJoint", "anchors are coincident; use a pin joint")
	}
	j := &DistanceJoint{
		jointBase:    jointBase{kind: JointDistance, world: w, bodyA: a, bodyB: b},
		localAnchorA: a.LocalPoint(anchorA),
		localAnchorB: b.LocalPoint(anchorB),
		length:       length,
	}
	w.addJoint(j)
	return j, nil
}

// Length returns the constrained distance.
func (j *DistanceJoint) Length() float64 { return j.length }

func (j *DistanceJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = RotVec(a.xf.Q, j.localAnchorA.Sub(a.localCenter))
	j.rB = RotVec(b.xf.Q, j.localAnchorB.Sub(b.localCenter))
	j.u = b.worldCenter.Add(j.rB).Sub(a.worldCenter.Add(j.rA))

	if j.u.Normalize() < linearSlop {
		j.u.SetZero()
		j.mass = 0.0
		return
	}

	crA := Cross(j.rA, j.u)
	crB := Cross(j.rB, j.u)
	invMass := a.invMass + b.invMass + a.invI*crA*crA + b.invI*crB*crB
	if invMass > 0.0 {
		j.mass = 1.0 / invMass
	} else {
		j.mass = 0.0
	}
}

func (j *DistanceJoint) warmStart() {
	applyPointImpulse(j.bodyA, j.bodyB, j.rA, j.rB, j.u.Scale(j.impulse))
}

func (j *DistanceJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	vpA := a.linearVelocity.Add(CrossSV(a.angularVelocity, j.rA))
	vpB := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB))
	cdot := Dot(j.u, vpB.Sub(vpA))

	impulse := -j.mass * cdot
	j.impulse += impulse
	applyPointImpulse(a, b, j.rA, j.rB, j.u.Scale(impulse))
}

func (j *DistanceJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	qA := MakeRot(a.angle)
	qB := MakeRot(b.angle)

	rA := RotVec(qA, j.localAnchorA.Sub(a.localCenter))
	rB := RotVec(qB, j.localAnchorB.Sub(b.localCenter))
	u := b.worldCenter.Add(rB).Sub(a.worldCenter.Add(rA))

	length := u.Normalize()
	c := Clamp(length-j.length, -maxLinearCorrection, maxLinearCorrection)

	impulse := -j.mass * c
	p := u.Scale(impulse)

	a.worldCenter = a.worldCenter.Sub(p.Scale(a.invMass))
	a.angle -= a.invI * Cross(rA, p)
	b.worldCenter = b.worldCenter.Add(p.Scale(b.invMass))
	b.angle += b.invI * Cross(rB, p)

	return abs(c) < linearSlop
}
