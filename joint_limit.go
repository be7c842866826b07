package phys2d

import "math"

// LimitJoint keeps the distance between two anchors at or below a maximum,
// like a rope: slack while closer, rigid once taut, never pushing.
type LimitJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2
	maxLength    float64

	u       Vec2
	rA, rB  Vec2
	mass    float64
	impulse float64
	length  float64
}

// CreateLimitJoint ropes the bodies together between two world-space
// anchors. Pass maxLength <= 0 to use the current separation.
func (w *World) CreateLimitJoint(a, b *Body, anchorA, anchorB Vec2, maxLength float64) (*LimitJoint, error) {
	if err := validateJointBodies("CreateLimitJoint", w, a, b); err != nil {
		return nil, err
	}
	if maxLength <= 0.0 {
		maxLength = anchorB.Sub(anchorA).Length()
	}
	if maxLength < linearSlop {
		return nil, configErr("CreateLimitJoint", "max length %v is below tolerance", maxLength)
	}
	j := &LimitJoint{
		jointBase:    jointBase{kind: JointLimit, world: w, bodyA: a, bodyB: b},
		localAnchorA: a.LocalPoint(anchorA),
		localAnchorB: b.LocalPoint(anchorB),
		maxLength:    maxLength,
	}
	w.addJoint(j)
	return j, nil
}

func (j *LimitJoint) MaxLength() float64 { return j.maxLength }

func (j *LimitJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = RotVec(a.xf.Q, j.localAnchorA.Sub(a.localCenter))
	j.rB = RotVec(b.xf.Q, j.localAnchorB.Sub(b.localCenter))

	j.u = b.worldCenter.Add(j.rB).Sub(a.worldCenter.Add(j.rA))
	j.length = j.u.Normalize()

	if j.length < j.maxLength {
		// Slack: drop the cached impulse so the rope does not snap while
		// loose.
		j.impulse = 0.0
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

func (j *LimitJoint) warmStart() {
	if j.mass == 0.0 {
		return
	}
	applyPointImpulse(j.bodyA, j.bodyB, j.rA, j.rB, j.u.Scale(j.impulse))
}

func (j *LimitJoint) solveVelocityConstraints(h float64) {
	if j.mass == 0.0 {
		return
	}
	a, b := j.bodyA, j.bodyB
	vpA := a.linearVelocity.Add(CrossSV(a.angularVelocity, j.rA))
	vpB := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB))
	cdot := Dot(j.u, vpB.Sub(vpA))

	impulse := -j.mass * cdot
	oldImpulse := j.impulse
	// The rope only ever pulls the anchors together.
	j.impulse = math.Min(0.0, j.impulse+impulse)
	impulse = j.impulse - oldImpulse

	applyPointImpulse(a, b, j.rA, j.rB, j.u.Scale(impulse))
}

func (j *LimitJoint) solvePositionConstraints() bool {
	a, b := j.bodyA, j.bodyB
	qA := MakeRot(a.angle)
	qB := MakeRot(b.angle)

	rA := RotVec(qA, j.localAnchorA.Sub(a.localCenter))
	rB := RotVec(qB, j.localAnchorB.Sub(b.localCenter))
	u := b.worldCenter.Add(rB).Sub(a.worldCenter.Add(rA))

	length := u.Normalize()
	c := Clamp(length-j.maxLength, 0.0, maxLinearCorrection)
	if c == 0.0 {
		return true
	}

	crA := Cross(rA, u)
	crB := Cross(rB, u)
	invMass := a.invMass + b.invMass + a.invI*crA*crA + b.invI*crB*crB
	if invMass == 0.0 {
		return true
	}

	impulse := -c / invMass
	p := u.Scale(impulse)

	a.worldCenter = a.worldCenter.Sub(p.Scale(a.invMass))
	a.angle -= a.invI * Cross(rA, p)
	b.worldCenter = b.worldCenter.Add(p.Scale(b.invMass))
	b.angle += b.invI * Cross(rB, p)

	return length-j.maxLength < linearSlop
}
