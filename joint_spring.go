package phys2d

import "math"

// SpringJoint pulls two anchors toward a rest distance with a damped
// elastic force. The spring force is applied up front each substep; the
// iterated impulse only removes the damped part of the relative velocity,
// so the spring never fights the other constraints.
type SpringJoint struct {
	jointBase

	localAnchorA Vec2
	localAnchorB Vec2
	restLength   float64
	stiffness    float64
	damping      float64

	u         Vec2
	rA, rB    Vec2
	mass      float64
	vCoef     float64
	targetVrn float64
}

// CreateSpringJoint connects the bodies with a damped spring between two
// world-space anchors. The rest length is their current separation.
func (w *World) CreateSpringJoint(a, b *Body, anchorA, anchorB Vec2, stiffness, damping float64) (*SpringJoint, error) {
	if err := validateJointBodies("CreateSpringJoint", w, a, b); err != nil {
		return nil, err
	}
	if stiffness <= 0.0 {
		return nil, configErr("CreateSpringJoint", "stiffness must be positive, got %v", stiffness)
	}
	if damping < 0.0 {
		return nil, configErr("CreateSpringJoint", "damping must be non-negative, got %v", damping)
	}
	j := &SpringJoint{
		jointBase:    jointBase{kind: JointSpring, world: w, bodyA: a, bodyB: b},
		localAnchorA: a.LocalPoint(anchorA),
		localAnchorB: b.LocalPoint(anchorB),
		restLength:   anchorB.Sub(anchorA).Length(),
		stiffness:    stiffness,
		damping:      damping,
	}
	w.addJoint(j)
	return j, nil
}

func (j *SpringJoint) RestLength() float64          { return j.restLength }
func (j *SpringJoint) SetRestLength(length float64) { j.restLength = math.Max(0.0, length) }

func (j *SpringJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	j.rA = RotVec(a.xf.Q, j.localAnchorA.Sub(a.localCenter))
	j.rB = RotVec(b.xf.Q, j.localAnchorB.Sub(b.localCenter))

	delta := b.worldCenter.Add(j.rB).Sub(a.worldCenter.Add(j.rA))
	dist := delta.Length()
	if dist > 1e-12 {
		j.u = delta.Scale(1.0 / dist)
	} else {
		j.u = Vec2{1.0, 0.0}
	}

	crA := Cross(j.rA, j.u)
	crB := Cross(j.rB, j.u)
	k := a.invMass + b.invMass + a.invI*crA*crA + b.invI*crB*crB
	if k > 0.0 {
		j.mass = 1.0 / k
	} else {
		j.mass = 0.0
	}

	// Exponential decay of the relative velocity along the axis.
	j.vCoef = 1.0 - math.Exp(-j.damping*h*k)
	j.targetVrn = 0.0

	// Apply the spring force for this substep immediately.
	springImpulse := (j.restLength - dist) * j.stiffness * h
	applyPointImpulse(a, b, j.rA, j.rB, j.u.Scale(springImpulse))
}

// warmStart is empty: the spring recomputes its force every substep and
// carries no constraint impulse across steps.
func (j *SpringJoint) warmStart() {}

func (j *SpringJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	vpA := a.linearVelocity.Add(CrossSV(a.angularVelocity, j.rA))
	vpB := b.linearVelocity.Add(CrossSV(b.angularVelocity, j.rB))
	vrn := Dot(j.u, vpB.Sub(vpA))

	vDamp := (j.targetVrn - vrn) * j.vCoef
	j.targetVrn = vrn + vDamp
	applyPointImpulse(a, b, j.rA, j.rB, j.u.Scale(vDamp*j.mass))
}
