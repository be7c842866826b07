package phys2d

import "math"

// RotarySpringJoint pulls the relative angle of two bodies toward a rest
// angle with a damped torsion spring. Same scheme as SpringJoint, one
// dimension lower: the spring torque lands up front, the iterated impulse
// damps the relative spin.
type RotarySpringJoint struct {
	jointBase

	restAngle float64
	stiffness float64
	damping   float64

	iSum      float64
	wCoef     float64
	targetWrn float64
}

// CreateRotarySpringJoint connects the bodies with a torsion spring; the
// rest angle is their current relative angle.
func (w *World) CreateRotarySpringJoint(a, b *Body, stiffness, damping float64) (*RotarySpringJoint, error) {
	if err := validateJointBodies("CreateRotarySpringJoint", w, a, b); err != nil {
		return nil, err
	}
	if stiffness <= 0.0 {
		return nil, configErr("CreateRotarySpringJoint", "stiffness must be positive, got %v", stiffness)
	}
	if damping < 0.0 {
		return nil, configErr("CreateRotarySpringJoint", "damping must be non-negative, got %v", damping)
	}
	j := &RotarySpringJoint{
		jointBase: jointBase{kind: JointRotarySpring, world: w, bodyA: a, bodyB: b},
		restAngle: b.angle - a.angle,
		stiffness: stiffness,
		damping:   damping,
	}
	w.addJoint(j)
	return j, nil
}

func (j *RotarySpringJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	k := a.invI + b.invI
	if k > 0.0 {
		j.iSum = 1.0 / k
	} else {
		j.iSum = 0.0
	}
	j.wCoef = 1.0 - math.Exp(-j.damping*h*k)
	j.targetWrn = 0.0

	springTorque := (j.restAngle - (b.angle - a.angle)) * j.stiffness * h
	a.angularVelocity -= a.invI * springTorque
	b.angularVelocity += b.invI * springTorque
}

func (j *RotarySpringJoint) warmStart() {}

func (j *RotarySpringJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	wrn := b.angularVelocity - a.angularVelocity
	wDamp := (j.targetWrn - wrn) * j.wCoef
	j.targetWrn = wrn + wDamp

	impulse := wDamp * j.iSum
	a.angularVelocity -= a.invI * impulse
	b.angularVelocity += b.invI * impulse
}

// RotaryLimitJoint keeps the relative angle of two bodies inside a
// [min, max] window, rigid at the walls and free in between.
type RotaryLimitJoint struct {
	jointBase

	minAngle float64
	maxAngle float64

	iSum float64
	bias float64
	jAcc float64
}

// CreateRotaryLimitJoint bounds the relative angle (angleB - angleA) to
// [minAngle, maxAngle] radians.
func (w *World) CreateRotaryLimitJoint(a, b *Body, minAngle, maxAngle float64) (*RotaryLimitJoint, error) {
	if err := validateJointBodies("CreateRotaryLimitJoint", w, a, b); err != nil {
		return nil, err
	}
	if minAngle > maxAngle {
		return nil, configErr("CreateRotaryLimitJoint", "min %v exceeds max %v", minAngle, maxAngle)
	}
	j := &RotaryLimitJoint{
		jointBase: jointBase{kind: JointRotaryLimit, world: w, bodyA: a, bodyB: b},
		minAngle:  minAngle,
		maxAngle:  maxAngle,
	}
	w.addJoint(j)
	return j, nil
}

func (j *RotaryLimitJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	dist := b.angle - a.angle
	pdist := 0.0
	if dist > j.maxAngle {
		pdist = dist - j.maxAngle
	} else if dist < j.minAngle {
		pdist = dist - j.minAngle
	}

	k := a.invI + b.invI
	if k > 0.0 {
		j.iSum = 1.0 / k
	} else {
		j.iSum = 0.0
	}
	j.bias = biasVelocity(pdist, h, maxJointBias)

	if j.bias == 0.0 {
		// Inside the window: nothing to push against.
		j.jAcc = 0.0
	}
}

func (j *RotaryLimitJoint) warmStart() {
	a, b := j.bodyA, j.bodyB
	a.angularVelocity -= a.invI * j.jAcc
	b.angularVelocity += b.invI * j.jAcc
}

func (j *RotaryLimitJoint) solveVelocityConstraints(h float64) {
	if j.bias == 0.0 {
		return
	}
	a, b := j.bodyA, j.bodyB
	wr := b.angularVelocity - a.angularVelocity

	impulse := (j.bias - wr) * j.iSum
	old := j.jAcc
	if j.bias < 0.0 {
		// Pushing back from the upper wall: impulse only in one direction.
		j.jAcc = math.Min(old+impulse, 0.0)
	} else {
		j.jAcc = math.Max(old+impulse, 0.0)
	}
	impulse = j.jAcc - old

	a.angularVelocity -= a.invI * impulse
	b.angularVelocity += b.invI * impulse
}
