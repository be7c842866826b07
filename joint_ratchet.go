package phys2d

import "math"

// RatchetJoint lets the relative angle advance freely in one direction and
// clicks into place against motion the other way, like a socket wrench.
// The sign of the ratchet value picks the free direction; its magnitude is
// the tooth spacing.
type RatchetJoint struct {
	jointBase

	angle   float64 // the engaged tooth position
	phase   float64
	ratchet float64

	iSum float64
	bias float64
	jAcc float64
}

// CreateRatchetJoint ratchets the relative angle (angleB - angleA). phase
// offsets the teeth; ratchet is the signed tooth spacing in radians.
func (w *World) CreateRatchetJoint(a, b *Body, phase, ratchet float64) (*RatchetJoint, error) {
	if err := validateJointBodies("CreateRatchetJoint", w, a, b); err != nil {
		return nil, err
	}
	if ratchet == 0.0 || !IsValidFloat(ratchet) {
		return nil, configErr("CreateRatchetJoint", "ratchet spacing must be non-zero")
	}
	j := &RatchetJoint{
		jointBase: jointBase{kind: JointRatchet, world: w, bodyA: a, bodyB: b},
		angle:     b.angle - a.angle,
		phase:     phase,
		ratchet:   ratchet,
	}
	w.addJoint(j)
	return j, nil
}

func (j *RatchetJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	delta := b.angle - a.angle
	diff := j.angle - delta
	pdist := 0.0

	if diff*j.ratchet > 0.0 {
		// Behind the engaged tooth: push back to it.
		pdist = diff
	} else {
		// Advanced in the free direction: re-engage at the latest tooth.
		j.angle = math.Floor((delta-j.phase)/j.ratchet)*j.ratchet + j.phase
	}

	k := a.invI + b.invI
	if k > 0.0 {
		j.iSum = 1.0 / k
	} else {
		j.iSum = 0.0
	}
	j.bias = Clamp(baumgarte*pdist/h, -maxJointBias, maxJointBias)

	if j.bias == 0.0 {
		j.jAcc = 0.0
	}
}

func (j *RatchetJoint) warmStart() {
	a, b := j.bodyA, j.bodyB
	a.angularVelocity -= a.invI * j.jAcc
	b.angularVelocity += b.invI * j.jAcc
}

func (j *RatchetJoint) solveVelocityConstraints(h float64) {
	if j.bias == 0.0 {
		return
	}
	a, b := j.bodyA, j.bodyB
	wr := b.angularVelocity - a.angularVelocity

	impulse := (j.bias - wr) * j.iSum
	old := j.jAcc
	// The pawl only pushes the wheel forward toward the engaged tooth.
	if j.ratchet > 0.0 {
		j.jAcc = math.Max(old+impulse, 0.0)
	} else {
		j.jAcc = math.Min(old+impulse, 0.0)
	}
	impulse = j.jAcc - old

	a.angularVelocity -= a.invI * impulse
	b.angularVelocity += b.invI * impulse
}
