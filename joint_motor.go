package phys2d

import "math"

// MotorJoint drives the relative angular velocity of two bodies toward a
// target rate, optionally torque-limited so heavy loads can stall it.
type MotorJoint struct {
	jointBase

	rate      float64
	maxTorque float64 // 0 means unlimited

	iSum float64
	jMax float64
	jAcc float64
}

// CreateMotorJoint spins body B relative to body A at rate radians per
// second.
func (w *World) CreateMotorJoint(a, b *Body, rate float64) (*MotorJoint, error) {
	if err := validateJointBodies("CreateMotorJoint", w, a, b); err != nil {
		return nil, err
	}
	if !IsValidFloat(rate) {
		return nil, configErr("CreateMotorJoint", "rate must be finite")
	}
	j := &MotorJoint{
		jointBase: jointBase{kind: JointMotor, world: w, bodyA: a, bodyB: b},
		rate:      rate,
	}
	w.addJoint(j)
	return j, nil
}

func (j *MotorJoint) Rate() float64 { return j.rate }

func (j *MotorJoint) SetRate(rate float64) {
	if IsValidFloat(rate) {
		j.rate = rate
	}
}

// SetMaxTorque bounds the motor's strength. Zero restores an unstallable
// motor.
func (j *MotorJoint) SetMaxTorque(torque float64) {
	j.maxTorque = math.Max(0.0, torque)
}

func (j *MotorJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	k := a.invI + b.invI
	if k > 0.0 {
		j.iSum = 1.0 / k
	} else {
		j.iSum = 0.0
	}
	if j.maxTorque > 0.0 {
		j.jMax = j.maxTorque * h
	} else {
		j.jMax = math.MaxFloat64
	}
}

func (j *MotorJoint) warmStart() {
	a, b := j.bodyA, j.bodyB
	a.angularVelocity -= a.invI * j.jAcc
	b.angularVelocity += b.invI * j.jAcc
}

func (j *MotorJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	wr := b.angularVelocity - a.angularVelocity

	impulse := (j.rate - wr) * j.iSum
	old := j.jAcc
	j.jAcc = Clamp(old+impulse, -j.jMax, j.jMax)
	impulse = j.jAcc - old

	a.angularVelocity -= a.invI * impulse
	b.angularVelocity += b.invI * impulse
}
