package phys2d

// GearJoint holds the angular velocities of two bodies at a constant ratio
// (angleB*ratio - angleA stays at the phase), like meshed gear wheels of
// different radii.
type GearJoint struct {
	jointBase

	phase float64
	ratio float64

	iSum float64
	bias float64
	jAcc float64
}

// CreateGearJoint gears the bodies together. A negative ratio makes them
// counter-rotate.
func (w *World) CreateGearJoint(a, b *Body, phase, ratio float64) (*GearJoint, error) {
	if err := validateJointBodies("CreateGearJoint", w, a, b); err != nil {
		return nil, err
	}
	if ratio == 0.0 || !IsValidFloat(ratio) {
		return nil, configErr("CreateGearJoint", "ratio must be non-zero")
	}
	j := &GearJoint{
		jointBase: jointBase{kind: JointGear, world: w, bodyA: a, bodyB: b},
		phase:     phase,
		ratio:     ratio,
	}
	w.addJoint(j)
	return j, nil
}

func (j *GearJoint) Ratio() float64 { return j.ratio }

func (j *GearJoint) initVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB

	k := a.invI/j.ratio + j.ratio*b.invI
	if k != 0.0 {
		j.iSum = 1.0 / k
	} else {
		j.iSum = 0.0
	}

	c := b.angle*j.ratio - a.angle - j.phase
	j.bias = biasVelocity(c, h, maxJointBias)
}

func (j *GearJoint) warmStart() {
	a, b := j.bodyA, j.bodyB
	a.angularVelocity -= j.jAcc * a.invI / j.ratio
	b.angularVelocity += j.jAcc * b.invI
}

func (j *GearJoint) solveVelocityConstraints(h float64) {
	a, b := j.bodyA, j.bodyB
	wr := b.angularVelocity*j.ratio - a.angularVelocity

	impulse := (j.bias - wr) * j.iSum
	j.jAcc += impulse

	a.angularVelocity -= impulse * a.invI / j.ratio
	b.angularVelocity += impulse * b.invI
}
