package phys2d

import "math"

type velocityConstraintPoint struct {
	rA, rB         Vec2
	normalImpulse  float64
	tangentImpulse float64
	normalMass     float64
	tangentMass    float64
	velocityBias   float64
}

// contactVelocityConstraint is the solver-side view of one contact:
// anchors, effective masses and restitution bias frozen at the start of the
// substep.
type contactVelocityConstraint struct {
	points          [maxManifoldPoints]velocityConstraintPoint
	normal          Vec2
	pointCount      int
	friction        float64
	restitution     float64
	surfaceVelocity float64
	contact         *Contact
	bodyA, bodyB    *Body
}

// contactSolver runs warm-started sequential impulses over the active
// contacts: Coulomb friction clamped by the accumulated normal impulse,
// restitution above the velocity threshold, and a separate non-linear
// position pass that removes penetration without adding energy.
type contactSolver struct {
	constraints []contactVelocityConstraint
}

func newContactSolver(contacts []*Contact) *contactSolver {
	cs := &contactSolver{
		constraints: make([]contactVelocityConstraint, 0, len(contacts)),
	}

	for _, c := range contacts {
		bodyA := c.shapeA.body
		bodyB := c.shapeB.body

		wm := c.WorldManifold()

		vc := contactVelocityConstraint{
			normal:          wm.Normal,
			pointCount:      c.manifold.PointCount,
			friction:        c.friction,
			restitution:     c.restitution,
			surfaceVelocity: c.surfaceVelocity,
			contact:         c,
			bodyA:           bodyA,
			bodyB:           bodyB,
		}

		tangent := CrossVS(vc.normal, 1.0)

		for i := 0; i < vc.pointCount; i++ {
			mp := &c.manifold.Points[i]
			vcp := &vc.points[i]

			vcp.rA = wm.Points[i].Sub(bodyA.worldCenter)
			vcp.rB = wm.Points[i].Sub(bodyB.worldCenter)
			vcp.normalImpulse = mp.NormalImpulse
			vcp.tangentImpulse = mp.TangentImpulse

			rnA := Cross(vcp.rA, vc.normal)
			rnB := Cross(vcp.rB, vc.normal)
			kNormal := bodyA.invMass + bodyB.invMass + bodyA.invI*rnA*rnA + bodyB.invI*rnB*rnB
			if kNormal > 0.0 {
				vcp.normalMass = 1.0 / kNormal
			}

			rtA := Cross(vcp.rA, tangent)
			rtB := Cross(vcp.rB, tangent)
			kTangent := bodyA.invMass + bodyB.invMass + bodyA.invI*rtA*rtA + bodyB.invI*rtB*rtB
			if kTangent > 0.0 {
				vcp.tangentMass = 1.0 / kTangent
			}

			// Restitution bias from the approach velocity, ignored below
			// the threshold so resting contact stays quiet.
			dv := bodyB.linearVelocity.Add(CrossSV(bodyB.angularVelocity, vcp.rB)).
				Sub(bodyA.linearVelocity).Sub(CrossSV(bodyA.angularVelocity, vcp.rA))
			vRel := Dot(vc.normal, dv)
			if vRel < -velocityThreshold {
				vcp.velocityBias = -vc.restitution * vRel
			}
		}

		cs.constraints = append(cs.constraints, vc)
	}
	return cs
}

// warmStart replays the previous step's accumulated impulses.
func (cs *contactSolver) warmStart() {
	for i := range cs.constraints {
		vc := &cs.constraints[i]
		a, b := vc.bodyA, vc.bodyB
		tangent := CrossVS(vc.normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			vcp := &vc.points[j]
			p := vc.normal.Scale(vcp.normalImpulse).Add(tangent.Scale(vcp.tangentImpulse))
			a.linearVelocity = a.linearVelocity.Sub(p.Scale(a.invMass))
			a.angularVelocity -= a.invI * Cross(vcp.rA, p)
			b.linearVelocity = b.linearVelocity.Add(p.Scale(b.invMass))
			b.angularVelocity += b.invI * Cross(vcp.rB, p)
		}
	}
}

func (cs *contactSolver) solveVelocityConstraints() {
	for i := range cs.constraints {
		vc := &cs.constraints[i]
		a, b := vc.bodyA, vc.bodyB
		tangent := CrossVS(vc.normal, 1.0)

		for j := 0; j < vc.pointCount; j++ {
			vcp := &vc.points[j]

			// Friction first, clamped by the accumulated normal impulse.
			dv := b.linearVelocity.Add(CrossSV(b.angularVelocity, vcp.rB)).
				Sub(a.linearVelocity).Sub(CrossSV(a.angularVelocity, vcp.rA))
			vt := Dot(dv, tangent) - vc.surfaceVelocity
			lambda := vcp.tangentMass * -vt

			maxFriction := vc.friction * vcp.normalImpulse
			newImpulse := Clamp(vcp.tangentImpulse+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.tangentImpulse
			vcp.tangentImpulse = newImpulse

			p := tangent.Scale(lambda)
			a.linearVelocity = a.linearVelocity.Sub(p.Scale(a.invMass))
			a.angularVelocity -= a.invI * Cross(vcp.rA, p)
			b.linearVelocity = b.linearVelocity.Add(p.Scale(b.invMass))
			b.angularVelocity += b.invI * Cross(vcp.rB, p)
		}

		for j := 0; j < vc.pointCount; j++ {
			vcp := &vc.points[j]

			dv := b.linearVelocity.Add(CrossSV(b.angularVelocity, vcp.rB)).
				Sub(a.linearVelocity).Sub(CrossSV(a.angularVelocity, vcp.rA))
			vn := Dot(dv, vc.normal)
			lambda := -vcp.normalMass * (vn - vcp.velocityBias)

			// Accumulated impulses stay non-negative; individual deltas may
			// pull back.
			newImpulse := math.Max(vcp.normalImpulse+lambda, 0.0)
			lambda = newImpulse - vcp.normalImpulse
			vcp.normalImpulse = newImpulse

			p := vc.normal.Scale(lambda)
			a.linearVelocity = a.linearVelocity.Sub(p.Scale(a.invMass))
			a.angularVelocity -= a.invI * Cross(vcp.rA, p)
			b.linearVelocity = b.linearVelocity.Add(p.Scale(b.invMass))
			b.angularVelocity += b.invI * Cross(vcp.rB, p)
		}
	}
}

// storeImpulses writes the accumulated impulses back into the manifold for
// next step's warm start.
func (cs *contactSolver) storeImpulses() {
	for i := range cs.constraints {
		vc := &cs.constraints[i]
		for j := 0; j < vc.pointCount; j++ {
			vc.contact.manifold.Points[j].NormalImpulse = vc.points[j].normalImpulse
			vc.contact.manifold.Points[j].TangentImpulse = vc.points[j].tangentImpulse
		}
	}
}

// positionManifoldPoint recomputes one contact point and its separation at
// the bodies' current (partially corrected) transforms.
func positionManifoldPoint(m *Manifold, xfA, xfB Transform, radiusA, radiusB float64, index int) (normal, point Vec2, separation float64) {
	switch m.Type {
	case manifoldCircles:
		pA := TransformVec(xfA, m.LocalPoint)
		pB := TransformVec(xfB, m.Points[0].LocalPoint)
		normal = pB.Sub(pA)
		normal.Normalize()
		point = pA.Add(pB).Scale(0.5)
		separation = Dot(pB.Sub(pA), normal) - radiusA - radiusB

	case manifoldFaceA:
		normal = RotVec(xfA.Q, m.LocalNormal)
		planePoint := TransformVec(xfA, m.LocalPoint)
		clipPoint := TransformVec(xfB, m.Points[index].LocalPoint)
		separation = Dot(clipPoint.Sub(planePoint), normal) - radiusA - radiusB
		point = clipPoint

	case manifoldFaceB:
		normal = RotVec(xfB.Q, m.LocalNormal)
		planePoint := TransformVec(xfB, m.LocalPoint)
		clipPoint := TransformVec(xfA, m.Points[index].LocalPoint)
		separation = Dot(clipPoint.Sub(planePoint), normal) - radiusA - radiusB
		point = clipPoint
		// Keep the normal pointing from A to B.
		normal = normal.Neg()
	}
	return
}

// solvePositionConstraints pushes penetrating bodies apart directly in
// position space. Returns true once the worst separation is within
// tolerance.
func (cs *contactSolver) solvePositionConstraints() bool {
	minSeparation := 0.0

	for i := range cs.constraints {
		vc := &cs.constraints[i]
		a, b := vc.bodyA, vc.bodyB
		c := vc.contact

		for j := 0; j < vc.pointCount; j++ {
			xfA := a.currentTransform()
			xfB := b.currentTransform()

			normal, point, separation := positionManifoldPoint(&c.manifold, xfA, xfB, c.shapeA.radius, c.shapeB.radius, j)
			minSeparation = math.Min(minSeparation, separation)

			rA := point.Sub(a.worldCenter)
			rB := point.Sub(b.worldCenter)

			capped := Clamp(baumgarte*(separation+linearSlop), -maxLinearCorrection, 0.0)

			rnA := Cross(rA, normal)
			rnB := Cross(rB, normal)
			k := a.invMass + b.invMass + a.invI*rnA*rnA + b.invI*rnB*rnB
			if k <= 0.0 {
				continue
			}
			impulse := -capped / k
			p := normal.Scale(impulse)

			a.worldCenter = a.worldCenter.Sub(p.Scale(a.invMass))
			a.angle -= a.invI * Cross(rA, p)
			b.worldCenter = b.worldCenter.Add(p.Scale(b.invMass))
			b.angle += b.invI * Cross(rB, p)
		}
	}

	return minSeparation >= -3.0*linearSlop
}
