package phys2d

import "fmt"

// subStep runs the full pipeline once with a sub-interval delta: broad
// phase, narrow phase with listener gating, velocity/position solving,
// integration, and postSolve delivery.
func (w *World) subStep(h float64) {
	w.contactManager.findNewContacts()
	w.contactManager.collide()
	w.solve(h)
}

func (w *World) solve(h float64) {
	// Integrate forces into velocities. Damping is applied as the exact
	// solution of dv/dt = -c*v over the substep.
	for _, b := range w.bodies {
		if b.kind != DynamicBody {
			continue
		}
		v := b.linearVelocity
		omega := b.angularVelocity

		if b.gravityEnabled {
			v = v.Add(w.gravity.Scale(h))
		}
		v = v.Add(b.force.Scale(h * b.invMass))
		omega += h * b.invI * b.torque

		v = v.Scale(1.0 / (1.0 + h*b.linearDamping))
		omega *= 1.0 / (1.0 + h*b.angularDamping)

		b.linearVelocity = v
		b.angularVelocity = omega
	}

	// Contacts that survived the listener gates participate in solving.
	active := w.activeContacts[:0]
	for _, c := range w.contactManager.contacts {
		if c.touching && !c.ignored && c.enabled {
			active = append(active, c)
		}
	}
	w.activeContacts = active

	// Joints seed and iterate before contacts, every pass, so the solve
	// order is identical step to step.
	for _, j := range w.joints {
		j.initVelocityConstraints(h)
		j.warmStart()
	}
	cs := newContactSolver(active)
	cs.warmStart()

	for i := 0; i < w.tuning.VelocityIterations; i++ {
		for _, j := range w.joints {
			j.solveVelocityConstraints(h)
		}
		cs.solveVelocityConstraints()
	}
	cs.storeImpulses()

	// Integrate velocities into positions.
	for _, b := range w.bodies {
		if b.kind == StaticBody {
			continue
		}
		b.position0 = b.xf.P
		b.angle0 = b.angle
		b.advance(h)
	}

	// Push remaining penetration and joint drift out in position space.
	for i := 0; i < w.tuning.PositionIterations; i++ {
		contactsDone := cs.solvePositionConstraints()
		jointsDone := true
		for _, j := range w.joints {
			if !j.solvePositionConstraints() {
				jointsDone = false
			}
		}
		if contactsDone && jointsDone {
			break
		}
	}
	for _, b := range w.bodies {
		if b.kind == StaticBody {
			continue
		}
		b.synchronizeTransform()
	}

	w.checkNumericalHealth()

	// Clear force accumulators and refresh the broad phase.
	for _, b := range w.bodies {
		b.force.SetZero()
		b.torque = 0.0
		if b.kind == StaticBody {
			continue
		}
		displacement := b.xf.P.Sub(b.position0)
		for _, s := range b.shapes {
			for i, id := range s.proxies {
				bb := s.computeAABB(b.xf, i)
				w.broadPhase.MoveProxy(id, bb, displacement)
			}
		}
	}

	if w.listener != nil {
		for _, c := range w.activeContacts {
			if c.eventsEnabled() {
				w.listener.OnContactPostSolve(c)
			}
		}
	}
}

// checkNumericalHealth detects NaN/Inf state from ill-conditioned
// constraints, clamps the offending body back to something finite, and
// surfaces a diagnostic. Per-body, never fatal: the rest of the step is
// unaffected.
func (w *World) checkNumericalHealth() {
	for _, b := range w.bodies {
		if b.kind == StaticBody {
			continue
		}

		velOk := b.linearVelocity.IsValid() && IsValidFloat(b.angularVelocity)
		posOk := b.worldCenter.IsValid() && IsValidFloat(b.angle)
		if velOk && posOk {
			continue
		}

		detail := fmt.Sprintf("non-finite state (velocity ok: %t, position ok: %t); velocity reset", velOk, posOk)
		b.linearVelocity.SetZero()
		b.angularVelocity = 0.0
		if !posOk {
			// Rewind to the last finite position.
			b.xf.P = b.position0
			b.angle = 0.0
			if IsValidFloat(b.angle0) {
				b.angle = b.angle0
			}
			b.xf.Q.SetAngle(b.angle)
			b.worldCenter = TransformVec(b.xf, b.localCenter)
		}

		if w.diagnostic != nil {
			w.diagnostic(b, detail)
		}
	}
}
