package phys2d

// contactKey identifies a contact by its two broad-phase proxy ids,
// normalized so the smaller id comes first.
type contactKey struct {
	a, b int
}

func makeContactKey(pa, pb int) contactKey {
	if pa > pb {
		pa, pb = pb, pa
	}
	return contactKey{a: pa, b: pb}
}

// contactManager owns the contact list: it turns broad-phase pairs into
// contacts, drives the narrow phase, and delivers begin/preSolve/separate
// events in lifecycle order. postSolve is delivered by the world after
// solving.
type contactManager struct {
	world      *World
	broadPhase *broadPhase
	contacts   []*Contact
	lookup     map[contactKey]*Contact
}

func newContactManager(w *World) *contactManager {
	return &contactManager{
		world:      w,
		broadPhase: w.broadPhase,
		lookup:     make(map[contactKey]*Contact),
	}
}

// findNewContacts asks the broad phase for fresh candidate pairs.
func (cm *contactManager) findNewContacts() {
	cm.broadPhase.UpdatePairs(cm.addPair)
}

func (cm *contactManager) addPair(pa, pb *shapeProxy) {
	shapeA, shapeB := pa.shape, pb.shape
	bodyA, bodyB := shapeA.body, shapeB.body

	if bodyA == bodyB {
		return
	}
	key := makeContactKey(shapeA.proxies[pa.childIndex], shapeB.proxies[pb.childIndex])
	if _, ok := cm.lookup[key]; ok {
		return
	}
	if !cm.shouldCollide(shapeA, shapeB) {
		return
	}

	c := newContact(shapeA, pa.childIndex, shapeB, pb.childIndex)
	if c == nil {
		return
	}
	cm.contacts = append(cm.contacts, c)
	cm.lookup[key] = c
}

// shouldCollide is the cheap pre-narrow-phase reject: body kinds, the
// collision filter, and joint contact suppression.
func (cm *contactManager) shouldCollide(a, b *Shape) bool {
	bodyA, bodyB := a.body, b.body
	// At least one participant must respond to impulses.
	if bodyA.kind != DynamicBody && bodyB.kind != DynamicBody {
		return false
	}
	if !a.filter.ShouldCollide(b.filter) {
		return false
	}
	for _, j := range bodyA.joints {
		if j.otherBody(bodyA) == bodyB && !j.CollisionEnabled() {
			return false
		}
	}
	return true
}

// flagForFiltering marks every contact involving the shape for a filter
// re-check and re-buffers its proxies so dropped pairs can reappear.
func (cm *contactManager) flagForFiltering(s *Shape) {
	for _, c := range cm.contacts {
		if c.shapeA == s || c.shapeB == s {
			c.filterFlag = true
		}
	}
	for _, id := range s.proxies {
		cm.broadPhase.TouchProxy(id)
	}
}

// flagBodyForFiltering re-checks every contact of a body, used when joint
// collision suppression changes.
func (cm *contactManager) flagBodyForFiltering(b *Body) {
	for _, c := range cm.contacts {
		if c.shapeA.body == b || c.shapeB.body == b {
			c.filterFlag = true
		}
	}
	for _, s := range b.shapes {
		for _, id := range s.proxies {
			cm.broadPhase.TouchProxy(id)
		}
	}
}

// collide updates every contact: narrow phase, lifecycle transitions, and
// begin/preSolve/separate listener delivery.
func (cm *contactManager) collide() {
	listener := cm.world.listener

	kept := cm.contacts[:0]
	for _, c := range cm.contacts {
		if c.filterFlag {
			c.filterFlag = false
			if !cm.shouldCollide(c.shapeA, c.shapeB) {
				cm.dropContact(c, listener)
				continue
			}
		}

		idA := c.shapeA.proxies[c.childA]
		idB := c.shapeB.proxies[c.childB]
		if !cm.broadPhase.testOverlap(idA, idB) {
			// Fat AABBs separated; the contact's life ends here.
			cm.dropContact(c, listener)
			continue
		}

		wasTouching := c.touching
		c.evaluate()

		deliver := listener != nil && c.eventsEnabled()

		if !wasTouching && c.touching {
			c.ignored = false
			if deliver && !listener.OnContactBegin(c) {
				c.ignored = true
			}
		}
		if wasTouching && !c.touching {
			cm.fireSeparate(c, listener)
		}

		if c.touching && !c.ignored {
			c.resetStepState()
			if deliver {
				c.enabled = listener.OnContactPreSolve(c)
			}
		} else {
			c.enabled = false
		}

		kept = append(kept, c)
	}
	// Zero the tail so dropped contacts are collectable.
	for i := len(kept); i < len(cm.contacts); i++ {
		cm.contacts[i] = nil
	}
	cm.contacts = kept
}

// fireSeparate delivers the separate event exactly once per begin. It fires
// even when begin vetoed the collision.
func (cm *contactManager) fireSeparate(c *Contact, listener ContactListener) {
	if listener != nil && c.eventsEnabled() {
		listener.OnContactSeparate(c)
	}
	c.ignored = false
	c.touching = false
}

// dropContact removes a contact entirely, delivering separate if the pair
// was still overlapping.
func (cm *contactManager) dropContact(c *Contact, listener ContactListener) {
	if c.touching {
		cm.fireSeparate(c, listener)
	}
	delete(cm.lookup, makeContactKey(c.shapeA.proxies[c.childA], c.shapeB.proxies[c.childB]))
}

// destroyContactsOf removes every contact involving the shape, called on
// shape detach and body destruction.
func (cm *contactManager) destroyContactsOf(s *Shape) {
	listener := cm.world.listener
	kept := cm.contacts[:0]
	for _, c := range cm.contacts {
		if c.shapeA == s || c.shapeB == s {
			cm.dropContact(c, listener)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(cm.contacts); i++ {
		cm.contacts[i] = nil
	}
	cm.contacts = kept
}
