package phys2d

// ContactListener observes and gates the contact lifecycle. Callbacks run
// synchronously inside the stepping call, in lifecycle order: begin,
// preSolve, solve, postSolve, separate. They must not re-enter Step;
// structural changes they request are deferred to the end of the step.
//
// Delivery is additionally gated per pair by the shapes' contact-test
// bitmasks; registering a listener alone enables nothing.
type ContactListener interface {
	// OnContactBegin fires on the first step a pair overlaps. Returning
	// false discards the collision until the pair separates: no solving,
	// no preSolve/postSolve, but the final separate still fires.
	OnContactBegin(c *Contact) bool

	// OnContactPreSolve fires every step the pair stays overlapping,
	// including the first. Returning false skips solving for this step
	// only. The contact's friction, restitution, and surface velocity may
	// be adjusted here, also for this step only.
	OnContactPreSolve(c *Contact) bool

	// OnContactPostSolve fires after the solver has applied impulses for
	// the pair.
	OnContactPostSolve(c *Contact)

	// OnContactSeparate fires exactly once when overlap ends, including
	// when a participating shape or body is destroyed mid-overlap.
	OnContactSeparate(c *Contact)
}

// ContactListenerFuncs adapts plain functions to ContactListener. Nil
// functions keep the default behavior (begin/preSolve allow, the rest
// no-op).
type ContactListenerFuncs struct {
	Begin     func(c *Contact) bool
	PreSolve  func(c *Contact) bool
	PostSolve func(c *Contact)
	Separate  func(c *Contact)
}

func (l *ContactListenerFuncs) OnContactBegin(c *Contact) bool {
	if l.Begin != nil {
		return l.Begin(c)
	}
	return true
}

func (l *ContactListenerFuncs) OnContactPreSolve(c *Contact) bool {
	if l.PreSolve != nil {
		return l.PreSolve(c)
	}
	return true
}

func (l *ContactListenerFuncs) OnContactPostSolve(c *Contact) {
	if l.PostSolve != nil {
		l.PostSolve(c)
	}
}

func (l *ContactListenerFuncs) OnContactSeparate(c *Contact) {
	if l.Separate != nil {
		l.Separate(c)
	}
}
