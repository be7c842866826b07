package phys2d_test

import (
	"math"
	"testing"

	"github.com/stonejiang208/phys2d"
)

// spinner builds a static hub plus one dynamic disc for angular joint
// tests, gravity off so only the joint acts.
func spinner(t *testing.T) (*phys2d.World, *phys2d.Body, *phys2d.Body) {
	t.Helper()
	world := phys2d.NewWorld(phys2d.Vec2{})
	hub := world.CreateStaticBody(phys2d.Vec2{})
	disc := world.CreateDynamicBody(phys2d.Vec2{X: 5.0})
	attachCircle(t, disc, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)
	return world, hub, disc
}

func TestPinJointPendulumKeepsAnchorDistance(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	anchor := world.CreateStaticBody(phys2d.Vec2{Y: 10.0})
	bob := world.CreateDynamicBody(phys2d.Vec2{X: 2.0, Y: 10.0})
	attachCircle(t, bob, 0.3, phys2d.Vec2{}, phys2d.DefaultMaterial)

	j, err := world.CreatePinJoint(anchor, bob, phys2d.Vec2{Y: 10.0})
	if err != nil {
		t.Fatalf("CreatePinJoint: %v", err)
	}
	if j.Kind() != phys2d.JointPin {
		t.Fatalf("kind = %v", j.Kind())
	}

	for i := 0; i < 300; i++ {
		stepN(t, world, 1)
		dist := bob.Position().Sub(phys2d.Vec2{Y: 10.0}).Length()
		if !near(dist, 2.0, 0.05) {
			t.Fatalf("step %d: pendulum length %v, want 2", i, dist)
		}
	}
}

func TestDistanceJointHoldsLength(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	a := world.CreateStaticBody(phys2d.Vec2{Y: 5.0})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 1.5, Y: 5.0})
	attachCircle(t, b, 0.3, phys2d.Vec2{}, phys2d.DefaultMaterial)

	j, err := world.CreateDistanceJoint(a, b, phys2d.Vec2{Y: 5.0}, phys2d.Vec2{X: 1.5, Y: 5.0})
	if err != nil {
		t.Fatalf("CreateDistanceJoint: %v", err)
	}
	if !near(j.Length(), 1.5, 1e-12) {
		t.Fatalf("length = %v", j.Length())
	}

	stepN(t, world, 300)
	dist := b.Position().Sub(phys2d.Vec2{Y: 5.0}).Length()
	if !near(dist, 1.5, 0.05) {
		t.Fatalf("rod length drifted to %v", dist)
	}

	var config *phys2d.ConfigurationError
	if _, err := world.CreateDistanceJoint(a, b, phys2d.Vec2{Y: 5.0}, phys2d.Vec2{Y: 5.0}); !errorsAs(err, &config) {
		t.Fatalf("coincident anchors: want ConfigurationError, got %v", err)
	}
}

func TestSpringJointPullsTowardRestLength(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	a := world.CreateStaticBody(phys2d.Vec2{})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 3.0})
	attachCircle(t, b, 0.3, phys2d.Vec2{}, phys2d.DefaultMaterial)

	j, err := world.CreateSpringJoint(a, b, phys2d.Vec2{}, phys2d.Vec2{X: 3.0}, 20.0, 3.0)
	if err != nil {
		t.Fatalf("CreateSpringJoint: %v", err)
	}
	j.SetRestLength(1.0)

	stepN(t, world, 600)
	dist := b.Position().Length()
	if !near(dist, 1.0, 0.2) {
		t.Fatalf("spring settled at %v, want near rest length 1", dist)
	}
}

func TestLimitJointActsAsRope(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	a := world.CreateStaticBody(phys2d.Vec2{Y: 10.0})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 0.5, Y: 10.0})
	attachCircle(t, b, 0.3, phys2d.Vec2{}, phys2d.DefaultMaterial)

	if _, err := world.CreateLimitJoint(a, b, phys2d.Vec2{Y: 10.0}, phys2d.Vec2{X: 0.5, Y: 10.0}, 2.0); err != nil {
		t.Fatalf("CreateLimitJoint: %v", err)
	}

	stepN(t, world, 300)
	maxDist := 0.0
	for i := 0; i < 120; i++ {
		stepN(t, world, 1)
		if d := b.Position().Sub(phys2d.Vec2{Y: 10.0}).Length(); d > maxDist {
			maxDist = d
		}
	}
	if maxDist > 2.1 {
		t.Fatalf("rope stretched to %v, limit 2", maxDist)
	}
	if b.Position().Y > 9.0 {
		t.Fatalf("body never fell, y = %v", b.Position().Y)
	}
}

func TestGrooveJointConstrainsToSlot(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	rail := world.CreateStaticBody(phys2d.Vec2{})
	slider := world.CreateDynamicBody(phys2d.Vec2{})
	attachCircle(t, slider, 0.3, phys2d.Vec2{}, phys2d.DefaultMaterial)

	j, err := world.CreateGrooveJoint(rail, slider, phys2d.Vec2{X: -2.0}, phys2d.Vec2{X: 2.0}, phys2d.Vec2{})
	if err != nil {
		t.Fatalf("CreateGrooveJoint: %v", err)
	}
	if !near(j.GrooveLength(), 4.0, 1e-12) {
		t.Fatalf("groove length = %v", j.GrooveLength())
	}

	slider.SetVelocity(phys2d.Vec2{X: 1.0})
	stepN(t, world, 300)

	p := slider.Position()
	if !near(p.Y, 0.0, 0.1) {
		t.Fatalf("slider left the groove line, y = %v", p.Y)
	}
	// Reached and clamped at the far end of the slot.
	if p.X < 1.5 || p.X > 2.1 {
		t.Fatalf("slider at x = %v, want clamped near 2", p.X)
	}
}

func TestRotaryLimitJointClampsAngle(t *testing.T) {
	world, hub, disc := spinner(t)
	if _, err := world.CreateRotaryLimitJoint(hub, disc, -0.5, 0.5); err != nil {
		t.Fatalf("CreateRotaryLimitJoint: %v", err)
	}

	disc.SetAngularVelocity(2.0)
	stepN(t, world, 180)
	if disc.Rotation() > 0.6 {
		t.Fatalf("angle %v exceeded upper limit", disc.Rotation())
	}

	disc.SetAngularVelocity(-2.0)
	stepN(t, world, 180)
	if disc.Rotation() < -0.6 {
		t.Fatalf("angle %v exceeded lower limit", disc.Rotation())
	}
}

func TestRotarySpringJointRestoresRestAngle(t *testing.T) {
	world, hub, disc := spinner(t)
	if _, err := world.CreateRotarySpringJoint(hub, disc, 5.0, 0.5); err != nil {
		t.Fatalf("CreateRotarySpringJoint: %v", err)
	}

	disc.SetRotation(1.0)
	stepN(t, world, 600)
	if math.Abs(disc.Rotation()) > 0.3 {
		t.Fatalf("rotary spring left angle at %v", disc.Rotation())
	}
}

func TestRatchetJointAllowsOneDirection(t *testing.T) {
	world, hub, disc := spinner(t)
	if _, err := world.CreateRatchetJoint(hub, disc, 0.0, 0.2); err != nil {
		t.Fatalf("CreateRatchetJoint: %v", err)
	}

	// Forward motion is free.
	disc.SetAngularVelocity(1.0)
	stepN(t, world, 60)
	forward := disc.Rotation()
	if forward < 0.5 {
		t.Fatalf("forward rotation blocked, angle = %v", forward)
	}

	// Backward motion is caught by the last engaged tooth.
	disc.SetAngularVelocity(-1.0)
	stepN(t, world, 180)
	if disc.Rotation() < forward-0.25 {
		t.Fatalf("ratchet slipped from %v to %v", forward, disc.Rotation())
	}
}

func TestMotorJointReachesRate(t *testing.T) {
	world, hub, disc := spinner(t)
	if _, err := world.CreateMotorJoint(hub, disc, 2.0); err != nil {
		t.Fatalf("CreateMotorJoint: %v", err)
	}

	stepN(t, world, 60)
	if !near(disc.AngularVelocity(), 2.0, 0.05) {
		t.Fatalf("motor rate = %v, want 2", disc.AngularVelocity())
	}
}

func TestMotorJointStallsUnderTorqueLimit(t *testing.T) {
	world, hub, disc := spinner(t)
	j, err := world.CreateMotorJoint(hub, disc, 2.0)
	if err != nil {
		t.Fatalf("CreateMotorJoint: %v", err)
	}
	// Torque equal to the moment limits acceleration to ~1 rad/s^2.
	j.SetMaxTorque(disc.Moment())

	stepN(t, world, 30)
	w := disc.AngularVelocity()
	if w < 0.2 || w > 1.2 {
		t.Fatalf("torque-limited motor at %v rad/s after 0.5s", w)
	}
}

func TestGearJointMaintainsRatio(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	ground := world.CreateStaticBody(phys2d.Vec2{})

	a := world.CreateDynamicBody(phys2d.Vec2{X: -2.0})
	attachCircle(t, a, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)
	b := world.CreateDynamicBody(phys2d.Vec2{X: 2.0})
	attachCircle(t, b, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	if _, err := world.CreateMotorJoint(ground, a, 2.0); err != nil {
		t.Fatalf("CreateMotorJoint: %v", err)
	}
	if _, err := world.CreateGearJoint(a, b, 0.0, 2.0); err != nil {
		t.Fatalf("CreateGearJoint: %v", err)
	}

	stepN(t, world, 120)
	wa, wb := a.AngularVelocity(), b.AngularVelocity()
	if !near(wa, 2.0, 0.1) {
		t.Fatalf("driven gear at %v, want 2", wa)
	}
	if !near(wb*2.0, wa, 0.1) {
		t.Fatalf("gear ratio broken: wa=%v wb=%v", wa, wb)
	}
}

func TestFixedJointLocksBodies(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	base := world.CreateStaticBody(phys2d.Vec2{})
	arm := world.CreateDynamicBody(phys2d.Vec2{X: 1.0})
	attachBox(t, arm, 1.0, 0.2, phys2d.DefaultMaterial)

	if _, err := world.CreateFixedJoint(base, arm, phys2d.Vec2{X: 0.5}); err != nil {
		t.Fatalf("CreateFixedJoint: %v", err)
	}

	stepN(t, world, 300)
	if !nearVec(arm.Position(), phys2d.Vec2{X: 1.0}, 0.05) {
		t.Fatalf("welded arm drifted to %+v", arm.Position())
	}
	if math.Abs(arm.Rotation()) > 0.05 {
		t.Fatalf("welded arm rotated to %v", arm.Rotation())
	}
}

func TestJointValidation(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	other := phys2d.NewWorld(phys2d.Vec2{})
	a := world.CreateDynamicBody(phys2d.Vec2{})
	b := other.CreateDynamicBody(phys2d.Vec2{X: 1.0})

	var usage *phys2d.UsageError
	if _, err := world.CreatePinJoint(a, a, phys2d.Vec2{}); !errorsAs(err, &usage) {
		t.Fatalf("self joint: want UsageError, got %v", err)
	}
	if _, err := world.CreatePinJoint(a, b, phys2d.Vec2{}); !errorsAs(err, &usage) {
		t.Fatalf("cross-world joint: want UsageError, got %v", err)
	}
	if _, err := world.CreatePinJoint(a, nil, phys2d.Vec2{}); !errorsAs(err, &usage) {
		t.Fatalf("nil body: want UsageError, got %v", err)
	}

	c := world.CreateDynamicBody(phys2d.Vec2{X: 2.0})
	if err := world.DestroyBody(c); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if _, err := world.CreatePinJoint(a, c, phys2d.Vec2{}); !errorsAs(err, &usage) {
		t.Fatalf("destroyed body: want UsageError, got %v", err)
	}
}

func TestJointSuppressesContactsByDefault(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})

	a := world.CreateDynamicBody(phys2d.Vec2{})
	sa := attachCircle(t, a, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial)
	sa.SetContactTestBitmask(0xFFFFFFFF)
	b := world.CreateDynamicBody(phys2d.Vec2{X: 1.0}) // overlapping
	attachCircle(t, b, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial)

	j, err := world.CreatePinJoint(a, b, phys2d.Vec2{X: 0.5})
	if err != nil {
		t.Fatalf("CreatePinJoint: %v", err)
	}

	rec := &recorder{}
	world.SetContactListener(rec)

	stepN(t, world, 30)
	if rec.begins != 0 {
		t.Fatalf("suppressed pair produced %d begin events", rec.begins)
	}

	j.SetCollisionEnable(true)
	stepN(t, world, 30)
	if rec.begins == 0 {
		t.Fatal("enabling joint collision produced no contact")
	}
}

func TestDestroyBodyDestroysItsJoints(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	a := world.CreateDynamicBody(phys2d.Vec2{})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 2.0})

	j, err := world.CreatePinJoint(a, b, phys2d.Vec2{X: 1.0})
	if err != nil {
		t.Fatalf("CreatePinJoint: %v", err)
	}
	if len(world.Joints()) != 1 {
		t.Fatalf("joints = %d", len(world.Joints()))
	}

	if err := world.DestroyBody(a); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if !j.Destroyed() {
		t.Fatal("joint survived its body")
	}
	if len(world.Joints()) != 0 {
		t.Fatalf("joints = %d after destroy", len(world.Joints()))
	}

	var usage *phys2d.UsageError
	if err := world.DestroyJoint(j); !errorsAs(err, &usage) {
		t.Fatalf("double joint destroy: want UsageError, got %v", err)
	}
}
