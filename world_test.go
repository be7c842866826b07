package phys2d_test

import (
	"math"
	"testing"

	"github.com/stonejiang208/phys2d"
)

func TestStepRejectsInvalidDt(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})

	if err := world.Step(math.NaN()); err == nil {
		t.Fatal("expected error for NaN dt")
	}
	if err := world.Step(-0.1); err == nil {
		t.Fatal("expected error for negative dt")
	}
	if err := world.Step(0.0); err != nil {
		t.Fatalf("zero dt should be a no-op, got %v", err)
	}
	if world.Time() != 0.0 {
		t.Fatalf("time advanced on rejected steps: %v", world.Time())
	}
}

func TestStepAndUpdateAreExclusive(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})

	world.SetAutoStep(true)
	err := world.Step(stepDt)
	var usage *phys2d.UsageError
	if !errorsAs(err, &usage) {
		t.Fatalf("Step in autoStep mode: want UsageError, got %v", err)
	}

	world.SetAutoStep(false)
	if err := world.Update(stepDt); err != nil {
		t.Fatalf("Update in manual mode should be a no-op, got %v", err)
	}
	if world.Time() != 0.0 {
		t.Fatalf("manual-mode Update advanced time: %v", world.Time())
	}
}

func TestUpdateRateAccumulatesSkippedTicks(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	world.SetAutoStep(true)
	world.SetUpdateRate(3)

	for i := 0; i < 6; i++ {
		if err := world.Update(stepDt); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	// Six ticks at rate 3 run two steps covering all six deltas.
	if !near(world.Time(), 6.0*stepDt, 1e-12) {
		t.Fatalf("time = %v, want %v", world.Time(), 6.0*stepDt)
	}
}

func TestSpeedScalesSimulatedTime(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	world.SetSpeed(2.0)
	stepN(t, world, 1)
	if !near(world.Time(), 2.0*stepDt, 1e-12) {
		t.Fatalf("time = %v, want %v", world.Time(), 2.0*stepDt)
	}

	world.SetSpeed(-1.0) // ignored
	if world.Speed() != 2.0 {
		t.Fatalf("invalid speed accepted: %v", world.Speed())
	}
}

func TestSubstepsCoverFullDelta(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	world.SetSubsteps(4)

	b := world.CreateDynamicBody(phys2d.Vec2{Y: 100.0})
	attachCircle(t, b, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	stepN(t, world, 1)
	if !near(world.Time(), stepDt, 1e-12) {
		t.Fatalf("time = %v, want %v", world.Time(), stepDt)
	}
	// Free fall: v = g*dt regardless of substep count.
	if !near(b.Velocity().Y, -10.0*stepDt, 1e-9) {
		t.Fatalf("velocity after one step = %v", b.Velocity().Y)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	world, _ := groundedWorld(t)
	block := world.CreateStaticBody(phys2d.Vec2{X: 2.0, Y: 3.0})
	attachBox(t, block, 1.0, 1.0, phys2d.DefaultMaterial)

	// A dynamic ball drops onto the static block to push on it.
	ball := world.CreateDynamicBody(phys2d.Vec2{X: 2.0, Y: 6.0})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	stepN(t, world, 240)
	if !nearVec(block.Position(), phys2d.Vec2{X: 2.0, Y: 3.0}, 1e-12) {
		t.Fatalf("static body moved to %+v", block.Position())
	}
	if block.Velocity() != (phys2d.Vec2{}) {
		t.Fatalf("static body gained velocity %+v", block.Velocity())
	}
}

func TestBodyRefStaleAfterDestroy(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	a := world.CreateDynamicBody(phys2d.Vec2{})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 5.0})

	refA := a.Ref()
	if got, ok := world.FindBody(refA); !ok || got != a {
		t.Fatal("live ref failed to resolve")
	}

	if err := world.DestroyBody(a); err != nil {
		t.Fatalf("DestroyBody: %v", err)
	}
	if _, ok := world.FindBody(refA); ok {
		t.Fatal("stale ref resolved after destroy")
	}
	// b now occupies a's slot; its own ref must still resolve.
	if got, ok := world.FindBody(b.Ref()); !ok || got != b {
		t.Fatal("surviving body's ref broken by slot reuse")
	}

	if err := world.DestroyBody(a); err == nil {
		t.Fatal("double destroy should fail")
	}
}

func TestReentrantStepRejected(t *testing.T) {
	world, floor := groundedWorld(t)
	floor.SetContactTestBitmask(0xFFFFFFFF)

	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 0.6})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	var reentrant error
	fired := false
	world.SetContactListener(&phys2d.ContactListenerFuncs{
		Begin: func(c *phys2d.Contact) bool {
			fired = true
			reentrant = world.Step(stepDt)
			return true
		},
	})

	stepN(t, world, 30)
	if !fired {
		t.Fatal("begin event never fired")
	}
	var usage *phys2d.UsageError
	if !errorsAs(reentrant, &usage) {
		t.Fatalf("re-entrant Step: want UsageError, got %v", reentrant)
	}
}

func TestReentrantUpdateRejected(t *testing.T) {
	world, floor := groundedWorld(t)
	floor.SetContactTestBitmask(0xFFFFFFFF)
	world.SetAutoStep(true)
	world.SetUpdateRate(2)

	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 0.6})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	var reentrant error
	fired := false
	world.SetContactListener(&phys2d.ContactListenerFuncs{
		Begin: func(c *phys2d.Contact) bool {
			fired = true
			reentrant = world.Update(stepDt)
			return true
		},
	})

	for i := 0; i < 60; i++ {
		if err := world.Update(stepDt); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
	if !fired {
		t.Fatal("begin event never fired")
	}
	var usage *phys2d.UsageError
	if !errorsAs(reentrant, &usage) {
		t.Fatalf("re-entrant Update: want UsageError, got %v", reentrant)
	}
	// The rejected call must leave the tick accumulators untouched.
	if !near(world.Time(), 60.0*stepDt, 1e-12) {
		t.Fatalf("time = %v, want %v", world.Time(), 60.0*stepDt)
	}
}

// A static body teleported from a callback must reach the broad phase at
// its new location: bodies dropped there afterwards have to collide with
// it.
func TestStaticTeleportFromCallbackReachesBroadPhase(t *testing.T) {
	world, floor := groundedWorld(t)
	floor.SetContactTestBitmask(0xFFFFFFFF)

	platform := world.CreateStaticBody(phys2d.Vec2{X: 100.0, Y: 3.0})
	attachBox(t, platform, 4.0, 1.0, phys2d.DefaultMaterial)

	trigger := world.CreateDynamicBody(phys2d.Vec2{Y: 0.6})
	attachCircle(t, trigger, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	moved := false
	world.SetContactListener(&phys2d.ContactListenerFuncs{
		Begin: func(c *phys2d.Contact) bool {
			if !moved {
				moved = true
				platform.SetPosition(phys2d.Vec2{X: 10.0, Y: 3.0})
			}
			return true
		},
	})

	ball := world.CreateDynamicBody(phys2d.Vec2{X: 10.0, Y: 6.0})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	stepN(t, world, 240)
	if !moved {
		t.Fatal("begin event never fired")
	}
	// Platform top is at y=3.5; the ball rests on it instead of falling
	// through to the floor.
	if !near(ball.Position().Y, 4.0, 0.1) {
		t.Fatalf("ball at y = %v, want resting on the teleported platform", ball.Position().Y)
	}
}

func TestStructuralMutationDeferredDuringStep(t *testing.T) {
	world, floor := groundedWorld(t)
	floor.SetContactTestBitmask(0xFFFFFFFF)

	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 0.6})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	world.SetContactListener(&phys2d.ContactListenerFuncs{
		Begin: func(c *phys2d.Contact) bool {
			if err := world.DestroyBody(ball); err != nil {
				t.Errorf("deferred destroy: %v", err)
			}
			if ball.Destroyed() {
				t.Error("destroy ran inside the step")
			}
			return true
		},
	})

	stepN(t, world, 30)
	if !ball.Destroyed() {
		t.Fatal("deferred destroy never ran")
	}
	if len(world.Bodies()) != 1 {
		t.Fatalf("bodies = %d, want 1", len(world.Bodies()))
	}
}
