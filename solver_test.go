package phys2d_test

import (
	"math"
	"testing"

	"github.com/stonejiang208/phys2d"
)

func TestElasticCollisionConservesMomentumAndEnergy(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	elastic := phys2d.MakeMaterial(1.0, 0.0, 1.0)

	a := world.CreateDynamicBody(phys2d.Vec2{X: -2.0})
	attachCircle(t, a, 0.5, phys2d.Vec2{}, elastic)
	a.SetVelocity(phys2d.Vec2{X: 1.0})

	b := world.CreateDynamicBody(phys2d.Vec2{X: 2.0})
	attachCircle(t, b, 0.5, phys2d.Vec2{}, elastic)
	b.SetVelocity(phys2d.Vec2{X: -1.0})

	mass := a.Mass()
	momentum0 := mass * (a.Velocity().X + b.Velocity().X)
	energy0 := 0.5 * mass * (a.Velocity().LengthSquared() + b.Velocity().LengthSquared())

	stepN(t, world, 180)

	momentum1 := mass * (a.Velocity().X + b.Velocity().X)
	energy1 := 0.5 * mass * (a.Velocity().LengthSquared() + b.Velocity().LengthSquared())

	if !near(momentum1, momentum0, 1e-6) {
		t.Fatalf("momentum %v -> %v", momentum0, momentum1)
	}
	if !near(energy1, energy0, 0.05*energy0+0.01) {
		t.Fatalf("energy %v -> %v", energy0, energy1)
	}
	// Equal masses head-on: the velocities swap.
	if a.Velocity().X > -0.9 || b.Velocity().X < 0.9 {
		t.Fatalf("velocities did not swap: a=%v b=%v", a.Velocity().X, b.Velocity().X)
	}
}

func TestBallBouncesOffFloor(t *testing.T) {
	world, _ := groundedWorld(t)
	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 2.0})
	attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.MakeMaterial(1.0, 0.0, 0.9))

	maxUpward := 0.0
	for i := 0; i < 240; i++ {
		stepN(t, world, 1)
		if v := ball.Velocity().Y; v > maxUpward {
			maxUpward = v
		}
	}
	// Drop from 1.5m gives ~5.4 m/s at impact; most of it comes back.
	if maxUpward < 3.0 {
		t.Fatalf("bounce too weak: max upward velocity %v", maxUpward)
	}
}

func TestBoxStackSettles(t *testing.T) {
	world, _ := groundedWorld(t)

	bottom := world.CreateDynamicBody(phys2d.Vec2{Y: 0.5})
	attachBox(t, bottom, 1.0, 1.0, phys2d.DefaultMaterial)
	top := world.CreateDynamicBody(phys2d.Vec2{Y: 1.5})
	attachBox(t, top, 1.0, 1.0, phys2d.DefaultMaterial)

	stepN(t, world, 300)

	if !near(bottom.Position().Y, 0.5, 0.1) {
		t.Fatalf("bottom box at y = %v", bottom.Position().Y)
	}
	if !near(top.Position().Y, 1.5, 0.1) {
		t.Fatalf("top box at y = %v", top.Position().Y)
	}
	if top.Velocity().Length() > 0.1 {
		t.Fatalf("stack still moving: %v", top.Velocity().Length())
	}
	if math.Abs(top.Rotation()) > 0.05 {
		t.Fatalf("top box tipped to %v", top.Rotation())
	}
}

func TestRestingBoxDoesNotDrift(t *testing.T) {
	world, _ := groundedWorld(t)
	box := world.CreateDynamicBody(phys2d.Vec2{X: 1.0, Y: 0.5})
	attachBox(t, box, 1.0, 1.0, phys2d.DefaultMaterial)

	stepN(t, world, 120) // settle
	settled := box.Position()
	stepN(t, world, 300)

	if !near(box.Position().X, settled.X, 0.02) {
		t.Fatalf("box drifted from x=%v to x=%v", settled.X, box.Position().X)
	}
}

func TestDiagnosticHandlerOnNonFiniteState(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	b := world.CreateDynamicBody(phys2d.Vec2{X: 1.0})
	attachCircle(t, b, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	var reported *phys2d.Body
	world.SetDiagnosticHandler(func(body *phys2d.Body, detail string) {
		reported = body
		if detail == "" {
			t.Error("empty diagnostic detail")
		}
	})

	b.SetVelocity(phys2d.Vec2{X: math.NaN()})
	stepN(t, world, 1)

	if reported != b {
		t.Fatal("diagnostic handler not invoked")
	}
	if b.Velocity() != (phys2d.Vec2{}) {
		t.Fatalf("velocity not reset: %+v", b.Velocity())
	}
	if !b.Position().IsValid() {
		t.Fatalf("position still non-finite: %+v", b.Position())
	}

	// The world keeps stepping normally afterwards.
	stepN(t, world, 10)
}

func TestFrictionStopsSlidingBox(t *testing.T) {
	world, _ := groundedWorld(t)
	box := world.CreateDynamicBody(phys2d.Vec2{Y: 0.5})
	attachBox(t, box, 1.0, 1.0, phys2d.DefaultMaterial)

	stepN(t, world, 60) // settle onto the floor
	box.SetVelocity(phys2d.Vec2{X: 4.0})
	stepN(t, world, 600)

	if math.Abs(box.Velocity().X) > 0.05 {
		t.Fatalf("friction never stopped the box: v = %v", box.Velocity().X)
	}
}

func TestFrictionlessSurfaceKeepsSliding(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	ground := world.CreateStaticBody(phys2d.Vec2{})
	attachSegment(t, ground, phys2d.Vec2{X: -50.0}, phys2d.Vec2{X: 50.0}, phys2d.MakeMaterial(1.0, 0.0, 0.0))

	box := world.CreateDynamicBody(phys2d.Vec2{Y: 0.5})
	attachBox(t, box, 1.0, 1.0, phys2d.MakeMaterial(1.0, 0.0, 0.0))

	stepN(t, world, 60)
	box.SetVelocity(phys2d.Vec2{X: 2.0})
	stepN(t, world, 120)

	// Geometric-mean mixing: either side frictionless means no friction.
	if box.Velocity().X < 1.9 {
		t.Fatalf("frictionless box slowed to %v", box.Velocity().X)
	}
}
