// Interactive viewer: a small scene rendered with raylib. Left click
// drops a box, right click drops a ball, R resets.
package main

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/stonejiang208/phys2d"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	pixelsPerM   = 40.0
)

// toScreen maps world meters (y up) to screen pixels (y down).
func toScreen(p phys2d.Vec2) rl.Vector2 {
	return rl.Vector2{
		X: float32(screenWidth/2 + p.X*pixelsPerM),
		Y: float32(screenHeight - 60 - p.Y*pixelsPerM),
	}
}

func toWorld(v rl.Vector2) phys2d.Vec2 {
	return phys2d.Vec2{
		X: (float64(v.X) - screenWidth/2) / pixelsPerM,
		Y: (screenHeight - 60 - float64(v.Y)) / pixelsPerM,
	}
}

func main() {
	rl.InitWindow(screenWidth, screenHeight, "phys2d viewer")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	world := buildScene()

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyR) {
			world = buildScene()
		}
		if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
			dropBox(world, toWorld(rl.GetMousePosition()))
		}
		if rl.IsMouseButtonPressed(rl.MouseRightButton) {
			dropBall(world, toWorld(rl.GetMousePosition()))
		}

		world.Update(float64(rl.GetFrameTime()))

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		for _, b := range world.Bodies() {
			for _, s := range b.Shapes() {
				drawShape(b, s)
			}
		}
		rl.DrawText("left click: box | right click: ball | R: reset", 16, 16, 20, rl.Gray)
		rl.EndDrawing()
	}
}

func buildScene() *phys2d.World {
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	world.SetAutoStep(true)
	world.SetSubsteps(2)

	ground := world.CreateStaticBody(phys2d.Vec2{})
	floor := mustShape(phys2d.NewSegmentShape(phys2d.Vec2{X: -15.0}, phys2d.Vec2{X: 15.0}, phys2d.DefaultMaterial))
	must(ground.AttachShape(floor))

	// A short stack.
	for i := 0; i < 5; i++ {
		b := world.CreateDynamicBody(phys2d.Vec2{X: -6.0, Y: 0.5 + float64(i)})
		must(b.AttachShape(mustShape(phys2d.NewBoxShape(1.0, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial))))
	}

	// A pendulum on a pin joint.
	anchor := world.CreateStaticBody(phys2d.Vec2{X: 6.0, Y: 10.0})
	bob := world.CreateDynamicBody(phys2d.Vec2{X: 9.0, Y: 10.0})
	must(bob.AttachShape(mustShape(phys2d.NewCircleShape(0.5, phys2d.Vec2{}, phys2d.DefaultMaterial))))
	mustJoint(world.CreatePinJoint(anchor, bob, phys2d.Vec2{X: 6.0, Y: 10.0}))

	return world
}

func dropBox(world *phys2d.World, at phys2d.Vec2) {
	b := world.CreateDynamicBody(at)
	must(b.AttachShape(mustShape(phys2d.NewBoxShape(0.8, 0.8, phys2d.Vec2{}, phys2d.DefaultMaterial))))
}

func dropBall(world *phys2d.World, at phys2d.Vec2) {
	b := world.CreateDynamicBody(at)
	m := phys2d.MakeMaterial(1.0, 0.3, 0.6)
	must(b.AttachShape(mustShape(phys2d.NewCircleShape(0.4, phys2d.Vec2{}, m))))
}

func drawShape(b *phys2d.Body, s *phys2d.Shape) {
	color := rl.SkyBlue
	if b.Kind() == phys2d.StaticBody {
		color = rl.Green
	}

	switch s.Kind() {
	case phys2d.ShapeCircle:
		center := toScreen(b.WorldPoint(s.Offset()))
		r := float32(s.Radius() * pixelsPerM)
		rl.DrawCircleLines(int32(center.X), int32(center.Y), r, color)
		// Radius line shows rotation.
		tip := b.WorldPoint(s.Offset().Add(phys2d.Vec2{X: s.Radius()}))
		rl.DrawLineV(center, toScreen(tip), color)

	default:
		verts := s.Vertices()
		n := len(verts)
		last := n - 1
		if s.Kind() == phys2d.ShapeSegment || (s.Kind() == phys2d.ShapeEdgeChain && !s.Loop()) {
			last = n - 2 // open chains have no closing edge
		}
		for i := 0; i <= last; i++ {
			a := b.WorldPoint(verts[i])
			c := b.WorldPoint(verts[(i+1)%n])
			rl.DrawLineV(toScreen(a), toScreen(c), color)
		}
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustShape(s *phys2d.Shape, err error) *phys2d.Shape {
	must(err)
	return s
}

func mustJoint(j *phys2d.PinJoint, err error) {
	must(err)
}
