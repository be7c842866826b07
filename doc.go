// Package phys2d is a real-time 2D rigid body physics engine: bodies carry
// circle, polygon, and edge shapes, a dynamic AABB tree culls candidate
// pairs, an iterative impulse solver resolves contacts and joints, and a
// synchronous contact listener gates which collisions are solved and
// observed.
//
// A World is single-threaded. Create bodies and joints through it, attach
// shapes to bodies, then drive it with Step (or Update in autoStep mode):
//
//	world := phys2d.NewWorld(phys2d.Vec2{Y: -10})
//	ground := world.CreateStaticBody(phys2d.Vec2{})
//	floor, _ := phys2d.NewSegmentShape(phys2d.Vec2{X: -20}, phys2d.Vec2{X: 20}, phys2d.DefaultMaterial)
//	ground.AttachShape(floor)
//
//	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 5})
//	circle, _ := phys2d.NewCircleShape(0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)
//	ball.AttachShape(circle)
//
//	for i := 0; i < 60; i++ {
//		world.Step(1.0 / 60.0)
//	}
//
// All lengths are meters, angles radians, and time seconds.
package phys2d
