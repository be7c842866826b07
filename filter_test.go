package phys2d_test

import (
	"testing"

	"github.com/stonejiang208/phys2d"
)

func TestFilterMatrix(t *testing.T) {
	filter := func(category, collision uint32, group int32) phys2d.Filter {
		return phys2d.Filter{CategoryBits: category, CollisionBits: collision, GroupIndex: group}
	}

	cases := []struct {
		name string
		a, b phys2d.Filter
		want bool
	}{
		{"crossed masks collide", filter(0x02, 0x01, 0), filter(0x01, 0x02, 0), true},
		{"identical one-way masks do not", filter(0x02, 0x01, 0), filter(0x02, 0x01, 0), false},
		{"one-way mask is not enough", filter(0x02, 0x01, 0), filter(0x04, 0x02, 0), false},
		{"disjoint masks do not collide", filter(0x04, 0x04, 0), filter(0x02, 0x02, 0), false},
		{"positive group forces collision", filter(0x04, 0x08, 3), filter(0x02, 0x01, 3), true},
		{"negative group forces none", filter(0x01, 0xFF, -3), filter(0x01, 0xFF, -3), false},
		{"different groups fall back to masks", filter(0x01, 0xFF, -3), filter(0x01, 0xFF, -4), true},
		{"defaults collide", phys2d.DefaultFilter, phys2d.DefaultFilter, true},
	}
	for _, tc := range cases {
		if got := tc.a.ShouldCollide(tc.b); got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		// Symmetry.
		if got := tc.b.ShouldCollide(tc.a); got != tc.want {
			t.Errorf("%s (swapped): got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestNegativeGroupPassesThrough(t *testing.T) {
	world, floor := groundedWorld(t)
	floor.SetGroupIndex(-7)

	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 2.0})
	s := attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)
	s.SetGroupIndex(-7)

	stepN(t, world, 120)
	if ball.Position().Y > -1.0 {
		t.Fatalf("ball should have fallen through the floor, y = %v", ball.Position().Y)
	}
}

func TestPositiveGroupForcesCollision(t *testing.T) {
	world, floor := groundedWorld(t)
	// Disjoint bitmasks that would never collide on their own.
	floor.SetFilter(phys2d.Filter{CategoryBits: 0x10, CollisionBits: 0x10, GroupIndex: 7})

	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 2.0})
	s := attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)
	s.SetFilter(phys2d.Filter{CategoryBits: 0x20, CollisionBits: 0x20, GroupIndex: 7})

	stepN(t, world, 180)
	if ball.Position().Y < 0.3 {
		t.Fatalf("ball should rest on the floor, y = %v", ball.Position().Y)
	}
}

func TestRefilterDropsExistingContact(t *testing.T) {
	world, _ := groundedWorld(t)
	ball := world.CreateDynamicBody(phys2d.Vec2{Y: 2.0})
	s := attachCircle(t, ball, 0.5, phys2d.Vec2{}, phys2d.DefaultMaterial)

	stepN(t, world, 120)
	if ball.Position().Y < 0.3 {
		t.Fatalf("ball should be resting, y = %v", ball.Position().Y)
	}

	// Changing the filter mid-simulation lets the ball drop through.
	s.SetCollisionBitmask(0x0)
	stepN(t, world, 120)
	if ball.Position().Y > -1.0 {
		t.Fatalf("refiltered ball should fall through, y = %v", ball.Position().Y)
	}
}
