package phys2d_test

import (
	"testing"

	"github.com/stonejiang208/phys2d"
)

func queryScene(t *testing.T) (*phys2d.World, *phys2d.Shape, *phys2d.Shape) {
	t.Helper()
	world := phys2d.NewWorld(phys2d.Vec2{})

	left := world.CreateStaticBody(phys2d.Vec2{X: -3.0})
	leftShape := attachCircle(t, left, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial)

	right := world.CreateStaticBody(phys2d.Vec2{X: 3.0})
	rightShape := attachBox(t, right, 2.0, 2.0, phys2d.DefaultMaterial)

	return world, leftShape, rightShape
}

func TestPointQueryContainingShape(t *testing.T) {
	world, leftShape, rightShape := queryScene(t)

	results := world.PointQuery(phys2d.Vec2{X: -3.0}, 0.0)
	if len(results) != 1 || results[0].Shape != leftShape {
		t.Fatalf("results = %+v, want only the circle", results)
	}
	if results[0].Distance != 0.0 {
		t.Fatalf("containing shape at distance %v", results[0].Distance)
	}

	results = world.PointQuery(phys2d.Vec2{X: 3.0, Y: 0.5}, 0.0)
	if len(results) != 1 || results[0].Shape != rightShape {
		t.Fatalf("results = %+v, want only the box", results)
	}
}

func TestPointQueryNearestWithinRadius(t *testing.T) {
	world, leftShape, _ := queryScene(t)

	// 0.5 outside the circle's surface.
	res, ok := world.PointQueryNearest(phys2d.Vec2{X: -4.5}, 1.0)
	if !ok {
		t.Fatal("nearest query found nothing")
	}
	if res.Shape != leftShape {
		t.Fatal("nearest query found the wrong shape")
	}
	if !near(res.Distance, 0.5, 1e-6) {
		t.Fatalf("distance = %v, want 0.5", res.Distance)
	}
	if !nearVec(res.Point, phys2d.Vec2{X: -4.0}, 1e-6) {
		t.Fatalf("closest point = %+v, want (-4, 0)", res.Point)
	}

	if _, ok := world.PointQueryNearest(phys2d.Vec2{X: -4.5}, 0.2); ok {
		t.Fatal("query radius 0.2 should miss")
	}
}

func TestPointQueryOrdersByDistance(t *testing.T) {
	world, leftShape, rightShape := queryScene(t)

	// Closer to the box than the circle.
	results := world.PointQuery(phys2d.Vec2{X: 1.0}, 10.0)
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Shape != rightShape || results[1].Shape != leftShape {
		t.Fatal("results not ordered nearest first")
	}
}

func TestPointQueryTieOrderIsStable(t *testing.T) {
	world := phys2d.NewWorld(phys2d.Vec2{})
	left := world.CreateStaticBody(phys2d.Vec2{X: -2.0})
	attachCircle(t, left, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial)
	right := world.CreateStaticBody(phys2d.Vec2{X: 2.0})
	attachCircle(t, right, 1.0, phys2d.Vec2{}, phys2d.DefaultMaterial)

	first := world.PointQuery(phys2d.Vec2{}, 5.0)
	if len(first) != 2 {
		t.Fatalf("results = %d, want 2", len(first))
	}
	if !near(first[0].Distance, first[1].Distance, 1e-12) {
		t.Fatalf("scene should tie: %v vs %v", first[0].Distance, first[1].Distance)
	}
	// Equidistant shapes keep one fixed order across repeated queries.
	for i := 0; i < 8; i++ {
		again := world.PointQuery(phys2d.Vec2{}, 5.0)
		if len(again) != 2 || again[0].Shape != first[0].Shape || again[1].Shape != first[1].Shape {
			t.Fatal("equidistant result order changed between queries")
		}
	}
}

func TestRayCastClosestAgainstCircle(t *testing.T) {
	world, leftShape, _ := queryScene(t)

	info, ok := world.RayCastClosest(phys2d.Vec2{X: -8.0}, phys2d.Vec2{X: 2.0})
	if !ok {
		t.Fatal("ray missed everything")
	}
	if info.Shape != leftShape {
		t.Fatal("ray hit the wrong shape")
	}
	// Circle at (-3, 0) radius 1: entry at (-4, 0).
	if !nearVec(info.Point, phys2d.Vec2{X: -4.0}, 1e-6) {
		t.Fatalf("hit point = %+v", info.Point)
	}
	if !nearVec(info.Normal, phys2d.Vec2{X: -1.0}, 1e-6) {
		t.Fatalf("normal = %+v", info.Normal)
	}
	if !near(info.Point.Sub(phys2d.Vec2{X: -3.0}).Length(), 1.0, 1e-6) {
		t.Fatalf("hit point not on the circle surface")
	}
	if !near(info.Fraction, 0.4, 1e-6) {
		t.Fatalf("fraction = %v, want 0.4", info.Fraction)
	}
}

func TestRayCastVisitsAllAndStopsEarly(t *testing.T) {
	world, _, _ := queryScene(t)

	hits := 0
	world.RayCast(phys2d.Vec2{X: -8.0}, phys2d.Vec2{X: 8.0}, nil, func(w *phys2d.World, info phys2d.RayCastInfo, data interface{}) bool {
		hits++
		return true
	})
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}

	hits = 0
	world.RayCast(phys2d.Vec2{X: -8.0}, phys2d.Vec2{X: 8.0}, nil, func(w *phys2d.World, info phys2d.RayCastInfo, data interface{}) bool {
		hits++
		return false
	})
	if hits != 1 {
		t.Fatalf("early stop visited %d shapes", hits)
	}
}

func TestRayCastMiss(t *testing.T) {
	world, _, _ := queryScene(t)
	if _, ok := world.RayCastClosest(phys2d.Vec2{X: -8.0, Y: 5.0}, phys2d.Vec2{X: 8.0, Y: 5.0}); ok {
		t.Fatal("ray above the scene should miss")
	}
}

func TestRayCastPassesUserData(t *testing.T) {
	world, _, _ := queryScene(t)

	payload := "marker"
	var got interface{}
	world.RayCast(phys2d.Vec2{X: -8.0}, phys2d.Vec2{X: 8.0}, payload, func(w *phys2d.World, info phys2d.RayCastInfo, data interface{}) bool {
		got = data
		return false
	})
	if got != payload {
		t.Fatalf("user data = %v", got)
	}
}

func TestRectQueryIsASuperset(t *testing.T) {
	world, leftShape, rightShape := queryScene(t)

	found := map[*phys2d.Shape]bool{}
	rect := phys2d.AABB{Lower: phys2d.Vec2{X: -10.0, Y: -1.0}, Upper: phys2d.Vec2{X: 10.0, Y: 1.0}}
	world.RectQuery(rect, nil, func(w *phys2d.World, s *phys2d.Shape, data interface{}) bool {
		found[s] = true
		return true
	})
	if !found[leftShape] || !found[rightShape] {
		t.Fatalf("rect query missed a shape: %v", found)
	}

	// A rect far away finds nothing.
	count := 0
	far := phys2d.AABB{Lower: phys2d.Vec2{X: 100.0, Y: 100.0}, Upper: phys2d.Vec2{X: 101.0, Y: 101.0}}
	world.RectQuery(far, nil, func(w *phys2d.World, s *phys2d.Shape, data interface{}) bool {
		count++
		return true
	})
	if count != 0 {
		t.Fatalf("far rect matched %d shapes", count)
	}
}

func TestRectQueryEarlyStop(t *testing.T) {
	world, _, _ := queryScene(t)

	count := 0
	rect := phys2d.AABB{Lower: phys2d.Vec2{X: -10.0, Y: -1.0}, Upper: phys2d.Vec2{X: 10.0, Y: 1.0}}
	world.RectQuery(rect, nil, func(w *phys2d.World, s *phys2d.Shape, data interface{}) bool {
		count++
		return false
	})
	if count != 1 {
		t.Fatalf("early stop visited %d shapes", count)
	}
}
