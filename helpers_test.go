package phys2d_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stonejiang208/phys2d"
)

func errorsAs(err error, target interface{}) bool {
	return err != nil && errors.As(err, target)
}

const stepDt = 1.0 / 60.0

func stepN(t *testing.T, world *phys2d.World, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := world.Step(stepDt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func attachCircle(t *testing.T, b *phys2d.Body, radius float64, offset phys2d.Vec2, m phys2d.Material) *phys2d.Shape {
	t.Helper()
	s, err := phys2d.NewCircleShape(radius, offset, m)
	if err != nil {
		t.Fatalf("NewCircleShape: %v", err)
	}
	if err := b.AttachShape(s); err != nil {
		t.Fatalf("AttachShape: %v", err)
	}
	return s
}

func attachBox(t *testing.T, b *phys2d.Body, width, height float64, m phys2d.Material) *phys2d.Shape {
	t.Helper()
	s, err := phys2d.NewBoxShape(width, height, phys2d.Vec2{}, m)
	if err != nil {
		t.Fatalf("NewBoxShape: %v", err)
	}
	if err := b.AttachShape(s); err != nil {
		t.Fatalf("AttachShape: %v", err)
	}
	return s
}

func attachSegment(t *testing.T, b *phys2d.Body, a, c phys2d.Vec2, m phys2d.Material) *phys2d.Shape {
	t.Helper()
	s, err := phys2d.NewSegmentShape(a, c, m)
	if err != nil {
		t.Fatalf("NewSegmentShape: %v", err)
	}
	if err := b.AttachShape(s); err != nil {
		t.Fatalf("AttachShape: %v", err)
	}
	return s
}

// groundedWorld is the standard test scene: gravity -10 and a wide static
// segment floor at y=0.
func groundedWorld(t *testing.T) (*phys2d.World, *phys2d.Shape) {
	t.Helper()
	world := phys2d.NewWorld(phys2d.Vec2{Y: -10.0})
	ground := world.CreateStaticBody(phys2d.Vec2{})
	floor := attachSegment(t, ground, phys2d.Vec2{X: -50.0}, phys2d.Vec2{X: 50.0}, phys2d.DefaultMaterial)
	return world, floor
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func nearVec(a, b phys2d.Vec2, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol)
}

// recorder counts contact lifecycle events and optionally vetoes them.
type recorder struct {
	begins, preSolves, postSolves, separates int

	allowBegin    func(c *phys2d.Contact) bool
	allowPreSolve func(c *phys2d.Contact) bool
}

func (r *recorder) OnContactBegin(c *phys2d.Contact) bool {
	r.begins++
	if r.allowBegin != nil {
		return r.allowBegin(c)
	}
	return true
}

func (r *recorder) OnContactPreSolve(c *phys2d.Contact) bool {
	r.preSolves++
	if r.allowPreSolve != nil {
		return r.allowPreSolve(c)
	}
	return true
}

func (r *recorder) OnContactPostSolve(c *phys2d.Contact) { r.postSolves++ }
func (r *recorder) OnContactSeparate(c *phys2d.Contact)  { r.separates++ }
