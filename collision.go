package phys2d

import "math"

// AABB is an axis-aligned bounding box.
type AABB struct {
	Lower Vec2
	Upper Vec2
}

func MakeAABB(lower, upper Vec2) AABB {
	return AABB{Lower: lower, Upper: upper}
}

func (bb AABB) IsValid() bool {
	d := bb.Upper.Sub(bb.Lower)
	return d.X >= 0.0 && d.Y >= 0.0 && bb.Lower.IsValid() && bb.Upper.IsValid()
}

func (bb AABB) Center() Vec2 {
	return bb.Lower.Add(bb.Upper).Scale(0.5)
}

func (bb AABB) Extents() Vec2 {
	return bb.Upper.Sub(bb.Lower).Scale(0.5)
}

// Perimeter is the tree's surface-area metric in 2D.
func (bb AABB) Perimeter() float64 {
	return 2.0 * ((bb.Upper.X - bb.Lower.X) + (bb.Upper.Y - bb.Lower.Y))
}

func (bb AABB) Contains(other AABB) bool {
	return bb.Lower.X <= other.Lower.X && bb.Lower.Y <= other.Lower.Y &&
		other.Upper.X <= bb.Upper.X && other.Upper.Y <= bb.Upper.Y
}

func (bb AABB) ContainsPoint(p Vec2) bool {
	return bb.Lower.X <= p.X && p.X <= bb.Upper.X && bb.Lower.Y <= p.Y && p.Y <= bb.Upper.Y
}

func CombineAABB(a, b AABB) AABB {
	return AABB{Lower: MinVec2(a.Lower, b.Lower), Upper: MaxVec2(a.Upper, b.Upper)}
}

func TestOverlapAABB(a, b AABB) bool {
	if b.Lower.X-a.Upper.X > 0.0 || b.Lower.Y-a.Upper.Y > 0.0 {
		return false
	}
	if a.Lower.X-b.Upper.X > 0.0 || a.Lower.Y-b.Upper.Y > 0.0 {
		return false
	}
	return true
}

// RayCastInput is a directed segment from P1 toward P2, truncated at
// MaxFraction of the way.
type RayCastInput struct {
	P1, P2      Vec2
	MaxFraction float64
}

// RayCastOutput reports a hit at P1 + Fraction*(P2-P1) with the surface
// normal at that point.
type RayCastOutput struct {
	Normal   Vec2
	Fraction float64
}

// RayCast intersects the segment with the box using the slab method. Used
// by the dynamic tree to prune ray queries.
func (bb AABB) RayCast(output *RayCastOutput, input RayCastInput) bool {
	tmin := -math.MaxFloat64
	tmax := math.MaxFloat64

	p := input.P1
	d := input.P2.Sub(input.P1)
	var normal Vec2

	for i := 0; i < 2; i++ {
		var pi, di, lo, hi float64
		if i == 0 {
			pi, di, lo, hi = p.X, d.X, bb.Lower.X, bb.Upper.X
		} else {
			pi, di, lo, hi = p.Y, d.Y, bb.Lower.Y, bb.Upper.Y
		}

		if math.Abs(di) < 1e-12 {
			if pi < lo || hi < pi {
				return false
			}
			continue
		}

		inv := 1.0 / di
		t1 := (lo - pi) * inv
		t2 := (hi - pi) * inv
		s := -1.0
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1.0
		}
		if t1 > tmin {
			normal.SetZero()
			if i == 0 {
				normal.X = s
			} else {
				normal.Y = s
			}
			tmin = t1
		}
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}

	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	output.Fraction = tmin
	output.Normal = normal
	return true
}

// Contact feature types, used to build the id that matches manifold points
// across steps for warm starting.
const (
	featureVertex = 0
	featureFace   = 1
)

// contactFeature identifies which vertices/faces of each shape produced a
// contact point.
type contactFeature struct {
	IndexA uint8
	IndexB uint8
	TypeA  uint8
	TypeB  uint8
}

// contactID is a contactFeature packed for cheap comparison.
type contactID uint32

func (cf contactFeature) id() contactID {
	return contactID(uint32(cf.IndexA) | uint32(cf.IndexB)<<8 | uint32(cf.TypeA)<<16 | uint32(cf.TypeB)<<24)
}

func (id contactID) feature() contactFeature {
	return contactFeature{
		IndexA: uint8(id),
		IndexB: uint8(id >> 8),
		TypeA:  uint8(id >> 16),
		TypeB:  uint8(id >> 24),
	}
}

// ManifoldPoint stores contact geometry in the frame the manifold type
// dictates, plus the accumulated impulses persisted across steps for warm
// starting.
type ManifoldPoint struct {
	LocalPoint     Vec2
	NormalImpulse  float64
	TangentImpulse float64
	ID             contactID
}

type manifoldType uint8

const (
	manifoldCircles manifoldType = iota
	manifoldFaceA
	manifoldFaceB
)

// Manifold describes the overlap of two shapes in local coordinates so it
// stays valid while the bodies move between narrow-phase updates.
//
//	circles: LocalPoint is circle A's center, points store circle B's center
//	faceA:   LocalNormal and LocalPoint are on A, points are on B
//	faceB:   LocalNormal and LocalPoint are on B, points are on A
type Manifold struct {
	Points      [maxManifoldPoints]ManifoldPoint
	LocalNormal Vec2
	LocalPoint  Vec2
	Type        manifoldType
	PointCount  int
}

// WorldManifold is a manifold evaluated at concrete body transforms:
// a shared world normal, world contact points and signed separations
// (negative while penetrating).
type WorldManifold struct {
	Normal      Vec2
	Points      [maxManifoldPoints]Vec2
	Separations [maxManifoldPoints]float64
}

// Initialize evaluates a local manifold at the given transforms and shape
// radii.
func (wm *WorldManifold) Initialize(manifold *Manifold, xfA Transform, radiusA float64, xfB Transform, radiusB float64) {
	if manifold.PointCount == 0 {
		return
	}

	switch manifold.Type {
	case manifoldCircles:
		wm.Normal = Vec2{1.0, 0.0}
		pointA := TransformVec(xfA, manifold.LocalPoint)
		pointB := TransformVec(xfB, manifold.Points[0].LocalPoint)
		if pointB.Sub(pointA).LengthSquared() > 1e-24 {
			wm.Normal = pointB.Sub(pointA)
			wm.Normal.Normalize()
		}
		cA := pointA.Add(wm.Normal.Scale(radiusA))
		cB := pointB.Sub(wm.Normal.Scale(radiusB))
		wm.Points[0] = cA.Add(cB).Scale(0.5)
		wm.Separations[0] = Dot(cB.Sub(cA), wm.Normal)

	case manifoldFaceA:
		wm.Normal = RotVec(xfA.Q, manifold.LocalNormal)
		planePoint := TransformVec(xfA, manifold.LocalPoint)
		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec(xfB, manifold.Points[i].LocalPoint)
			cA := clipPoint.Add(wm.Normal.Scale(radiusA - Dot(clipPoint.Sub(planePoint), wm.Normal)))
			cB := clipPoint.Sub(wm.Normal.Scale(radiusB))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = Dot(cB.Sub(cA), wm.Normal)
		}

	case manifoldFaceB:
		wm.Normal = RotVec(xfB.Q, manifold.LocalNormal)
		planePoint := TransformVec(xfB, manifold.LocalPoint)
		for i := 0; i < manifold.PointCount; i++ {
			clipPoint := TransformVec(xfA, manifold.Points[i].LocalPoint)
			cB := clipPoint.Add(wm.Normal.Scale(radiusB - Dot(clipPoint.Sub(planePoint), wm.Normal)))
			cA := clipPoint.Sub(wm.Normal.Scale(radiusA))
			wm.Points[i] = cA.Add(cB).Scale(0.5)
			wm.Separations[i] = Dot(cA.Sub(cB), wm.Normal)
		}
		// Ensure the normal points from A to B.
		wm.Normal = wm.Normal.Neg()
	}
}

// clipVertex is a vertex being clipped against a face, carrying its contact
// id through the clipping pipeline.
type clipVertex struct {
	v  Vec2
	id contactID
}

// clipSegmentToLine does Sutherland-Hodgman clipping of a two-point segment
// against the half-plane normal*x <= offset. Returns the number of output
// points (2 means the clipped segment survives).
func clipSegmentToLine(vOut *[2]clipVertex, vIn [2]clipVertex, normal Vec2, offset float64, vertexIndexA int) int {
	count := 0

	distance0 := Dot(normal, vIn[0].v) - offset
	distance1 := Dot(normal, vIn[1].v) - offset

	if distance0 <= 0.0 {
		vOut[count] = vIn[0]
		count++
	}
	if distance1 <= 0.0 {
		vOut[count] = vIn[1]
		count++
	}

	if distance0*distance1 < 0.0 {
		// The segment straddles the plane; emit the intersection vertex.
		interp := distance0 / (distance0 - distance1)
		vOut[count].v = vIn[0].v.Add(vIn[1].v.Sub(vIn[0].v).Scale(interp))
		vOut[count].id = contactFeature{
			IndexA: uint8(vertexIndexA),
			IndexB: vIn[0].id.feature().IndexB,
			TypeA:  featureVertex,
			TypeB:  featureFace,
		}.id()
		count++
	}

	return count
}
