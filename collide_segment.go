package phys2d

// collideSegmentAndCircle handles one segment child against a circle using
// Voronoi regions: behind either endpoint the contact is vertex-vertex, in
// the middle it is face-vertex.
func collideSegmentAndCircle(manifold *Manifold, segA *Shape, childIndex int, xfA Transform, circleB *Shape, xfB Transform) {
	manifold.PointCount = 0

	// Circle center in the segment's frame.
	q := InvTransformVec(xfA, TransformVec(xfB, circleB.center))

	a, b := segA.child(childIndex)
	e := b.Sub(a)

	radius := segA.radius + circleB.radius

	u := Dot(e, b.Sub(q))
	v := Dot(e, q.Sub(a))

	var p Vec2
	var id contactID
	switch {
	case v <= 0.0:
		p = a
		id = contactFeature{IndexA: 0, TypeA: featureVertex, TypeB: featureVertex}.id()
	case u <= 0.0:
		p = b
		id = contactFeature{IndexA: 1, TypeA: featureVertex, TypeB: featureVertex}.id()
	default:
		den := Dot(e, e)
		p = a.Scale(u).Add(b.Scale(v)).Scale(1.0 / den)
		id = contactFeature{TypeA: featureFace, TypeB: featureVertex}.id()
	}

	d := q.Sub(p)
	if Dot(d, d) > radius*radius {
		return
	}

	manifold.Type = manifoldFaceA
	n := d
	if n.Normalize() == 0.0 {
		// Center exactly on the segment; fall back to the segment normal.
		n = CrossVS(e, 1.0)
		n.Normalize()
	}
	manifold.LocalNormal = n
	manifold.LocalPoint = p
	manifold.PointCount = 1
	manifold.Points[0].LocalPoint = circleB.center
	manifold.Points[0].ID = id
}

// collideSegmentAndPolygon runs the polygon clipper with the segment child
// viewed as a two-vertex polygon.
func collideSegmentAndPolygon(manifold *Manifold, segA *Shape, childIndex int, xfA Transform, polyB *Shape, xfB Transform) {
	collidePolyViews(manifold, segA.polyViewOf(childIndex), xfA, polyB.polyViewOf(0), xfB)
}
