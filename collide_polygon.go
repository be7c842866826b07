package phys2d

import "math"

// polyView presents a convex vertex/normal list to the SAT code. Solid
// polygons expose their hull; a segment child is viewed as a two-vertex
// polygon with opposing normals, which lets every polygon/segment pairing
// share one collision routine.
type polyView struct {
	verts  []Vec2
	norms  []Vec2
	radius float64
}

func (s *Shape) polyViewOf(childIndex int) polyView {
	if s.kind.class() == classPolygon {
		return polyView{verts: s.vertices, norms: s.normals, radius: s.radius}
	}
	a, b := s.child(childIndex)
	e := b.Sub(a)
	n := CrossVS(e, 1.0)
	n.Normalize()
	return polyView{
		verts:  []Vec2{a, b},
		norms:  []Vec2{n, n.Neg()},
		radius: s.radius,
	}
}

// findMaxSeparation finds poly1's face with the largest separation from
// poly2, the core separating-axis query.
func findMaxSeparation(edgeIndex *int, poly1 polyView, xf1 Transform, poly2 polyView, xf2 Transform) float64 {
	// Work in poly2's frame.
	xf := InvMulTransform(xf2, xf1)

	bestIndex := 0
	maxSeparation := -math.MaxFloat64
	for i := range poly1.verts {
		n := RotVec(xf.Q, poly1.norms[i])
		v1 := TransformVec(xf, poly1.verts[i])

		si := math.MaxFloat64
		for _, v2 := range poly2.verts {
			sij := Dot(n, v2.Sub(v1))
			if sij < si {
				si = sij
			}
		}

		if si > maxSeparation {
			maxSeparation = si
			bestIndex = i
		}
	}

	*edgeIndex = bestIndex
	return maxSeparation
}

// findIncidentEdge picks the edge of poly2 most anti-parallel to the
// reference face normal of poly1.
func findIncidentEdge(c *[2]clipVertex, poly1 polyView, xf1 Transform, edge1 int, poly2 polyView, xf2 Transform) {
	normal1 := InvRotVec(xf2.Q, RotVec(xf1.Q, poly1.norms[edge1]))

	index := 0
	minDot := math.MaxFloat64
	for i := range poly2.norms {
		d := Dot(normal1, poly2.norms[i])
		if d < minDot {
			minDot = d
			index = i
		}
	}

	i1 := index
	i2 := (index + 1) % len(poly2.verts)

	c[0].v = TransformVec(xf2, poly2.verts[i1])
	c[0].id = contactFeature{
		IndexA: uint8(edge1),
		IndexB: uint8(i1),
		TypeA:  featureFace,
		TypeB:  featureVertex,
	}.id()

	c[1].v = TransformVec(xf2, poly2.verts[i2])
	c[1].id = contactFeature{
		IndexA: uint8(edge1),
		IndexB: uint8(i2),
		TypeA:  featureFace,
		TypeB:  featureVertex,
	}.id()
}

// collidePolyViews clips the incident edge of one convex against the
// reference face of the other, producing up to two contact points. The
// reference shape is the one with the larger separating axis, biased
// toward A for frame coherence.
func collidePolyViews(manifold *Manifold, polyA polyView, xfA Transform, polyB polyView, xfB Transform) {
	manifold.PointCount = 0
	totalRadius := polyA.radius + polyB.radius

	var edgeA int
	separationA := findMaxSeparation(&edgeA, polyA, xfA, polyB, xfB)
	if separationA > totalRadius {
		return
	}

	var edgeB int
	separationB := findMaxSeparation(&edgeB, polyB, xfB, polyA, xfA)
	if separationB > totalRadius {
		return
	}

	var poly1, poly2 polyView
	var xf1, xf2 Transform
	var edge1 int
	flip := false

	const relativeTol = 0.98
	const absoluteTol = 0.001

	if separationB > relativeTol*separationA+absoluteTol {
		poly1, poly2 = polyB, polyA
		xf1, xf2 = xfB, xfA
		edge1 = edgeB
		manifold.Type = manifoldFaceB
		flip = true
	} else {
		poly1, poly2 = polyA, polyB
		xf1, xf2 = xfA, xfB
		edge1 = edgeA
		manifold.Type = manifoldFaceA
	}

	var incidentEdge [2]clipVertex
	findIncidentEdge(&incidentEdge, poly1, xf1, edge1, poly2, xf2)

	iv1 := edge1
	iv2 := (edge1 + 1) % len(poly1.verts)

	v11 := poly1.verts[iv1]
	v12 := poly1.verts[iv2]

	localTangent := v12.Sub(v11)
	localTangent.Normalize()

	localNormal := CrossVS(localTangent, 1.0)
	planePoint := v11.Add(v12).Scale(0.5)

	tangent := RotVec(xf1.Q, localTangent)
	normal := CrossVS(tangent, 1.0)

	w11 := TransformVec(xf1, v11)
	w12 := TransformVec(xf1, v12)

	frontOffset := Dot(normal, w11)
	sideOffset1 := -Dot(tangent, w11) + totalRadius
	sideOffset2 := Dot(tangent, w12) + totalRadius

	var clipPoints1, clipPoints2 [2]clipVertex
	if clipSegmentToLine(&clipPoints1, incidentEdge, tangent.Neg(), sideOffset1, iv1) < 2 {
		return
	}
	if clipSegmentToLine(&clipPoints2, clipPoints1, tangent, sideOffset2, iv2) < 2 {
		return
	}

	manifold.LocalNormal = localNormal
	manifold.LocalPoint = planePoint

	pointCount := 0
	for i := 0; i < maxManifoldPoints; i++ {
		separation := Dot(normal, clipPoints2[i].v) - frontOffset
		if separation > totalRadius {
			continue
		}
		cp := &manifold.Points[pointCount]
		cp.LocalPoint = InvTransformVec(xf2, clipPoints2[i].v)
		cp.ID = clipPoints2[i].id
		if flip {
			// Swap the features so the id is stable regardless of which
			// shape supplied the reference face.
			cf := cp.ID.feature()
			cf.IndexA, cf.IndexB = cf.IndexB, cf.IndexA
			cf.TypeA, cf.TypeB = cf.TypeB, cf.TypeA
			cp.ID = cf.id()
		}
		pointCount++
	}
	manifold.PointCount = pointCount
}

// collidePolygons is the solid polygon/polygon entry point.
func collidePolygons(manifold *Manifold, polyA *Shape, xfA Transform, polyB *Shape, xfB Transform) {
	collidePolyViews(manifold, polyA.polyViewOf(0), xfA, polyB.polyViewOf(0), xfB)
}
