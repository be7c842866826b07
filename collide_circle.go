package phys2d

// collideCircles builds the one-point manifold for two overlapping circles.
func collideCircles(manifold *Manifold, circleA *Shape, xfA Transform, circleB *Shape, xfB Transform) {
	manifold.PointCount = 0

	pA := TransformVec(xfA, circleA.center)
	pB := TransformVec(xfB, circleB.center)

	d := pB.Sub(pA)
	distSqr := Dot(d, d)
	r := circleA.radius + circleB.radius
	if distSqr > r*r {
		return
	}

	manifold.Type = manifoldCircles
	manifold.LocalPoint = circleA.center
	manifold.LocalNormal.SetZero()
	manifold.PointCount = 1
	manifold.Points[0].LocalPoint = circleB.center
	manifold.Points[0].ID = 0
}

// collidePolygonAndCircle tests the circle center against the polygon's
// face planes, then against the nearest face's vertex region.
func collidePolygonAndCircle(manifold *Manifold, polygonA *Shape, xfA Transform, circleB *Shape, xfB Transform) {
	manifold.PointCount = 0

	// Circle center in the polygon's frame.
	c := TransformVec(xfB, circleB.center)
	cLocal := InvTransformVec(xfA, c)

	normalIndex := 0
	separation := -1e308
	radius := polygonA.radius + circleB.radius
	vertexCount := len(polygonA.vertices)
	vertices := polygonA.vertices
	normals := polygonA.normals

	for i := 0; i < vertexCount; i++ {
		s := Dot(normals[i], cLocal.Sub(vertices[i]))
		if s > radius {
			return
		}
		if s > separation {
			separation = s
			normalIndex = i
		}
	}

	v1 := vertices[normalIndex]
	v2 := vertices[(normalIndex+1)%vertexCount]

	if separation < 1e-12 {
		// Center is inside the polygon.
		manifold.PointCount = 1
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = normals[normalIndex]
		manifold.LocalPoint = v1.Add(v2).Scale(0.5)
		manifold.Points[0].LocalPoint = circleB.center
		manifold.Points[0].ID = 0
		return
	}

	u1 := Dot(cLocal.Sub(v1), v2.Sub(v1))
	u2 := Dot(cLocal.Sub(v2), v1.Sub(v2))

	switch {
	case u1 <= 0.0:
		if cLocal.Sub(v1).LengthSquared() > radius*radius {
			return
		}
		manifold.PointCount = 1
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = cLocal.Sub(v1)
		manifold.LocalNormal.Normalize()
		manifold.LocalPoint = v1

	case u2 <= 0.0:
		if cLocal.Sub(v2).LengthSquared() > radius*radius {
			return
		}
		manifold.PointCount = 1
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = cLocal.Sub(v2)
		manifold.LocalNormal.Normalize()
		manifold.LocalPoint = v2

	default:
		faceCenter := v1.Add(v2).Scale(0.5)
		if Dot(cLocal.Sub(faceCenter), normals[normalIndex]) > radius {
			return
		}
		manifold.PointCount = 1
		manifold.Type = manifoldFaceA
		manifold.LocalNormal = normals[normalIndex]
		manifold.LocalPoint = faceCenter
	}

	manifold.Points[0].LocalPoint = circleB.center
	manifold.Points[0].ID = 0
}
