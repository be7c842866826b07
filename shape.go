package phys2d

import "math"

// ShapeKind tags the variant of a Shape. Collision work dispatches on the
// coarser shapeClass: a box collides as a polygon, every edge variant
// collides as a set of segments.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
	ShapePolygon
	ShapeSegment
	ShapeEdgeBox
	ShapeEdgePolygon
	ShapeEdgeChain
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeBox:
		return "box"
	case ShapePolygon:
		return "polygon"
	case ShapeSegment:
		return "segment"
	case ShapeEdgeBox:
		return "edge-box"
	case ShapeEdgePolygon:
		return "edge-polygon"
	case ShapeEdgeChain:
		return "edge-chain"
	}
	return "unknown"
}

type shapeClass uint8

const (
	classCircle shapeClass = iota
	classPolygon
	classSegment
)

func (k ShapeKind) class() shapeClass {
	switch k {
	case ShapeCircle:
		return classCircle
	case ShapeBox, ShapePolygon:
		return classPolygon
	default:
		return classSegment
	}
}

// Solid reports whether the kind encloses area. Hollow (edge/segment) kinds
// contribute no mass.
func (k ShapeKind) Solid() bool {
	return k == ShapeCircle || k == ShapeBox || k == ShapePolygon
}

// Shape is collision geometry attached to a body. One struct covers every
// kind; the unused fields of other kinds stay zero.
//
// Circle: center + radius. Polygon/box: convex hull vertices with outward
// normals and a skin radius. Segment/edge kinds: a vertex strip (closed for
// edge-box/edge-polygon and looped chains), one collision child per
// segment.
type Shape struct {
	kind ShapeKind
	body *Body

	material        Material
	filter          Filter
	contactTestBits uint32
	tag             int

	center   Vec2 // circle center / polygon centroid, in body-local space
	radius   float64
	vertices []Vec2
	normals  []Vec2
	loop     bool

	proxies []int // one broad-phase proxy id per collision child
}

type massData struct {
	mass   float64
	center Vec2
	i      float64 // moment about the body origin
}

// NewCircleShape builds a solid circle at the given body-local offset.
func NewCircleShape(radius float64, offset Vec2, material Material) (*Shape, error) {
	if radius <= 0.0 || !IsValidFloat(radius) {
		return nil, configErr("NewCircleShape", "radius must be positive, got %v", radius)
	}
	return &Shape{
		kind:     ShapeCircle,
		material: material,
		filter:   DefaultFilter,
		center:   offset,
		radius:   radius,
	}, nil
}

// NewBoxShape builds a solid axis-aligned box of the given size centered on
// the body-local offset.
func NewBoxShape(width, height float64, offset Vec2, material Material) (*Shape, error) {
	if width <= 0.0 || height <= 0.0 {
		return nil, configErr("NewBoxShape", "size must be positive, got %v x %v", width, height)
	}
	hw, hh := 0.5*width, 0.5*height
	s := &Shape{
		kind:     ShapeBox,
		material: material,
		filter:   DefaultFilter,
		center:   offset,
		radius:   skinRadius,
		vertices: []Vec2{
			offset.Add(Vec2{-hw, -hh}),
			offset.Add(Vec2{hw, -hh}),
			offset.Add(Vec2{hw, hh}),
			offset.Add(Vec2{-hw, hh}),
		},
		normals: []Vec2{{0.0, -1.0}, {1.0, 0.0}, {0.0, 1.0}, {-1.0, 0.0}},
	}
	return s, nil
}

// NewPolygonShape builds a solid convex polygon from the given body-local
// points. The convex hull of the points is used; degenerate input (fewer
// than 3 distinct hull vertices, near-zero area) is rejected.
func NewPolygonShape(points []Vec2, material Material) (*Shape, error) {
	hull, err := convexHull(points)
	if err != nil {
		return nil, err
	}
	n := len(hull)
	normals := make([]Vec2, n)
	for i := 0; i < n; i++ {
		edge := hull[(i+1)%n].Sub(hull[i])
		normal := CrossVS(edge, 1.0)
		normal.Normalize()
		normals[i] = normal
	}
	s := &Shape{
		kind:     ShapePolygon,
		material: material,
		filter:   DefaultFilter,
		radius:   skinRadius,
		vertices: hull,
		normals:  normals,
	}
	s.center = polygonCentroid(hull)
	return s, nil
}

// NewSegmentShape builds a single hollow segment between two body-local
// points.
func NewSegmentShape(a, b Vec2, material Material) (*Shape, error) {
	if a.Sub(b).LengthSquared() < linearSlop*linearSlop {
		return nil, configErr("NewSegmentShape", "endpoints are coincident")
	}
	return &Shape{
		kind:     ShapeSegment,
		material: material,
		filter:   DefaultFilter,
		radius:   skinRadius,
		vertices: []Vec2{a, b},
	}, nil
}

// NewEdgeBoxShape builds a hollow box outline.
func NewEdgeBoxShape(width, height float64, offset Vec2, material Material) (*Shape, error) {
	if width <= 0.0 || height <= 0.0 {
		return nil, configErr("NewEdgeBoxShape", "size must be positive, got %v x %v", width, height)
	}
	hw, hh := 0.5*width, 0.5*height
	s := &Shape{
		kind:     ShapeEdgeBox,
		material: material,
		filter:   DefaultFilter,
		radius:   skinRadius,
		vertices: []Vec2{
			offset.Add(Vec2{-hw, -hh}),
			offset.Add(Vec2{hw, -hh}),
			offset.Add(Vec2{hw, hh}),
			offset.Add(Vec2{-hw, hh}),
		},
		loop:   true,
		center: offset,
	}
	return s, nil
}

// NewEdgePolygonShape builds a hollow closed outline through the given
// points. Unlike NewPolygonShape the outline may be concave.
func NewEdgePolygonShape(points []Vec2, material Material) (*Shape, error) {
	if err := validateChain(points, "NewEdgePolygonShape", 3); err != nil {
		return nil, err
	}
	verts := make([]Vec2, len(points))
	copy(verts, points)
	return &Shape{
		kind:     ShapeEdgePolygon,
		material: material,
		filter:   DefaultFilter,
		radius:   skinRadius,
		vertices: verts,
		loop:     true,
	}, nil
}

// NewEdgeChainShape builds a hollow open or closed chain of segments.
func NewEdgeChainShape(points []Vec2, loop bool, material Material) (*Shape, error) {
	min := 2
	if loop {
		min = 3
	}
	if err := validateChain(points, "NewEdgeChainShape", min); err != nil {
		return nil, err
	}
	verts := make([]Vec2, len(points))
	copy(verts, points)
	return &Shape{
		kind:     ShapeEdgeChain,
		material: material,
		filter:   DefaultFilter,
		radius:   skinRadius,
		vertices: verts,
		loop:     loop,
	}, nil
}

func validateChain(points []Vec2, op string, min int) error {
	if len(points) < min {
		return configErr(op, "need at least %d points, got %d", min, len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].Sub(points[i-1]).LengthSquared() < linearSlop*linearSlop {
			return configErr(op, "points %d and %d are coincident", i-1, i)
		}
	}
	return nil
}

// convexHull computes the counter-clockwise hull by gift wrapping.
// Collinear points are dropped.
func convexHull(points []Vec2) ([]Vec2, error) {
	if len(points) < 3 {
		return nil, configErr("NewPolygonShape", "need at least 3 points, got %d", len(points))
	}
	if len(points) > maxPolygonVertices {
		return nil, configErr("NewPolygonShape", "too many points: %d > %d", len(points), maxPolygonVertices)
	}

	// Weld nearly coincident points.
	var ps []Vec2
	for _, p := range points {
		unique := true
		for _, q := range ps {
			if p.Sub(q).LengthSquared() < (0.5*linearSlop)*(0.5*linearSlop) {
				unique = false
				break
			}
		}
		if unique {
			ps = append(ps, p)
		}
	}
	if len(ps) < 3 {
		return nil, configErr("NewPolygonShape", "polygon is degenerate")
	}

	// Start from the rightmost point.
	i0 := 0
	for i := 1; i < len(ps); i++ {
		if ps[i].X > ps[i0].X || (ps[i].X == ps[i0].X && ps[i].Y < ps[i0].Y) {
			i0 = i
		}
	}

	var hullIdx []int
	ih := i0
	for {
		hullIdx = append(hullIdx, ih)
		ie := 0
		for j := 1; j < len(ps); j++ {
			if ie == ih {
				ie = j
				continue
			}
			r := ps[ie].Sub(ps[ih])
			v := ps[j].Sub(ps[ih])
			c := Cross(r, v)
			if c < 0.0 {
				ie = j
			}
			if c == 0.0 && v.LengthSquared() > r.LengthSquared() {
				ie = j
			}
		}
		ih = ie
		if ie == i0 {
			break
		}
		if len(hullIdx) > len(ps) {
			return nil, configErr("NewPolygonShape", "polygon is degenerate")
		}
	}
	if len(hullIdx) < 3 {
		return nil, configErr("NewPolygonShape", "hull collapsed to fewer than 3 vertices")
	}

	hull := make([]Vec2, len(hullIdx))
	for i, idx := range hullIdx {
		hull[i] = ps[idx]
	}
	if math.Abs(polygonArea(hull)) < linearSlop*linearSlop {
		return nil, configErr("NewPolygonShape", "polygon area is near zero")
	}
	return hull, nil
}

func polygonArea(verts []Vec2) float64 {
	area := 0.0
	for i := range verts {
		j := (i + 1) % len(verts)
		area += Cross(verts[i], verts[j])
	}
	return 0.5 * area
}

func polygonCentroid(verts []Vec2) Vec2 {
	var c Vec2
	area := 0.0
	// Triangulate around the mean point for numerical robustness.
	var ref Vec2
	for _, v := range verts {
		ref = ref.Add(v)
	}
	ref = ref.Scale(1.0 / float64(len(verts)))

	for i := range verts {
		p1 := verts[i].Sub(ref)
		p2 := verts[(i+1)%len(verts)].Sub(ref)
		a := 0.5 * Cross(p1, p2)
		area += a
		c = c.Add(p1.Add(p2).Scale(a / 3.0))
	}
	return ref.Add(c.Scale(1.0 / area))
}

// Kind returns the shape variant.
func (s *Shape) Kind() ShapeKind { return s.kind }

// Body returns the owning body, or nil before attachment.
func (s *Shape) Body() *Body { return s.body }

func (s *Shape) Material() Material { return s.material }

// SetMaterial replaces the material and refreshes the owning body's mass.
func (s *Shape) SetMaterial(m Material) {
	s.material = MakeMaterial(m.Density, m.Friction, m.Restitution)
	if s.body != nil {
		s.body.resetMassData()
	}
}

func (s *Shape) Filter() Filter { return s.filter }

// SetFilter replaces the whole collision filter and re-evaluates existing
// contacts on the next step.
func (s *Shape) SetFilter(f Filter) {
	s.filter = f
	s.refilter()
}

func (s *Shape) SetCategoryBitmask(bits uint32) {
	s.filter.CategoryBits = bits
	s.refilter()
}

func (s *Shape) SetCollisionBitmask(bits uint32) {
	s.filter.CollisionBits = bits
	s.refilter()
}

func (s *Shape) SetGroupIndex(group int32) {
	s.filter.GroupIndex = group
	s.refilter()
}

// SetContactTestBitmask controls listener event delivery for this shape's
// contacts. It does not affect collision solving.
func (s *Shape) SetContactTestBitmask(bits uint32) {
	s.contactTestBits = bits
}

func (s *Shape) ContactTestBitmask() uint32 { return s.contactTestBits }

func (s *Shape) Tag() int       { return s.tag }
func (s *Shape) SetTag(tag int) { s.tag = tag }

func (s *Shape) refilter() {
	if s.body == nil || s.body.world == nil {
		return
	}
	s.body.world.contactManager.flagForFiltering(s)
}

// childCount is the number of broad-phase/narrow-phase children: one for
// solid shapes and single segments, one per segment for chains.
func (s *Shape) childCount() int {
	switch s.kind.class() {
	case classSegment:
		if s.kind == ShapeSegment {
			return 1
		}
		if s.loop {
			return len(s.vertices)
		}
		return len(s.vertices) - 1
	default:
		return 1
	}
}

// child returns the endpoints of segment child i for edge-class shapes.
func (s *Shape) child(i int) (Vec2, Vec2) {
	a := s.vertices[i]
	b := s.vertices[(i+1)%len(s.vertices)]
	return a, b
}

// computeAABB returns the world bounds of child index under the given body
// transform.
func (s *Shape) computeAABB(xf Transform, childIndex int) AABB {
	switch s.kind.class() {
	case classCircle:
		p := TransformVec(xf, s.center)
		r := Vec2{s.radius, s.radius}
		return AABB{Lower: p.Sub(r), Upper: p.Add(r)}

	case classPolygon:
		lower := TransformVec(xf, s.vertices[0])
		upper := lower
		for _, v := range s.vertices[1:] {
			w := TransformVec(xf, v)
			lower = MinVec2(lower, w)
			upper = MaxVec2(upper, w)
		}
		r := Vec2{s.radius, s.radius}
		return AABB{Lower: lower.Sub(r), Upper: upper.Add(r)}

	default:
		a, b := s.child(childIndex)
		v1 := TransformVec(xf, a)
		v2 := TransformVec(xf, b)
		r := Vec2{s.radius, s.radius}
		return AABB{Lower: MinVec2(v1, v2).Sub(r), Upper: MaxVec2(v1, v2).Add(r)}
	}
}

// Radius returns the circle radius, or the rounding radius for other
// kinds.
func (s *Shape) Radius() float64 { return s.radius }

// Offset returns the circle center in body-local space; zero for other
// kinds.
func (s *Shape) Offset() Vec2 { return s.center }

// Vertices returns the body-local vertices of polygon- and edge-class
// shapes; nil for circles. The slice is the shape's own storage, do not
// mutate it.
func (s *Shape) Vertices() []Vec2 { return s.vertices }

// Loop reports whether an edge chain closes back on itself.
func (s *Shape) Loop() bool { return s.loop }

// AABB returns the world bounds of the whole shape at its body's current
// transform, all children combined. An unattached shape reports bounds at
// the origin.
func (s *Shape) AABB() AABB {
	xf := Transform{Q: rotIdentity}
	if s.body != nil {
		xf = s.body.xf
	}
	bb := s.computeAABB(xf, 0)
	for i := 1; i < s.childCount(); i++ {
		bb = CombineAABB(bb, s.computeAABB(xf, i))
	}
	return bb
}

// computeMass integrates density over the shape. Hollow kinds contribute
// nothing.
func (s *Shape) computeMass() massData {
	density := s.material.Density
	switch s.kind.class() {
	case classCircle:
		mass := density * pi * s.radius * s.radius
		return massData{
			mass:   mass,
			center: s.center,
			// Parallel-axis shift from the circle center to the body origin.
			i: mass * (0.5*s.radius*s.radius + Dot(s.center, s.center)),
		}

	case classPolygon:
		var center Vec2
		area := 0.0
		inertia := 0.0

		var ref Vec2
		for _, v := range s.vertices {
			ref = ref.Add(v)
		}
		ref = ref.Scale(1.0 / float64(len(s.vertices)))

		for i := range s.vertices {
			e1 := s.vertices[i].Sub(ref)
			e2 := s.vertices[(i+1)%len(s.vertices)].Sub(ref)

			d := Cross(e1, e2)
			triangleArea := 0.5 * d
			area += triangleArea
			center = center.Add(e1.Add(e2).Scale(triangleArea / 3.0))

			intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
			inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
			inertia += (0.25 / 3.0) * d * (intx2 + inty2)
		}

		mass := density * area
		center = ref.Add(center.Scale(1.0 / area))
		// Inertia about the reference point, shifted to the body origin.
		i := density*inertia + mass*(Dot(center, center)-Dot(center.Sub(ref), center.Sub(ref)))
		return massData{mass: mass, center: center, i: i}

	default:
		// Hollow kinds have zero area and zero mass contribution.
		return massData{center: s.chainCenter()}
	}
}

func (s *Shape) chainCenter() Vec2 {
	var c Vec2
	for _, v := range s.vertices {
		c = c.Add(v)
	}
	return c.Scale(1.0 / float64(len(s.vertices)))
}

// TestPoint reports whether a world-space point is inside the shape. Hollow
// kinds never contain a point.
func (s *Shape) TestPoint(xf Transform, p Vec2) bool {
	switch s.kind.class() {
	case classCircle:
		center := TransformVec(xf, s.center)
		d := p.Sub(center)
		return Dot(d, d) <= s.radius*s.radius

	case classPolygon:
		local := InvTransformVec(xf, p)
		for i, v := range s.vertices {
			if Dot(s.normals[i], local.Sub(v)) > 0.0 {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// closestPoint returns the closest point on the shape's surface (or inside
// it, for solid shapes containing p) to a world-space point, with the
// distance. Chains check every child segment.
func (s *Shape) closestPoint(xf Transform, p Vec2) (Vec2, float64) {
	switch s.kind.class() {
	case classCircle:
		center := TransformVec(xf, s.center)
		d := p.Sub(center)
		dist := d.Length()
		if dist <= s.radius {
			return p, 0.0
		}
		return center.Add(d.Scale(s.radius / dist)), dist - s.radius

	case classPolygon:
		local := InvTransformVec(xf, p)
		inside := true
		best := math.MaxFloat64
		var bestPoint Vec2
		for i, v := range s.vertices {
			if Dot(s.normals[i], local.Sub(v)) > 0.0 {
				inside = false
			}
			w := s.vertices[(i+1)%len(s.vertices)]
			cp := closestOnSegment(local, v, w)
			if d := cp.Sub(local).LengthSquared(); d < best {
				best = d
				bestPoint = cp
			}
		}
		if inside {
			return p, 0.0
		}
		return TransformVec(xf, bestPoint), math.Sqrt(best)

	default:
		local := InvTransformVec(xf, p)
		best := math.MaxFloat64
		var bestPoint Vec2
		for i := 0; i < s.childCount(); i++ {
			a, b := s.child(i)
			cp := closestOnSegment(local, a, b)
			if d := cp.Sub(local).LengthSquared(); d < best {
				best = d
				bestPoint = cp
			}
		}
		return TransformVec(xf, bestPoint), math.Sqrt(best)
	}
}

func closestOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	t := Dot(p.Sub(a), ab) / Dot(ab, ab)
	return a.Add(ab.Scale(Clamp(t, 0.0, 1.0)))
}

// RayCast intersects a world-space ray with child childIndex.
func (s *Shape) RayCast(output *RayCastOutput, input RayCastInput, xf Transform, childIndex int) bool {
	switch s.kind.class() {
	case classCircle:
		return s.rayCastCircle(output, input, xf)
	case classPolygon:
		return s.rayCastPolygon(output, input, xf)
	default:
		a, b := s.child(childIndex)
		return rayCastSegment(output, input, xf, a, b)
	}
}

func (s *Shape) rayCastCircle(output *RayCastOutput, input RayCastInput, xf Transform) bool {
	position := TransformVec(xf, s.center)
	d := input.P1.Sub(position)
	b := Dot(d, d) - s.radius*s.radius

	r := input.P2.Sub(input.P1)
	c := Dot(d, r)
	rr := Dot(r, r)
	sigma := c*c - rr*b

	if sigma < 0.0 || rr < 1e-12 {
		return false
	}

	t := -(c + math.Sqrt(sigma))
	if 0.0 <= t && t <= input.MaxFraction*rr {
		t /= rr
		output.Fraction = t
		output.Normal = d.Add(r.Scale(t))
		output.Normal.Normalize()
		return true
	}
	return false
}

func (s *Shape) rayCastPolygon(output *RayCastOutput, input RayCastInput, xf Transform) bool {
	p1 := InvTransformVec(xf, input.P1)
	p2 := InvTransformVec(xf, input.P2)
	d := p2.Sub(p1)

	lower, upper := 0.0, input.MaxFraction
	index := -1

	for i, v := range s.vertices {
		numerator := Dot(s.normals[i], v.Sub(p1))
		denominator := Dot(s.normals[i], d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			if denominator < 0.0 && numerator < lower*denominator {
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	if index >= 0 {
		output.Fraction = lower
		output.Normal = RotVec(xf.Q, s.normals[index])
		return true
	}
	return false
}

func rayCastSegment(output *RayCastOutput, input RayCastInput, xf Transform, a, b Vec2) bool {
	p1 := InvTransformVec(xf, input.P1)
	p2 := InvTransformVec(xf, input.P2)
	d := p2.Sub(p1)

	e := b.Sub(a)
	normal := Vec2{e.Y, -e.X}
	normal.Normalize()

	// p = p1 + t * d, dot(normal, p - a) = 0
	numerator := Dot(normal, a.Sub(p1))
	denominator := Dot(normal, d)
	if denominator == 0.0 {
		return false
	}

	t := numerator / denominator
	if t < 0.0 || input.MaxFraction < t {
		return false
	}

	q := p1.Add(d.Scale(t))

	// q = a + s * e
	ee := Dot(e, e)
	if ee == 0.0 {
		return false
	}
	sParam := Dot(q.Sub(a), e) / ee
	if sParam < 0.0 || 1.0 < sParam {
		return false
	}

	output.Fraction = t
	if numerator > 0.0 {
		normal = normal.Neg()
	}
	output.Normal = RotVec(xf.Q, normal)
	return true
}
