package phys2d

import "sort"

// PointQueryResult is one shape found near a query point. Point is the
// closest point on the shape's surface and Distance its distance from the
// query point; both are zero-distance when the shape contains the point.
type PointQueryResult struct {
	Shape    *Shape
	Point    Vec2
	Distance float64
}

// PointQuery returns every shape within maxDistance of the given point,
// nearest first. A maxDistance of zero finds only shapes containing the
// point.
func (w *World) PointQuery(point Vec2, maxDistance float64) []PointQueryResult {
	var results []PointQueryResult

	bb := AABB{
		Lower: point.Sub(Vec2{X: maxDistance, Y: maxDistance}),
		Upper: point.Add(Vec2{X: maxDistance, Y: maxDistance}),
	}
	seen := make(map[*Shape]bool)
	w.broadPhase.Query(bb, func(data *shapeProxy) bool {
		s := data.shape
		if seen[s] || s.body == nil {
			return true
		}
		seen[s] = true

		xf := s.body.xf
		if s.kind.Solid() && s.TestPoint(xf, point) {
			results = append(results, PointQueryResult{Shape: s, Point: point})
			return true
		}
		closest, dist := s.closestPoint(xf, point)
		if dist <= maxDistance {
			results = append(results, PointQueryResult{Shape: s, Point: closest, Distance: dist})
		}
		return true
	})

	// Stable so equidistant shapes keep their broad-phase traversal order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	return results
}

// PointQueryNearest returns the single closest shape within maxDistance,
// reporting false when nothing is in range.
func (w *World) PointQueryNearest(point Vec2, maxDistance float64) (PointQueryResult, bool) {
	results := w.PointQuery(point, maxDistance)
	if len(results) == 0 {
		return PointQueryResult{}, false
	}
	return results[0], true
}

// RayCastInfo describes one ray hit: the shape, the world-space entry
// point, the outward surface normal there, and the fraction along the ray
// from start to end.
type RayCastInfo struct {
	Shape    *Shape
	Point    Vec2
	Normal   Vec2
	Fraction float64
}

// RayCastCallback is invoked once per hit shape. Return true to keep
// scanning, false to stop early. Hits arrive in no particular order; use
// RayCastClosest for nearest-first needs.
type RayCastCallback func(w *World, info RayCastInfo, userData interface{}) bool

// RayCast walks every shape intersecting the segment from start to end.
func (w *World) RayCast(start, end Vec2, userData interface{}, callback RayCastCallback) {
	input := RayCastInput{P1: start, P2: end, MaxFraction: 1.0}
	w.broadPhase.RayCast(input, func(sub RayCastInput, data *shapeProxy) float64 {
		s := data.shape
		if s.body == nil {
			return sub.MaxFraction
		}
		var output RayCastOutput
		if !s.RayCast(&output, sub, s.body.xf, data.childIndex) {
			return sub.MaxFraction
		}
		info := RayCastInfo{
			Shape:    s,
			Point:    start.Add(end.Sub(start).Scale(output.Fraction)),
			Normal:   output.Normal,
			Fraction: output.Fraction,
		}
		if !callback(w, info, userData) {
			return 0.0 // stop the traversal
		}
		return sub.MaxFraction
	})
}

// RayCastClosest returns the nearest hit along the segment, reporting
// false when the ray hits nothing.
func (w *World) RayCastClosest(start, end Vec2) (RayCastInfo, bool) {
	var best RayCastInfo
	found := false

	input := RayCastInput{P1: start, P2: end, MaxFraction: 1.0}
	w.broadPhase.RayCast(input, func(sub RayCastInput, data *shapeProxy) float64 {
		s := data.shape
		if s.body == nil {
			return sub.MaxFraction
		}
		var output RayCastOutput
		if !s.RayCast(&output, sub, s.body.xf, data.childIndex) {
			return sub.MaxFraction
		}
		if !found || output.Fraction < best.Fraction {
			found = true
			best = RayCastInfo{
				Shape:    s,
				Point:    start.Add(end.Sub(start).Scale(output.Fraction)),
				Normal:   output.Normal,
				Fraction: output.Fraction,
			}
		}
		// Clip the remaining traversal to the nearest hit so far.
		return output.Fraction
	})
	return best, found
}

// RectQueryCallback is invoked once per shape whose fat AABB overlaps the
// rectangle. Return true to keep scanning, false to stop early.
type RectQueryCallback func(w *World, s *Shape, userData interface{}) bool

// RectQuery visits every shape whose bounding box overlaps the rectangle.
// This is broad-phase precision: a superset of the shapes whose exact
// geometry intersects it.
func (w *World) RectQuery(rect AABB, userData interface{}, callback RectQueryCallback) {
	seen := make(map[*Shape]bool)
	w.broadPhase.Query(rect, func(data *shapeProxy) bool {
		s := data.shape
		if seen[s] {
			return true
		}
		seen[s] = true
		return callback(w, s, userData)
	})
}
