package phys2d

import "sort"

// proxyPair is a candidate colliding pair, ordered so a < b.
type proxyPair struct {
	a, b int
}

// broadPhase wraps the dynamic tree with a move buffer: proxies that moved
// since the last pair update are matched against the whole tree, which is
// sufficient to find every new overlap (an overlap can only appear if at
// least one participant moved).
type broadPhase struct {
	tree       *dynamicTree
	moveBuffer []int
	pairs      []proxyPair
}

func newBroadPhase() *broadPhase {
	return &broadPhase{tree: newDynamicTree()}
}

func (bp *broadPhase) CreateProxy(bb AABB, data *shapeProxy) int {
	id := bp.tree.CreateProxy(bb, data)
	bp.bufferMove(id)
	return id
}

func (bp *broadPhase) DestroyProxy(id int) {
	bp.unbufferMove(id)
	bp.tree.DestroyProxy(id)
}

func (bp *broadPhase) MoveProxy(id int, bb AABB, displacement Vec2) {
	if bp.tree.MoveProxy(id, bb, displacement) {
		bp.bufferMove(id)
	}
}

// TouchProxy forces the proxy into the next pair update, used when filters
// change without motion.
func (bp *broadPhase) TouchProxy(id int) {
	bp.bufferMove(id)
}

func (bp *broadPhase) bufferMove(id int) {
	bp.moveBuffer = append(bp.moveBuffer, id)
}

func (bp *broadPhase) unbufferMove(id int) {
	for i := range bp.moveBuffer {
		if bp.moveBuffer[i] == id {
			bp.moveBuffer[i] = nullNode
		}
	}
}

func (bp *broadPhase) data(id int) *shapeProxy { return bp.tree.data(id) }

func (bp *broadPhase) testOverlap(idA, idB int) bool {
	return TestOverlapAABB(bp.tree.fatAABB(idA), bp.tree.fatAABB(idB))
}

// UpdatePairs reports every new candidate pair involving a moved proxy,
// deduplicated and in deterministic order.
func (bp *broadPhase) UpdatePairs(callback func(a, b *shapeProxy)) {
	bp.pairs = bp.pairs[:0]

	for _, queryID := range bp.moveBuffer {
		if queryID == nullNode {
			continue
		}
		fat := bp.tree.fatAABB(queryID)
		bp.tree.Query(fat, func(id int) bool {
			if id == queryID {
				return true
			}
			// Both moved: let the lower id report the pair once.
			if bp.tree.wasMoved(id) && id < queryID {
				return true
			}
			a, b := id, queryID
			if a > b {
				a, b = b, a
			}
			bp.pairs = append(bp.pairs, proxyPair{a, b})
			return true
		})
	}

	for _, id := range bp.moveBuffer {
		if id != nullNode {
			bp.tree.clearMoved(id)
		}
	}
	bp.moveBuffer = bp.moveBuffer[:0]

	sort.Slice(bp.pairs, func(i, j int) bool {
		if bp.pairs[i].a != bp.pairs[j].a {
			return bp.pairs[i].a < bp.pairs[j].a
		}
		return bp.pairs[i].b < bp.pairs[j].b
	})

	var prev proxyPair = proxyPair{nullNode, nullNode}
	for _, p := range bp.pairs {
		if p == prev {
			continue
		}
		prev = p
		callback(bp.tree.data(p.a), bp.tree.data(p.b))
	}
}

// Query invokes the callback for every proxy whose fat AABB overlaps bb.
func (bp *broadPhase) Query(bb AABB, callback func(data *shapeProxy) bool) {
	bp.tree.Query(bb, func(id int) bool {
		return callback(bp.tree.data(id))
	})
}

// RayCast forwards to the tree, translating leaf ids to proxies.
func (bp *broadPhase) RayCast(input RayCastInput, callback func(sub RayCastInput, data *shapeProxy) float64) {
	bp.tree.RayCast(input, func(sub RayCastInput, id int) float64 {
		return callback(sub, bp.tree.data(id))
	})
}
