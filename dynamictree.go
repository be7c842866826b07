package phys2d

import "math"

const nullNode = -1

// shapeProxy is the payload stored per tree leaf: a shape plus the child
// index for multi-segment shapes.
type shapeProxy struct {
	shape      *Shape
	childIndex int
}

type treeNode struct {
	aabb AABB
	data *shapeProxy

	// parent doubles as the free-list next pointer.
	parent int
	child1 int
	child2 int
	height int // 0 for leaves, -1 for free nodes

	moved bool
}

func (n *treeNode) isLeaf() bool {
	return n.child1 == nullNode
}

// dynamicTree is a balanced binary tree of fattened AABBs. Leaves are
// shape proxies; internal nodes enclose their children. Insertion picks the
// sibling that minimizes surface-area growth and rebalances with rotations,
// so queries and ray casts stay logarithmic.
type dynamicTree struct {
	root     int
	nodes    []treeNode
	freeList int
}

func newDynamicTree() *dynamicTree {
	t := &dynamicTree{
		root:     nullNode,
		nodes:    make([]treeNode, 16),
		freeList: 0,
	}
	for i := range t.nodes {
		t.nodes[i].parent = i + 1
		t.nodes[i].height = -1
	}
	t.nodes[len(t.nodes)-1].parent = nullNode
	return t
}

func (t *dynamicTree) allocateNode() int {
	if t.freeList == nullNode {
		// Grow the pool, chaining the new nodes onto the free list.
		old := len(t.nodes)
		t.nodes = append(t.nodes, make([]treeNode, old)...)
		for i := old; i < len(t.nodes); i++ {
			t.nodes[i].parent = i + 1
			t.nodes[i].height = -1
		}
		t.nodes[len(t.nodes)-1].parent = nullNode
		t.freeList = old
	}

	id := t.freeList
	n := &t.nodes[id]
	t.freeList = n.parent
	n.parent = nullNode
	n.child1 = nullNode
	n.child2 = nullNode
	n.height = 0
	n.data = nil
	n.moved = false
	return id
}

func (t *dynamicTree) freeNode(id int) {
	t.nodes[id].parent = t.freeList
	t.nodes[id].height = -1
	t.nodes[id].data = nil
	t.freeList = id
}

// CreateProxy inserts a leaf with a fattened AABB and returns its id.
func (t *dynamicTree) CreateProxy(bb AABB, data *shapeProxy) int {
	id := t.allocateNode()
	r := Vec2{aabbExtension, aabbExtension}
	t.nodes[id].aabb = AABB{Lower: bb.Lower.Sub(r), Upper: bb.Upper.Add(r)}
	t.nodes[id].data = data
	t.nodes[id].moved = true
	t.insertLeaf(id)
	return id
}

func (t *dynamicTree) DestroyProxy(id int) {
	assert(t.nodes[id].isLeaf(), "DestroyProxy on internal node")
	t.removeLeaf(id)
	t.freeNode(id)
}

// MoveProxy updates a leaf's AABB. Returns true when the leaf had to be
// reinserted, i.e. the shape escaped its fattened bounds.
func (t *dynamicTree) MoveProxy(id int, bb AABB, displacement Vec2) bool {
	r := Vec2{aabbExtension, aabbExtension}
	fat := AABB{Lower: bb.Lower.Sub(r), Upper: bb.Upper.Add(r)}

	// Predict the motion direction so fast movers stay inside their fat
	// AABB a little longer.
	d := displacement.Scale(aabbMultiplier)
	if d.X < 0.0 {
		fat.Lower.X += d.X
	} else {
		fat.Upper.X += d.X
	}
	if d.Y < 0.0 {
		fat.Lower.Y += d.Y
	} else {
		fat.Upper.Y += d.Y
	}

	if t.nodes[id].aabb.Contains(bb) {
		// Shrink the fat bounds when the shape occupies a small fraction,
		// otherwise keep the tree untouched.
		huge := AABB{
			Lower: fat.Lower.Sub(Vec2{4.0 * aabbExtension, 4.0 * aabbExtension}),
			Upper: fat.Upper.Add(Vec2{4.0 * aabbExtension, 4.0 * aabbExtension}),
		}
		if huge.Contains(t.nodes[id].aabb) {
			return false
		}
	}

	t.removeLeaf(id)
	t.nodes[id].aabb = fat
	t.insertLeaf(id)
	t.nodes[id].moved = true
	return true
}

func (t *dynamicTree) data(id int) *shapeProxy { return t.nodes[id].data }
func (t *dynamicTree) fatAABB(id int) AABB     { return t.nodes[id].aabb }

func (t *dynamicTree) wasMoved(id int) bool { return t.nodes[id].moved }
func (t *dynamicTree) clearMoved(id int)    { t.nodes[id].moved = false }

func (t *dynamicTree) insertLeaf(leaf int) {
	if t.root == nullNode {
		t.root = leaf
		t.nodes[leaf].parent = nullNode
		return
	}

	// Find the best sibling by descending toward the least added surface
	// area.
	leafAABB := t.nodes[leaf].aabb
	index := t.root
	for !t.nodes[index].isLeaf() {
		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2

		area := t.nodes[index].aabb.Perimeter()
		combined := CombineAABB(t.nodes[index].aabb, leafAABB)
		combinedArea := combined.Perimeter()

		cost := 2.0 * combinedArea
		inheritance := 2.0 * (combinedArea - area)

		descend := func(child int) float64 {
			merged := CombineAABB(leafAABB, t.nodes[child].aabb)
			if t.nodes[child].isLeaf() {
				return merged.Perimeter() + inheritance
			}
			oldArea := t.nodes[child].aabb.Perimeter()
			return merged.Perimeter() - oldArea + inheritance
		}

		cost1 := descend(child1)
		cost2 := descend(child2)

		if cost < cost1 && cost < cost2 {
			break
		}
		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Splice a new parent between the sibling and its old parent.
	oldParent := t.nodes[sibling].parent
	newParent := t.allocateNode()
	t.nodes[newParent].parent = oldParent
	t.nodes[newParent].aabb = CombineAABB(leafAABB, t.nodes[sibling].aabb)
	t.nodes[newParent].height = t.nodes[sibling].height + 1

	if oldParent != nullNode {
		if t.nodes[oldParent].child1 == sibling {
			t.nodes[oldParent].child1 = newParent
		} else {
			t.nodes[oldParent].child2 = newParent
		}
	} else {
		t.root = newParent
	}
	t.nodes[newParent].child1 = sibling
	t.nodes[newParent].child2 = leaf
	t.nodes[sibling].parent = newParent
	t.nodes[leaf].parent = newParent

	t.fixUpward(t.nodes[leaf].parent)
}

func (t *dynamicTree) removeLeaf(leaf int) {
	if leaf == t.root {
		t.root = nullNode
		return
	}

	parent := t.nodes[leaf].parent
	grandParent := t.nodes[parent].parent
	var sibling int
	if t.nodes[parent].child1 == leaf {
		sibling = t.nodes[parent].child2
	} else {
		sibling = t.nodes[parent].child1
	}

	if grandParent != nullNode {
		if t.nodes[grandParent].child1 == parent {
			t.nodes[grandParent].child1 = sibling
		} else {
			t.nodes[grandParent].child2 = sibling
		}
		t.nodes[sibling].parent = grandParent
		t.freeNode(parent)
		t.fixUpward(grandParent)
	} else {
		t.root = sibling
		t.nodes[sibling].parent = nullNode
		t.freeNode(parent)
	}
}

// fixUpward rebalances and refits ancestors after an insertion or removal.
func (t *dynamicTree) fixUpward(index int) {
	for index != nullNode {
		index = t.balance(index)

		child1 := t.nodes[index].child1
		child2 := t.nodes[index].child2
		t.nodes[index].height = 1 + maxInt(t.nodes[child1].height, t.nodes[child2].height)
		t.nodes[index].aabb = CombineAABB(t.nodes[child1].aabb, t.nodes[child2].aabb)

		index = t.nodes[index].parent
	}
}

// balance performs one left or right rotation when node a's subtrees differ
// in height by more than one. Returns the new subtree root.
func (t *dynamicTree) balance(a int) int {
	if t.nodes[a].isLeaf() || t.nodes[a].height < 2 {
		return a
	}

	b := t.nodes[a].child1
	c := t.nodes[a].child2
	bal := t.nodes[c].height - t.nodes[b].height

	if bal > 1 {
		return t.rotate(a, c, b)
	}
	if bal < -1 {
		return t.rotate(a, b, c)
	}
	return a
}

// rotate lifts `up` above a, pushing a down onto up's shorter child.
func (t *dynamicTree) rotate(a, up, keep int) int {
	f := t.nodes[up].child1
	g := t.nodes[up].child2

	t.nodes[up].child1 = a
	t.nodes[up].parent = t.nodes[a].parent
	t.nodes[a].parent = up

	if t.nodes[up].parent != nullNode {
		p := t.nodes[up].parent
		if t.nodes[p].child1 == a {
			t.nodes[p].child1 = up
		} else {
			t.nodes[p].child2 = up
		}
	} else {
		t.root = up
	}

	if t.nodes[f].height > t.nodes[g].height {
		t.nodes[up].child2 = f
		t.replaceChild(a, up, g)
		t.nodes[g].parent = a
		t.refit(a, keep, g)
		t.refit(up, a, f)
	} else {
		t.nodes[up].child2 = g
		t.replaceChild(a, up, f)
		t.nodes[f].parent = a
		t.refit(a, keep, f)
		t.refit(up, a, g)
	}
	return up
}

func (t *dynamicTree) replaceChild(parent, old, new int) {
	if t.nodes[parent].child1 == old {
		t.nodes[parent].child1 = new
	} else {
		t.nodes[parent].child2 = new
	}
}

func (t *dynamicTree) refit(node, c1, c2 int) {
	t.nodes[node].aabb = CombineAABB(t.nodes[c1].aabb, t.nodes[c2].aabb)
	t.nodes[node].height = 1 + maxInt(t.nodes[c1].height, t.nodes[c2].height)
}

// Query invokes the callback for every leaf whose fat AABB overlaps bb.
// The callback returns false to stop early.
func (t *dynamicTree) Query(bb AABB, callback func(id int) bool) {
	stack := make([]int, 0, 64)
	stack = append(stack, t.root)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}

		node := &t.nodes[id]
		if !TestOverlapAABB(node.aabb, bb) {
			continue
		}
		if node.isLeaf() {
			if !callback(id) {
				return
			}
		} else {
			stack = append(stack, node.child1, node.child2)
		}
	}
}

// RayCast walks the tree along the segment p1->p2. The callback receives
// the current clipped input and the leaf id and returns a new max fraction:
// 0 terminates, 1 continues unclipped, anything else shortens the ray.
func (t *dynamicTree) RayCast(input RayCastInput, callback func(sub RayCastInput, id int) float64) {
	p1 := input.P1
	p2 := input.P2
	r := p2.Sub(p1)
	if r.LengthSquared() <= 0.0 {
		return
	}
	r.Normalize()

	// v is perpendicular to the segment.
	v := CrossSV(1.0, r)
	absV := Vec2{math.Abs(v.X), math.Abs(v.Y)}

	maxFraction := input.MaxFraction
	buildAABB := func() AABB {
		target := p1.Add(p2.Sub(p1).Scale(maxFraction))
		return AABB{Lower: MinVec2(p1, target), Upper: MaxVec2(p1, target)}
	}
	segmentAABB := buildAABB()

	stack := make([]int, 0, 64)
	stack = append(stack, t.root)

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == nullNode {
			continue
		}

		node := &t.nodes[id]
		if !TestOverlapAABB(node.aabb, segmentAABB) {
			continue
		}

		// Separating axis: |dot(v, p1 - center)| > dot(|v|, extents)
		c := node.aabb.Center()
		h := node.aabb.Extents()
		separation := math.Abs(Dot(v, p1.Sub(c))) - Dot(absV, h)
		if separation > 0.0 {
			continue
		}

		if node.isLeaf() {
			sub := RayCastInput{P1: p1, P2: p2, MaxFraction: maxFraction}
			value := callback(sub, id)
			if value == 0.0 {
				return
			}
			if value > 0.0 {
				maxFraction = value
				segmentAABB = buildAABB()
			}
		} else {
			stack = append(stack, node.child1, node.child2)
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
