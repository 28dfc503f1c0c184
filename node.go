package gesturesound

// nodeIDCounter is a plain counter; the scene graph is only touched from the
// update goroutine.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is a visual object gestures can target. Nodes form a tree rooted at
// Scene.Root; children inherit their parent's transform. Rendering is not
// this package's concern: a Node only carries what hit testing, projection
// and gesture dispatch need.
type Node struct {
	// Identity
	ID   uint32
	Name string

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y         float64
	ScaleX       float64
	ScaleY       float64
	Rotation     float64
	SkewX, SkewY float64
	PivotX       float64
	PivotY       float64

	// Width and Height give the default local hit box (0,0)-(Width,Height)
	// when HitShape is nil.
	Width, Height float64

	worldTransform [6]float64
	transformDirty bool

	// Visibility & interaction
	Visible      bool
	Interactable bool

	// Ordering among siblings for hit testing; higher is on top.
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Hit testing
	HitShape HitShape

	processors []Processor

	// Internal
	sceneRoot      bool
	disposed       bool
	childrenSorted bool
	sortedChildren []*Node
}

// NewNode creates a node with identity transform, visible and not yet
// interactable.
func NewNode(name string) *Node {
	return &Node{
		ID:             nextNodeID(),
		Name:           name,
		ScaleX:         1,
		ScaleY:         1,
		Visible:        true,
		transformDirty: true,
		childrenSorted: true,
	}
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("gesturesound: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("gesturesound: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("gesturesound: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("gesturesound: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("gesturesound: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("gesturesound: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// SetZIndex sets the node's ZIndex and marks the parent's children as unsorted.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	if n.Parent != nil {
		n.Parent.childrenSorted = false
	}
}

// --- Processors ---

// AddProcessor registers p on this node. The router delivers cursor events
// for cursors targeting this node to every registered processor, in
// registration order. Use Scene.RegisterProcessor to also route the
// processor's events to scene-level listeners.
func (n *Node) AddProcessor(p Processor) {
	for _, x := range n.processors {
		if x == p {
			return
		}
	}
	n.processors = append(n.processors, p)
}

// RemoveProcessor unregisters p. Sessions already in flight still finish:
// the processor stays interested in its cursors until they end.
func (n *Node) RemoveProcessor(p Processor) {
	for i, x := range n.processors {
		if x == p {
			copy(n.processors[i:], n.processors[i+1:])
			n.processors[len(n.processors)-1] = nil
			n.processors = n.processors[:len(n.processors)-1]
			return
		}
	}
}

// Processors returns the registered processors. The returned slice MUST NOT be mutated.
func (n *Node) Processors() []Processor {
	return n.processors
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants. Gestures targeting a disposed
// node abort on their next tick.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.HitShape = nil
	n.UserData = nil
	n.processors = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// Attached reports whether the node is reachable from a scene root, i.e.
// whether it still has a viewing context that screen points can resolve in.
func (n *Node) Attached() bool {
	p := n
	for p.Parent != nil {
		p = p.Parent
	}
	return p.sceneRoot && !p.disposed
}

// targetValid reports whether n can still receive gesture updates.
func targetValid(n *Node) bool {
	return n != nil && !n.disposed && n.Attached()
}

// --- Helpers ---

// isAncestor reports whether candidate is node or one of its ancestors.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}

// sortedChildrenOf returns children ordered by ZIndex, rebuilding the cached
// order when it is stale. Insertion sort: stable, and O(n) for the usual
// nearly-sorted case.
func sortedChildrenOf(n *Node) []*Node {
	if n.childrenSorted && n.sortedChildren != nil {
		return n.sortedChildren
	}
	nc := len(n.children)
	if cap(n.sortedChildren) < nc {
		n.sortedChildren = make([]*Node, nc)
	}
	n.sortedChildren = n.sortedChildren[:nc]
	copy(n.sortedChildren, n.children)
	for i := 1; i < nc; i++ {
		key := n.sortedChildren[i]
		j := i - 1
		for j >= 0 && n.sortedChildren[j].ZIndex > key.ZIndex {
			n.sortedChildren[j+1] = n.sortedChildren[j]
			j--
		}
		n.sortedChildren[j+1] = key
	}
	n.childrenSorted = true
	return n.sortedChildren
}
