package manifest

// SymbolTree holds all parsed Nodes of one document, keyed by dotted id,
// plus the PositionIndex delegated to for position-based lookup.
type SymbolTree struct {
	nodes map[string]*Node
	pos   *PositionIndex
}

// NewSymbolTree builds a SymbolTree from a flat slice of nodes collected by
// the Walker. The same slice backs both the id map and the position index.
func NewSymbolTree(nodes []*Node) *SymbolTree {
	m := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return &SymbolTree{nodes: m, pos: Build(nodes)}
}

// Get returns the node with the given dotted id, or nil.
func (t *SymbolTree) Get(id string) *Node { return t.nodes[id] }

// Contains reports whether id exists in the tree.
func (t *SymbolTree) Contains(id string) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (t *SymbolTree) Len() int { return len(t.nodes) }

// All returns every node, in no particular order.
func (t *SymbolTree) All() []*Node {
	out := make([]*Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, n)
	}
	return out
}

// FindAtPosition returns the narrowest node (key or value) at pos.
func (t *SymbolTree) FindAtPosition(pos Position) *Node {
	return t.pos.FindNarrowest(pos, anyNode)
}

// FindKeyAtPosition returns the narrowest key node at pos.
func (t *SymbolTree) FindKeyAtPosition(pos Position) *Node {
	return t.pos.FindNarrowest(pos, keyNode)
}

// FindValueAtPosition returns the narrowest value node at pos.
func (t *SymbolTree) FindValueAtPosition(pos Position) *Node {
	return t.pos.FindNarrowest(pos, valNode)
}
