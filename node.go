package vcrfixture

// NodeKind is the kind of scope a Node represents.
type NodeKind int

// Node kinds, from the outermost.
const (
	KindModule NodeKind = iota
	KindGroup
	KindTest
)

func (k NodeKind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindGroup:
		return "group"
	case KindTest:
		return "test"
	default:
		return "unknown"
	}
}

// Node is a scope of the test tree: a module, a group or a test.
type Node struct {
	Name    string
	File    string
	Kind    NodeKind
	Markers []Marker
	Parent  *Node
}

// ClosestMarker returns the marker called name that is the closest to n:
// its own markers first, then those of its enclosing groups and module.
// Within a node, the last marker added wins.
func (n *Node) ClosestMarker(name string) (Marker, bool) {
	for node := n; node != nil; node = node.Parent {
		for i := len(node.Markers) - 1; i >= 0; i-- {
			if node.Markers[i].Name == name {
				return node.Markers[i], true
			}
		}
	}

	return Marker{}, false
}

// Module returns the module node n belongs to.
func (n *Node) Module() *Node {
	node := n
	for node.Parent != nil {
		node = node.Parent
	}

	return node
}

// Group returns the innermost group enclosing n, n itself included, or nil.
func (n *Node) Group() *Node {
	for node := n; node != nil; node = node.Parent {
		if node.Kind == KindGroup {
			return node
		}
	}

	return nil
}
