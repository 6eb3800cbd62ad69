package selection

// Node is one vertex of the rendered transcript tree.
//
// Implementations must be comparable (pointer types in practice) because
// ancestor resolution compares nodes with ==. Parent must return a nil
// interface, not a typed nil, at the root.
type Node interface {
	Parent() Node
	Children() []Node
	IsText() bool
	Attr(name string) (string, bool)
}

// Matcher reports whether a node satisfies a lookup predicate.
type Matcher func(Node) bool

// HasAttr matches nodes carrying the named attribute with any value.
func HasAttr(name string) Matcher {
	return func(n Node) bool {
		_, ok := n.Attr(name)
		return ok
	}
}

// AttrEquals matches nodes whose named attribute equals value.
func AttrEquals(name, value string) Matcher {
	return func(n Node) bool {
		v, ok := n.Attr(name)
		return ok && v == value
	}
}

// Locator answers the two tree queries the validator depends on.
// Hosts with an index over their tree can supply their own.
type Locator interface {
	// Closest returns n or its nearest ancestor satisfying match, or nil.
	Closest(n Node, match Matcher) Node
	// Contains reports whether root or any descendant satisfies match.
	Contains(root Node, match Matcher) bool
}

// TreeLocator implements Locator by walking Parent and Children links.
type TreeLocator struct{}

// Closest walks up from n, n included.
func (TreeLocator) Closest(n Node, match Matcher) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if match(cur) {
			return cur
		}
	}
	return nil
}

// Contains does a depth-first search of root's subtree, root included.
func (TreeLocator) Contains(root Node, match Matcher) bool {
	if root == nil {
		return false
	}
	stack := []Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if match(n) {
			return true
		}
		stack = append(stack, n.Children()...)
	}
	return false
}

// ElementOf normalizes a text node to its parent element. Element nodes and
// nil are returned unchanged.
func ElementOf(n Node) Node {
	if n != nil && n.IsText() {
		return n.Parent()
	}
	return n
}

// CommonAncestor returns the deepest node that is an ancestor of (or equal
// to) both a and b, or nil when they live in different trees.
func CommonAncestor(a, b Node) Node {
	if a == nil || b == nil {
		return nil
	}
	var chain []Node
	for cur := a; cur != nil; cur = cur.Parent() {
		chain = append(chain, cur)
	}
	for cur := b; cur != nil; cur = cur.Parent() {
		for _, c := range chain {
			if c == cur {
				return cur
			}
		}
	}
	return nil
}
