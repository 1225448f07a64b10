package scene

import (
	"slices"
	"strconv"
)

// Kind identifies what a node draws.
type Kind string

const (
	KindRoot  Kind = "svg"
	KindGroup Kind = "g"
	KindRect  Kind = "rect"
)

// Attribute names written by CreateRect and the group transform.
const (
	AttrX         = "x"
	AttrY         = "y"
	AttrWidth     = "width"
	AttrHeight    = "height"
	AttrTransform = "transform"
)

// Surface is the drawing surface a group renders into.
//
// Append moves child under parent, detaching it from any previous parent
// first. Remove on a node without a parent is a no-op.
type Surface interface {
	CreateGroup() *Node
	CreateRect(w, h, x, y float64) *Node
	Append(parent, child *Node)
	Remove(node *Node)
	SetAttribute(node *Node, name, value string)
}

// Node is an element of a retained scene tree.
type Node struct {
	id       int
	kind     Kind
	attrs    map[string]string
	parent   *Node
	children []*Node
}

// ID returns the creation sequence number of the node, unique within its Scene.
func (n *Node) ID() int { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Parent returns the node's parent, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Attr returns the raw attribute value.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// FloatAttr parses a numeric attribute. Missing or malformed values yield NaN,
// which is what a browser reports for garbage geometry.
func (n *Node) FloatAttr(name string) float64 {
	v, ok := n.attrs[name]
	if !ok {
		return nan()
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nan()
	}
	return f
}

// AttrNames returns the attribute names in sorted order.
func (n *Node) AttrNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

// Scene is an in-memory Surface. It plays the role of the SVG document the
// group is mounted into and is the source of Snapshot frames for the
// renderers. A Scene is not safe for concurrent use.
type Scene struct {
	root          *Node
	width, height float64
	next          int
}

// New returns an empty scene whose root covers width×height.
func New(width, height float64) *Scene {
	s := &Scene{width: width, height: height}
	s.root = s.newNode(KindRoot)
	s.root.attrs[AttrWidth] = FormatNumber(width)
	s.root.attrs[AttrHeight] = FormatNumber(height)
	return s
}

// Root returns the host node groups attach to.
func (s *Scene) Root() *Node { return s.root }

// Size returns the frame dimensions.
func (s *Scene) Size() (float64, float64) { return s.width, s.height }

func (s *Scene) newNode(k Kind) *Node {
	s.next++
	return &Node{id: s.next, kind: k, attrs: make(map[string]string)}
}

// CreateGroup returns a detached container node.
func (s *Scene) CreateGroup() *Node {
	return s.newNode(KindGroup)
}

// CreateRect returns a detached rect node with its geometry attributes set.
func (s *Scene) CreateRect(w, h, x, y float64) *Node {
	n := s.newNode(KindRect)
	n.attrs[AttrWidth] = FormatNumber(w)
	n.attrs[AttrHeight] = FormatNumber(h)
	n.attrs[AttrX] = FormatNumber(x)
	n.attrs[AttrY] = FormatNumber(y)
	return n
}

// Append adds child as the last child of parent.
func (s *Scene) Append(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	s.Remove(child)
	child.parent = parent
	parent.children = append(parent.children, child)
}

// Remove detaches node from its parent.
func (s *Scene) Remove(node *Node) {
	if node == nil || node.parent == nil {
		return
	}
	p := node.parent
	if i := slices.Index(p.children, node); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	node.parent = nil
}

// SetAttribute sets a named attribute on node.
func (s *Scene) SetAttribute(node *Node, name, value string) {
	if node == nil {
		return
	}
	node.attrs[name] = value
}

// Walk visits n and its descendants depth-first in document order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children {
		Walk(c, fn)
	}
}

var _ Surface = (*Scene)(nil)
