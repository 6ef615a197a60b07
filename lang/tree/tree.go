// Package tree implements the node registry produced by the cfgtree parser.
//
// A [Registry] is an append-only arena. Nodes refer to each other only by
// [ID]; the registry owns every node for its whole lifetime and never removes
// or reuses one.
package tree

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"github.com/ardnew/cfgtree/lang/token"
)

// ID identifies a node. Valid ids start at 1; zero means no node.
type ID uint32

// NoParent is the parent of the root node.
const NoParent ID = 0

// RootID is the id of the root node, created with the registry.
const RootID ID = 1

// Registry errors.
var (
	ErrNoNode       = errors.New("no such node")
	ErrCapacity     = errors.New("registry capacity exceeded")
	ErrNameAssigned = errors.New("name already assigned")
	ErrDataAssigned = errors.New("data already assigned")
	ErrOwnsChildren = errors.New("node owns children")
	ErrOwnsData     = errors.New("node owns data")
	ErrInvalid      = errors.New("invalid registry")
)

// Node is one entry of the configuration tree.
type Node struct {
	Name   string
	Data   string
	Offset int        // byte offset of the entry's symbol
	ID     ID
	Parent ID         // NoParent for the root
	Scalar token.Kind // kind of Data, or token.Invalid when unset
}

// HasData reports whether a scalar has been assigned to n.
func (n Node) HasData() bool { return n.Scalar != token.Invalid }

// String renders n as "(id, parent, name, data)".
func (n Node) String() string {
	var sb strings.Builder

	sb.WriteByte('(')
	sb.WriteString(strconv.FormatUint(uint64(n.ID), 10))
	sb.WriteString(", ")
	sb.WriteString(strconv.FormatUint(uint64(n.Parent), 10))
	sb.WriteString(", ")
	sb.WriteString(n.Name)
	sb.WriteString(", ")
	sb.WriteString(n.Data)
	sb.WriteByte(')')

	return sb.String()
}

// Registry is the arena of nodes. The zero value is not usable; create one
// with [New].
type Registry struct {
	nodes    []Node // nodes[i].ID == i+1
	children [][]ID // children[i] lists the children of nodes[i]
	named    []bool // named[i] is set once nodes[i] receives a name
}

// New returns a registry holding only the root node.
func New() *Registry {
	return &Registry{
		nodes:    []Node{{ID: RootID, Parent: NoParent}},
		children: [][]ID{nil},
		named:    []bool{false},
	}
}

func (r *Registry) index(id ID) (int, bool) {
	if id == 0 || int(id) > len(r.nodes) {
		return 0, false
	}

	return int(id) - 1, true
}

func noNode(id ID) error {
	return fmt.Errorf("%w: %d", ErrNoNode, id)
}

// Add creates a child of parent and returns its id. Ids increase by one with
// every call.
func (r *Registry) Add(parent ID) (ID, error) {
	pi, ok := r.index(parent)
	if !ok {
		return 0, noNode(parent)
	}

	if r.nodes[pi].HasData() {
		return 0, ErrOwnsData
	}

	id, err := safecast.Conv[uint32](len(r.nodes) + 1)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCapacity, err)
	}

	r.nodes = append(r.nodes, Node{ID: ID(id), Parent: parent})
	r.children = append(r.children, nil)
	r.named = append(r.named, false)
	r.children[pi] = append(r.children[pi], ID(id))

	return ID(id), nil
}

// SetName assigns the name of node id. A node is named at most once.
func (r *Registry) SetName(id ID, name string, offset int) error {
	i, ok := r.index(id)
	if !ok {
		return noNode(id)
	}

	if r.named[i] {
		return ErrNameAssigned
	}

	r.named[i] = true
	r.nodes[i].Name = name
	r.nodes[i].Offset = offset

	return nil
}

// SetData assigns scalar data of the given kind to node id. Data is assigned
// at most once, and never to a node that owns children.
func (r *Registry) SetData(id ID, kind token.Kind, data string) error {
	i, ok := r.index(id)
	if !ok {
		return noNode(id)
	}

	switch {
	case r.nodes[i].HasData():
		return ErrDataAssigned

	case len(r.children[i]) > 0:
		return ErrOwnsChildren
	}

	if !kind.IsScalar() {
		kind = token.Literal
	}

	r.nodes[i].Data = data
	r.nodes[i].Scalar = kind

	return nil
}

// Node returns the node with the given id.
func (r *Registry) Node(id ID) (Node, bool) {
	i, ok := r.index(id)
	if !ok {
		return Node{}, false
	}

	return r.nodes[i], true
}

// Root returns the root node.
func (r *Registry) Root() Node { return r.nodes[0] }

// Parent returns the parent of node id. It reports false for the root and
// for unknown ids.
func (r *Registry) Parent(id ID) (Node, bool) {
	n, ok := r.Node(id)
	if !ok {
		return Node{}, false
	}

	return r.Node(n.Parent)
}

// Children returns the ids of the children of node id in creation order.
func (r *Registry) Children(id ID) []ID {
	i, ok := r.index(id)
	if !ok {
		return nil
	}

	return slices.Clone(r.children[i])
}

// All returns an iterator over all nodes in creation order.
func (r *Registry) All() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for _, n := range r.nodes {
			if !yield(n) {
				return
			}
		}
	}
}

// Len returns the number of nodes, including the root.
func (r *Registry) Len() int { return len(r.nodes) }

// Path returns the dotted names from the root to node id.
func (r *Registry) Path(id ID) string {
	var names []string

	for n, ok := r.Node(id); ok; n, ok = r.Node(n.Parent) {
		names = append(names, n.Name)
	}

	slices.Reverse(names)

	return strings.Join(names, ".")
}

// Clone returns a deep copy of r.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		nodes:    slices.Clone(r.nodes),
		children: make([][]ID, len(r.children)),
		named:    slices.Clone(r.named),
	}

	for i, ids := range r.children {
		c.children[i] = slices.Clone(ids)
	}

	return c
}

// Equal reports whether r and o hold the same nodes in the same order.
func (r *Registry) Equal(o *Registry) bool {
	return slices.Equal(r.nodes, o.nodes)
}

// Validate checks the structural invariants of the registry and returns the
// first violation found.
func (r *Registry) Validate() error {
	fail := func(id ID, msg string) error {
		return fmt.Errorf("%w: node %d: %s", ErrInvalid, id, msg)
	}

	if len(r.nodes) == 0 {
		return fmt.Errorf("%w: no root node", ErrInvalid)
	}

	for i, n := range r.nodes {
		switch {
		case int(n.ID) != i+1:
			return fail(n.ID, "id out of sequence")

		case i == 0 && n.Parent != NoParent:
			return fail(n.ID, "root has a parent")

		case i > 0 && n.Parent == NoParent:
			return fail(n.ID, "second node without parent")

		case n.Parent >= n.ID:
			return fail(n.ID, "parent created after child")

		case n.HasData() && len(r.children[i]) > 0:
			return fail(n.ID, "owns both data and children")
		}

		if i > 0 && !slices.Contains(r.children[n.Parent-1], n.ID) {
			return fail(n.ID, "missing from parent's children")
		}
	}

	return nil
}
