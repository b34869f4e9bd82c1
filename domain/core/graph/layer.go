package graph

import (
	"sort"

	pkgerrors "annograph/pkg/errors"
)

// Layer is a named partition of the passage's nodes. A node belongs to
// exactly one layer for its whole life. Ordering is an injected comparator
// held by the layer instance, not a subclass: by default nodes order by id,
// numeric-aware, and callers may swap in any other policy.
type Layer struct {
	id      string
	passage *Passage
	attrib  map[string]interface{}
	nodes   []*Node

	nodeLess   func(a, b *Node) bool
	headSkip   func(e *Edge) bool
	edgePolicy func(e *Edge) error
}

// LayerOption configures a layer at creation time
type LayerOption func(*Layer)

// WithLayerAttrib sets the initial attribute mapping of the layer
func WithLayerAttrib(attrib map[string]interface{}) LayerOption {
	return func(l *Layer) {
		for k, v := range attrib {
			l.attrib[k] = v
		}
	}
}

// WithNodeOrder overrides the ordering applied to All and Heads.
// The default orders nodes by id, numeric-aware.
func WithNodeOrder(less func(a, b *Node) bool) LayerOption {
	return func(l *Layer) {
		l.nodeLess = less
	}
}

// NewLayer creates a layer and registers it in the passage
func NewLayer(p *Passage, id string, opts ...LayerOption) (*Layer, error) {
	if _, exists := p.layers[id]; exists {
		return nil, pkgerrors.NewConflictError("layer id " + id + " already in use")
	}
	if max := p.cfg.MaxLayersPerPassage; max > 0 && len(p.layers) >= max {
		return nil, pkgerrors.NewConflictError("maximum layers per passage reached")
	}

	l := &Layer{
		id:      id,
		passage: p,
		attrib:  make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	p.layers[id] = l
	return l, nil
}

// ID returns the layer id
func (l *Layer) ID() string {
	return l.id
}

// Passage returns the root container owning the layer
func (l *Layer) Passage() *Passage {
	return l.passage
}

// Attrib returns the layer's attribute mapping. The map is live.
func (l *Layer) Attrib() map[string]interface{} {
	return l.attrib
}

// All returns every node currently in the layer, in the layer's order.
// The sequence is derived on demand and never stale after a mutation.
func (l *Layer) All() []*Node {
	nodes := make([]*Node, len(l.nodes))
	copy(nodes, l.nodes)
	l.sortNodes(nodes)
	return nodes
}

// Len returns the number of nodes in the layer
func (l *Layer) Len() int {
	return len(l.nodes)
}

// Heads returns the roots of the layer: nodes without a non-remote
// incoming edge from within the layer. A node whose only parents are
// remote edges is still a head, since remote edges confer reference
// rather than ownership.
func (l *Layer) Heads() []*Node {
	heads := make([]*Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		if l.isHead(n) {
			heads = append(heads, n)
		}
	}
	l.sortNodes(heads)
	return heads
}

func (l *Layer) isHead(n *Node) bool {
	for _, e := range n.incoming {
		if e.source.layer != l {
			continue
		}
		if e.Remote() {
			continue
		}
		if l.headSkip != nil && l.headSkip(e) {
			continue
		}
		return false
	}
	return true
}

func (l *Layer) sortNodes(nodes []*Node) {
	less := l.nodeLess
	if less == nil {
		less = func(a, b *Node) bool { return a.id.Compare(b.id) < 0 }
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
}

func (l *Layer) addNode(n *Node) {
	l.nodes = append(l.nodes, n)
}

func (l *Layer) removeNode(n *Node) {
	for i, m := range l.nodes {
		if m == n {
			l.nodes = append(l.nodes[:i], l.nodes[i+1:]...)
			return
		}
	}
}
