package graph

import (
	"sort"

	"annograph/domain/core/valueobjects"
	pkgerrors "annograph/pkg/errors"
)

// Node is a labeled graph node owning an ordered sequence of outgoing
// edges. Incoming edges are tracked as a non-owning back-reference index
// used only for parent lookup, never for traversal ownership.
//
// Two nodes are equal only if they are the same entity: identity is the id,
// never attribute content.
type Node struct {
	id        valueobjects.NodeID
	tag       string
	passage   *Passage
	layer     *Layer
	attrib    map[string]interface{}
	extra     map[string]interface{}
	outgoing  []*Edge
	incoming  []*Edge
	edgeLess  func(a, b *Edge) bool
	destroyed bool
}

// NodeOption configures a node at creation time
type NodeOption func(*Node)

// WithNodeAttrib sets the initial attribute mapping of the node
func WithNodeAttrib(attrib map[string]interface{}) NodeOption {
	return func(n *Node) {
		for k, v := range attrib {
			n.attrib[k] = v
		}
	}
}

// WithEdgeOrder overrides the ordering of the node's outgoing edges.
// The default orders edges by their derived id, numeric-aware.
func WithEdgeOrder(less func(a, b *Edge) bool) NodeOption {
	return func(n *Node) {
		n.edgeLess = less
	}
}

// NewNode creates a node inside the passage. The id must follow the
// `<layerID>.<sequence>` scheme; the layer prefix determines the owning
// layer, which must already exist.
func NewNode(p *Passage, id, tag string, opts ...NodeOption) (*Node, error) {
	nodeID, err := valueobjects.NewNodeIDFromString(id)
	if err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	layer, err := p.Layer(nodeID.LayerID())
	if err != nil {
		return nil, err
	}

	if _, exists := p.nodes[id]; exists {
		return nil, pkgerrors.NewConflictError("node id " + id + " already in use")
	}

	if max := p.cfg.MaxNodesPerPassage; max > 0 && len(p.nodes) >= max {
		return nil, pkgerrors.NewConflictError("maximum nodes per passage reached")
	}

	n := &Node{
		id:      nodeID,
		tag:     tag,
		passage: p,
		layer:   layer,
		attrib:  make(map[string]interface{}),
		extra:   make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(n)
	}

	p.nodes[id] = n
	p.bumpCounter(nodeID)
	layer.addNode(n)

	return n, nil
}

// ID returns the node's unique identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// Tag returns the label classifying the node's role
func (n *Node) Tag() string {
	return n.tag
}

// Layer returns the layer the node belongs to for its whole life
func (n *Node) Layer() *Layer {
	return n.layer
}

// Passage returns the root container owning the node
func (n *Node) Passage() *Passage {
	return n.passage
}

// Attrib returns the node's attribute mapping. The map is live: annotation
// attributes may be added or removed by adapters.
func (n *Node) Attrib() map[string]interface{} {
	return n.attrib
}

// Extra returns the node's free-form annotation remarks, kept apart from
// the structural attributes
func (n *Node) Extra() map[string]interface{} {
	return n.extra
}

// Implicit reports whether the node represents an elided element
func (n *Node) Implicit() bool {
	return boolAttrib(n.attrib, AttribImplicit)
}

// Outgoing returns the node's ordered child edges.
// The slice is a copy; the order follows the node's edge comparator.
func (n *Node) Outgoing() []*Edge {
	edges := make([]*Edge, len(n.outgoing))
	copy(edges, n.outgoing)
	return edges
}

// Incoming returns the edges pointing at this node, ordered by edge id
func (n *Node) Incoming() []*Edge {
	edges := make([]*Edge, len(n.incoming))
	copy(edges, n.incoming)
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].ID().Compare(edges[j].ID()) < 0
	})
	return edges
}

// Parents returns the distinct sources of the node's incoming edges,
// ordered by node id
func (n *Node) Parents() []*Node {
	seen := make(map[*Node]bool, len(n.incoming))
	parents := make([]*Node, 0, len(n.incoming))
	for _, e := range n.incoming {
		if !seen[e.source] {
			seen[e.source] = true
			parents = append(parents, e.source)
		}
	}
	sort.Slice(parents, func(i, j int) bool {
		return parents[i].id.Compare(parents[j].id) < 0
	})
	return parents
}

// Add creates and appends a new outgoing edge to the child node
func (n *Node) Add(tag string, child *Node) (*Edge, error) {
	return n.AddWithAttrib(tag, child, nil)
}

// AddWithAttrib creates a new outgoing edge carrying the given edge
// attributes. Re-adding an edge with the same tag and child is rejected,
// not silently merged. No self-loop or cycle check is performed here;
// cycle prevention is a layer policy, since remote edges may legitimately
// point back into the structure.
func (n *Node) AddWithAttrib(tag string, child *Node, attrib map[string]interface{}) (*Edge, error) {
	if child == nil {
		return nil, pkgerrors.NewValidationError("edge child cannot be nil")
	}
	if child.passage != n.passage {
		return nil, pkgerrors.NewValidationError("edge child belongs to a different passage")
	}

	for _, e := range n.outgoing {
		if e.tag == tag && e.child == child {
			return nil, pkgerrors.NewDuplicateEdgeError(n.id.String(), tag, child.id.String())
		}
	}

	if max := n.passage.cfg.MaxEdgesPerNode; max > 0 && len(n.outgoing) >= max {
		return nil, pkgerrors.NewConflictError("maximum edges per node reached")
	}

	edge := newEdge(n, child, tag, attrib)

	// The child's layer may veto the insertion, e.g. the foundational layer
	// rejects a second non-remote parent.
	if policy := child.layer.edgePolicy; policy != nil {
		if err := policy(edge); err != nil {
			return nil, err
		}
	}

	n.outgoing = append(n.outgoing, edge)
	n.sortOutgoing()
	child.incoming = append(child.incoming, edge)

	return edge, nil
}

// RemoveEdge removes an outgoing edge from the node and unregisters it
// from the child's incoming set
func (n *Node) RemoveEdge(edge *Edge) error {
	for i, e := range n.outgoing {
		if e == edge {
			n.outgoing = append(n.outgoing[:i], n.outgoing[i+1:]...)
			edge.child.dropIncoming(edge)
			return nil
		}
	}
	return pkgerrors.NewNotFoundError("edge " + edge.ID().String())
}

// Remove removes every outgoing edge pointing at the given child
func (n *Node) Remove(child *Node) error {
	removed := false
	kept := n.outgoing[:0]
	for _, e := range n.outgoing {
		if e.child == child {
			child.dropIncoming(e)
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	n.outgoing = kept
	if !removed {
		return pkgerrors.NewNotFoundError("edge to node " + child.id.String())
	}
	return nil
}

// Destroy disconnects the node from the graph: all outgoing edges are
// removed, every incoming edge is removed from its source, and the node
// leaves its layer and the passage index. Children are never destroyed
// with it. Parent and heads views reflect the removal synchronously.
func (n *Node) Destroy() {
	if n.destroyed {
		return
	}
	n.destroyed = true

	for _, e := range n.outgoing {
		e.child.dropIncoming(e)
	}
	n.outgoing = nil

	incoming := make([]*Edge, len(n.incoming))
	copy(incoming, n.incoming)
	for _, e := range incoming {
		_ = e.source.RemoveEdge(e)
	}
	n.incoming = nil

	n.layer.removeNode(n)
	delete(n.passage.nodes, n.id.String())
}

// Destroyed reports whether the node has been removed from its passage.
// Ids are never reused, so a destroyed node stays destroyed.
func (n *Node) Destroyed() bool {
	return n.destroyed
}

// AsTerminal returns the terminal-layer view of the node if it lives in
// the terminal layer
func (n *Node) AsTerminal() (*Terminal, bool) {
	if n.layer.id != Layer0ID {
		return nil, false
	}
	return &Terminal{Node: n}, true
}

// AsFNode returns the foundational-layer view of the node if it lives in
// the foundational layer and is not a linkage
func (n *Node) AsFNode() (*FNode, bool) {
	if n.layer.id != Layer1ID || n.tag == TagLinkage {
		return nil, false
	}
	return &FNode{Node: n}, true
}

// AsLinkage returns the linkage view of the node if its tag and shape
// qualify
func (n *Node) AsLinkage() (*Linkage, bool) {
	if n.layer.id != Layer1ID || n.tag != TagLinkage {
		return nil, false
	}
	return &Linkage{Node: n}, true
}

// sortOutgoing keeps the outgoing sequence in the node's edge order
func (n *Node) sortOutgoing() {
	less := n.edgeLess
	if less == nil {
		less = func(a, b *Edge) bool { return a.ID().Compare(b.ID()) < 0 }
	}
	sort.SliceStable(n.outgoing, func(i, j int) bool {
		return less(n.outgoing[i], n.outgoing[j])
	})
}

func (n *Node) dropIncoming(edge *Edge) {
	for i, e := range n.incoming {
		if e == edge {
			n.incoming = append(n.incoming[:i], n.incoming[i+1:]...)
			return
		}
	}
}
