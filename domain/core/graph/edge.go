package graph

import (
	"annograph/domain/core/valueobjects"
)

// Edge is a directed, labeled connection owned by its source node.
// The child reference is non-owning: the child's lifetime belongs to its
// layer, and destroying the source never destroys the child.
type Edge struct {
	source *Node
	child  *Node
	tag    string
	attrib map[string]interface{}
}

// newEdge creates an edge between two nodes of the same passage
func newEdge(source, child *Node, tag string, attrib map[string]interface{}) *Edge {
	if attrib == nil {
		attrib = make(map[string]interface{})
	}
	return &Edge{
		source: source,
		child:  child,
		tag:    tag,
		attrib: attrib,
	}
}

// ID returns the derived edge identifier `<sourceID>-><childID>`
func (e *Edge) ID() valueobjects.EdgeID {
	return valueobjects.NewEdgeID(e.source.id, e.child.id)
}

// Tag returns the role label of the edge
func (e *Edge) Tag() string {
	return e.tag
}

// Source returns the node owning this edge
func (e *Edge) Source() *Node {
	return e.source
}

// Child returns the node this edge points to
func (e *Edge) Child() *Node {
	return e.child
}

// Attrib returns the edge's attribute mapping. The map is live: callers may
// add annotation attributes, but the remote flag is fixed at creation time.
func (e *Edge) Attrib() map[string]interface{} {
	return e.attrib
}

// Remote reports whether this edge is a secondary semantic reference
func (e *Edge) Remote() bool {
	return boolAttrib(e.attrib, AttribRemote)
}

// Implicit reports whether this edge points at an elided element
func (e *Edge) Implicit() bool {
	return boolAttrib(e.attrib, AttribImplicit)
}

// boolAttrib reads a boolean attribute, tolerating the JSON decoding of
// true values
func boolAttrib(attrib map[string]interface{}, key string) bool {
	v, ok := attrib[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
