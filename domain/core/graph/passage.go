package graph

import (
	"sort"
	"strconv"

	domaincfg "annograph/domain/config"
	"annograph/domain/core/valueobjects"
	pkgerrors "annograph/pkg/errors"
)

// Passage is the root aggregate of one annotated text. It owns its layers
// and nodes and guarantees id uniqueness for the whole structure. Node ids
// are never reused, even after a node is destroyed.
type Passage struct {
	id     string
	attrib map[string]interface{}
	extra  map[string]interface{}
	layers map[string]*Layer
	nodes  map[string]*Node

	// highest sequence seen per layer, for id allocation
	counters map[string]int

	cfg *domaincfg.DomainConfig
}

// PassageOption configures a passage at creation time
type PassageOption func(*Passage)

// WithPassageAttrib sets the initial attribute mapping of the passage
func WithPassageAttrib(attrib map[string]interface{}) PassageOption {
	return func(p *Passage) {
		for k, v := range attrib {
			p.attrib[k] = v
		}
	}
}

// WithDomainConfig overrides the constraint set applied to the passage
func WithDomainConfig(cfg *domaincfg.DomainConfig) PassageOption {
	return func(p *Passage) {
		if cfg != nil {
			p.cfg = cfg
		}
	}
}

// NewPassage creates an empty passage with the given external id
func NewPassage(id string, opts ...PassageOption) *Passage {
	p := &Passage{
		id:       id,
		attrib:   make(map[string]interface{}),
		extra:    make(map[string]interface{}),
		layers:   make(map[string]*Layer),
		nodes:    make(map[string]*Node),
		counters: make(map[string]int),
		cfg:      domaincfg.DefaultDomainConfig(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the passage's external identifier
func (p *Passage) ID() string {
	return p.id
}

// Attrib returns the passage's attribute mapping. The map is live.
func (p *Passage) Attrib() map[string]interface{} {
	return p.attrib
}

// Extra returns the passage's free-form annotation remarks
func (p *Passage) Extra() map[string]interface{} {
	return p.extra
}

// Config returns the constraint set applied to the passage
func (p *Passage) Config() *domaincfg.DomainConfig {
	return p.cfg
}

// Layer returns the layer with the given id
func (p *Passage) Layer(id string) (*Layer, error) {
	l, ok := p.layers[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("layer " + id)
	}
	return l, nil
}

// Layers returns all layers ordered by id, numeric-aware
func (p *Passage) Layers() []*Layer {
	layers := make([]*Layer, 0, len(p.layers))
	for _, l := range p.layers {
		layers = append(layers, l)
	}
	sort.Slice(layers, func(i, j int) bool {
		return compareLayerIDs(layers[i].id, layers[j].id) < 0
	})
	return layers
}

// Node returns the node with the given id
func (p *Passage) Node(id string) (*Node, error) {
	n, ok := p.nodes[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("node " + id)
	}
	return n, nil
}

// Nodes returns every node of the passage across all layers, ordered by id
func (p *Passage) Nodes() []*Node {
	nodes := make([]*Node, 0, len(p.nodes))
	for _, n := range p.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].id.Compare(nodes[j].id) < 0
	})
	return nodes
}

// NextID allocates the next unused node id in the given layer. The counter
// only moves forward, so destroyed ids are never handed out again.
func (p *Passage) NextID(layerID string) string {
	next := p.counters[layerID] + 1
	p.counters[layerID] = next
	return layerID + "." + strconv.Itoa(next)
}

// bumpCounter advances the layer's id counter past an explicitly chosen id,
// keeping NextID collision-free after a bulk import
func (p *Passage) bumpCounter(id valueobjects.NodeID) {
	if seq := id.Sequence(); seq > p.counters[id.LayerID()] {
		p.counters[id.LayerID()] = seq
	}
}

// compareLayerIDs orders layer ids numerically when both parse as integers
func compareLayerIDs(a, b string) int {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
