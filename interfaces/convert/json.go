package convert

import (
	"encoding/json"

	"annograph/domain/core/graph"
	pkgerrors "annograph/pkg/errors"
)

// jsonPassage is the canonical serialized form of a passage. Layers, nodes
// and edges are flat lists keyed by stable ids, so the format survives
// reordering and partial diffs.
type jsonPassage struct {
	ID     string                 `json:"id"`
	Attrib map[string]interface{} `json:"attrib,omitempty"`
	Extra  map[string]interface{} `json:"extra,omitempty"`
	Layers []jsonLayer            `json:"layers"`
	Nodes  []jsonNode             `json:"nodes"`
	Edges  []jsonEdge             `json:"edges"`
}

type jsonLayer struct {
	ID     string                 `json:"id"`
	Attrib map[string]interface{} `json:"attrib,omitempty"`
}

type jsonNode struct {
	ID     string                 `json:"id"`
	Tag    string                 `json:"tag"`
	Attrib map[string]interface{} `json:"attrib,omitempty"`
	Extra  map[string]interface{} `json:"extra,omitempty"`
}

type jsonEdge struct {
	Source string                 `json:"source"`
	Child  string                 `json:"child"`
	Tag    string                 `json:"tag"`
	Attrib map[string]interface{} `json:"attrib,omitempty"`
}

// ToJSON serializes a passage into its canonical JSON form
func ToJSON(p *graph.Passage) ([]byte, error) {
	out := jsonPassage{
		ID:     p.ID(),
		Attrib: emptyAsNil(p.Attrib()),
		Extra:  emptyAsNil(p.Extra()),
	}
	for _, l := range p.Layers() {
		out.Layers = append(out.Layers, jsonLayer{
			ID:     l.ID(),
			Attrib: emptyAsNil(l.Attrib()),
		})
	}
	for _, n := range p.Nodes() {
		out.Nodes = append(out.Nodes, jsonNode{
			ID:     n.ID().String(),
			Tag:    n.Tag(),
			Attrib: emptyAsNil(n.Attrib()),
			Extra:  emptyAsNil(n.Extra()),
		})
		for _, e := range n.Outgoing() {
			out.Edges = append(out.Edges, jsonEdge{
				Source: e.Source().ID().String(),
				Child:  e.Child().ID().String(),
				Tag:    e.Tag(),
				Attrib: emptyAsNil(e.Attrib()),
			})
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// FromJSON rebuilds a passage from its canonical JSON form. The standard
// layers come back as their typed views, with their ordering and edge
// policies reinstalled.
func FromJSON(data []byte) (*graph.Passage, error) {
	var in jsonPassage
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, pkgerrors.NewValidationError("malformed passage document: " + err.Error())
	}
	if in.ID == "" {
		return nil, pkgerrors.NewValidationError("passage document has no id")
	}

	p := graph.NewPassage(in.ID)
	mergeAttrib(p.Attrib(), in.Attrib)
	mergeAttrib(p.Extra(), in.Extra)

	for _, jl := range in.Layers {
		var err error
		switch jl.ID {
		case graph.Layer0ID:
			_, err = graph.NewLayer0(p)
		case graph.Layer1ID:
			_, err = graph.NewLayer1(p)
		default:
			_, err = graph.NewLayer(p, jl.ID)
		}
		if err != nil {
			return nil, err
		}
		layer, err := p.Layer(jl.ID)
		if err != nil {
			return nil, err
		}
		mergeAttrib(layer.Attrib(), jl.Attrib)
	}

	for _, jn := range in.Nodes {
		// the foundational head already exists, created with its layer
		if existing, err := p.Node(jn.ID); err == nil {
			if existing.Tag() != jn.Tag {
				return nil, pkgerrors.NewConflictError(
					"node " + jn.ID + " conflicts with a layer-created node")
			}
			mergeAttrib(existing.Attrib(), jn.Attrib)
			mergeAttrib(existing.Extra(), jn.Extra)
			continue
		}
		n, err := graph.NewNode(p, jn.ID, jn.Tag, graph.WithNodeAttrib(jn.Attrib))
		if err != nil {
			return nil, err
		}
		mergeAttrib(n.Extra(), jn.Extra)
	}

	for _, je := range in.Edges {
		source, err := p.Node(je.Source)
		if err != nil {
			return nil, err
		}
		child, err := p.Node(je.Child)
		if err != nil {
			return nil, err
		}
		if _, err := source.AddWithAttrib(je.Tag, child, je.Attrib); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func emptyAsNil(m map[string]interface{}) map[string]interface{} {
	if len(m) == 0 {
		return nil
	}
	return m
}

func mergeAttrib(dst, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = v
	}
}
