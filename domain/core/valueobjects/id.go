package valueobjects

import (
	"errors"
	"strconv"
	"strings"
)

// NodeID is a value object representing a unique node identifier.
// Node ids follow the canonical `<layerID>.<sequence>` scheme, so the id
// encodes the owning layer as a prefix. Ids are stable for a given
// construction order, which makes serialized passages diffable.
type NodeID struct {
	value string
}

// NewNodeID creates a NodeID from an owning layer id and a sequence number
func NewNodeID(layerID string, sequence int) NodeID {
	return NodeID{value: layerID + "." + strconv.Itoa(sequence)}
}

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	if !strings.Contains(id, ".") {
		return NodeID{}, errors.New("node ID must encode its layer as a prefix")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// LayerID returns the owning layer prefix of the id
func (id NodeID) LayerID() string {
	if i := strings.IndexByte(id.value, '.'); i >= 0 {
		return id.value[:i]
	}
	return id.value
}

// Sequence returns the numeric suffix of the id, or -1 if it is not numeric
func (id NodeID) Sequence() int {
	if i := strings.LastIndexByte(id.value, '.'); i >= 0 {
		if n, err := strconv.Atoi(id.value[i+1:]); err == nil {
			return n
		}
	}
	return -1
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// Compare orders two NodeIDs component-wise, comparing numeric components
// as integers so that "1.10" sorts after "1.9"
func (id NodeID) Compare(other NodeID) int {
	return compareDotted(id.value, other.value)
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.value + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("NodeID must be a string")
	}
	id.value = string(data[1 : len(data)-1])
	return nil
}

// EdgeID is a value object identifying an edge as `<sourceID>-><childID>`
type EdgeID struct {
	source NodeID
	child  NodeID
}

// NewEdgeID derives an EdgeID from the edge endpoints
func NewEdgeID(source, child NodeID) EdgeID {
	return EdgeID{source: source, child: child}
}

// String returns the string representation of the EdgeID
func (id EdgeID) String() string {
	return id.source.String() + "->" + id.child.String()
}

// Source returns the source node id
func (id EdgeID) Source() NodeID {
	return id.source
}

// Child returns the child node id
func (id EdgeID) Child() NodeID {
	return id.child
}

// Compare orders two EdgeIDs by source id, then child id, using the same
// numeric-aware component ordering as NodeID
func (id EdgeID) Compare(other EdgeID) int {
	if c := id.source.Compare(other.source); c != 0 {
		return c
	}
	return id.child.Compare(other.child)
}

// compareDotted compares two dotted id strings component by component.
// Components that parse as integers compare numerically, others as strings.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		ai, aerr := strconv.Atoi(as[i])
		bi, berr := strconv.Atoi(bs[i])
		if aerr == nil && berr == nil {
			if ai != bi {
				if ai < bi {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(as[i], bs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	default:
		return 0
	}
}
