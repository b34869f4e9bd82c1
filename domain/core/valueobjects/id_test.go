package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeIDScheme(t *testing.T) {
	id := NewNodeID("1", 10)
	assert.Equal(t, "1.10", id.String())
	assert.Equal(t, "1", id.LayerID())
	assert.Equal(t, 10, id.Sequence())
	assert.False(t, id.IsZero())
}

func TestNodeIDFromString(t *testing.T) {
	id, err := NewNodeIDFromString("0.3")
	require.NoError(t, err)
	assert.Equal(t, "0", id.LayerID())
	assert.Equal(t, 3, id.Sequence())

	_, err = NewNodeIDFromString("")
	assert.Error(t, err)

	_, err = NewNodeIDFromString("noprefix")
	assert.Error(t, err)
}

func TestNodeIDCompareNumericAware(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.1", "1.2", -1},
		{"1.9", "1.10", -1},
		{"1.10", "1.9", 1},
		{"0.5", "1.1", -1},
		{"1.2", "1.2", 0},
		{"1.2", "1.2.1", -1},
	}
	for _, tt := range tests {
		a, err := NewNodeIDFromString(tt.a)
		require.NoError(t, err)
		b, err := NewNodeIDFromString(tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, a.Compare(b), "%s vs %s", tt.a, tt.b)
	}
}

func TestEdgeID(t *testing.T) {
	src := NewNodeID("2", 1)
	dst := NewNodeID("1", 10)
	eid := NewEdgeID(src, dst)
	assert.Equal(t, "2.1->1.10", eid.String())

	// Edge order is source first, then child, numeric-aware
	other := NewEdgeID(src, NewNodeID("1", 9))
	assert.Equal(t, 1, eid.Compare(other))
	assert.Equal(t, 0, eid.Compare(NewEdgeID(src, dst)))
}

func TestNodeIDJSONRoundTrip(t *testing.T) {
	id := NewNodeID("1", 4)
	data, err := id.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1.4"`, string(data))

	var back NodeID
	require.NoError(t, back.UnmarshalJSON(data))
	assert.True(t, id.Equals(back))
}
