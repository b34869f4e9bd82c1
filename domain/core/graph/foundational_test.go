package graph

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "annograph/pkg/errors"
)

type annotatedPassage struct {
	passage *Passage
	l0      *Layer0
	l1      *Layer1
	terms   []*Terminal

	link1, link2           *FNode
	ps1, ps2, ps3, ps23    *FNode
	p1, a1, a2, d2, p3, a3 *FNode
	a4                     *FNode
	lkg1, lkg2             *Linkage
}

// buildAnnotatedPassage builds a passage with two linked parallel scenes,
// a grouping scene, remote edges, an implicit unit and punctuation:
//
//	terminal 1:      linker, linked with the first scene
//	terminals 2-10:  scene #1, 2-5 process, 6-9 participant, 10 punct,
//	                 plus a remote participant shared with scene #2
//	terminals 11-19: grouping unit holding scenes #2 and #3 and a linker
//	terminals 11-15: scene #2, 11-14 participant, 15 adverbial, process
//	                 borrowed from scene #1 through a remote edge
//	terminal 16:     linker between scenes #2 and #3
//	terminals 17-19: scene #3, 17-18 state, 19 participant, plus an
//	                 implicit participant
//	terminal 20:     punctuation under the head
func buildAnnotatedPassage(t *testing.T) *annotatedPassage {
	t.Helper()

	p := NewPassage("1")
	l0, err := NewLayer0(p)
	require.NoError(t, err)
	l1, err := NewLayer1(p)
	require.NoError(t, err)

	ap := &annotatedPassage{passage: p, l0: l0, l1: l1}
	for i := 1; i <= 20; i++ {
		term, err := l0.AddTerminal(strconv.Itoa(i), i%10 == 0)
		require.NoError(t, err)
		ap.terms = append(ap.terms, term)
	}
	addTerm := func(fn *FNode, positions ...int) {
		for _, pos := range positions {
			_, err := fn.Node.Add(EdgeTagTerminal, ap.terms[pos-1].Node)
			require.NoError(t, err)
		}
	}

	ap.link1, err = l1.AddFNode(nil, EdgeTagLinker)
	require.NoError(t, err)
	addTerm(ap.link1, 1)

	ap.ps1, err = l1.AddFNode(nil, EdgeTagParallelScene)
	require.NoError(t, err)
	ap.p1, err = l1.AddFNode(ap.ps1, EdgeTagProcess)
	require.NoError(t, err)
	ap.a1, err = l1.AddFNode(ap.ps1, EdgeTagParticipant)
	require.NoError(t, err)
	addTerm(ap.p1, 2, 3, 4, 5)
	addTerm(ap.a1, 6, 7, 8, 9)
	_, err = l1.AddPunct(ap.ps1, ap.terms[9])
	require.NoError(t, err)

	ap.ps23, err = l1.AddFNode(nil, EdgeTagParallelScene)
	require.NoError(t, err)
	ap.ps2, err = l1.AddFNode(ap.ps23, EdgeTagParallelScene)
	require.NoError(t, err)
	ap.a2, err = l1.AddFNode(ap.ps2, EdgeTagParticipant)
	require.NoError(t, err)
	addTerm(ap.a2, 11, 12, 13, 14)
	ap.d2, err = l1.AddFNode(ap.ps2, EdgeTagAdverbial)
	require.NoError(t, err)
	addTerm(ap.d2, 15)

	ap.link2, err = l1.AddFNode(ap.ps23, EdgeTagLinker)
	require.NoError(t, err)
	addTerm(ap.link2, 16)

	ap.ps3, err = l1.AddFNode(ap.ps23, EdgeTagParallelScene)
	require.NoError(t, err)
	ap.p3, err = l1.AddFNode(ap.ps3, EdgeTagState)
	require.NoError(t, err)
	addTerm(ap.p3, 17, 18)
	ap.a3, err = l1.AddFNode(ap.ps3, EdgeTagParticipant)
	require.NoError(t, err)
	addTerm(ap.a3, 19)
	ap.a4, err = l1.AddImplicitFNode(ap.ps3, EdgeTagParticipant)
	require.NoError(t, err)

	_, err = l1.AddPunct(nil, ap.terms[19])
	require.NoError(t, err)

	_, err = l1.AddRemote(ap.ps1, EdgeTagParticipant, ap.d2)
	require.NoError(t, err)
	_, err = l1.AddRemote(ap.ps2, EdgeTagProcess, ap.p1)
	require.NoError(t, err)
	ap.lkg1, err = l1.AddLinkage(ap.link1, ap.ps1)
	require.NoError(t, err)
	ap.lkg2, err = l1.AddLinkage(ap.link2, ap.ps2, ap.ps3)
	require.NoError(t, err)

	return ap
}

func edgeTags(edges []*Edge) []string {
	tags := make([]string, len(edges))
	for i, e := range edges {
		tags[i] = e.Tag()
	}
	return tags
}

func terminalPositions(terms []*Terminal) []int {
	positions := make([]int, len(terms))
	for i, t := range terms {
		positions[i] = t.Position()
	}
	return positions
}

func TestLayer1Creation(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	heads := ap.l1.Heads()
	require.Len(t, heads, 3)
	head := heads[0]
	assert.Same(t, ap.l1.Head().Node, head)

	edges := head.Outgoing()
	assert.Equal(t, []string{"L", "H", "H", "U"}, edgeTags(edges))

	linkerTerms := edges[0].Child().Outgoing()
	require.Len(t, linkerTerms, 1)
	assert.Equal(t, ap.terms[0].Node, linkerTerms[0].Child())

	scene1 := edges[1].Child().Outgoing()
	assert.Equal(t, []string{"P", "A", "U", "A"}, edgeTags(scene1))
	assert.True(t, scene1[3].Remote())

	fn, ok := edges[1].Child().AsFNode()
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 4, 5},
		terminalPositions(fn.Process().GetTerminals(true, false)))
	assert.Equal(t, []int{6, 7, 8, 9},
		terminalPositions(fn.Participants()[0].GetTerminals(true, false)))
}

func TestFNodeViews(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	assert.Same(t, ap.link1.Node, ap.lkg1.Relation().Node)
	args := ap.lkg1.Arguments()
	require.Len(t, args, 1)
	assert.Same(t, ap.ps1.Node, args[0].Node)

	assert.Nil(t, ap.ps23.Process())
	assert.False(t, ap.ps23.IsScene())

	// scene #2 borrows its process through a remote edge
	require.NotNil(t, ap.ps2.Process())
	assert.Same(t, ap.p1.Node, ap.ps2.Process().Node)
	assert.True(t, ap.ps2.IsScene())
	assert.True(t, ap.ps3.IsScene())

	parts1 := ap.ps1.Participants()
	require.Len(t, parts1, 2)
	assert.Same(t, ap.a1.Node, parts1[0].Node)
	assert.Same(t, ap.d2.Node, parts1[1].Node)

	parts3 := ap.ps3.Participants()
	require.Len(t, parts3, 2)
	assert.Same(t, ap.a3.Node, parts3[0].Node)
	assert.Same(t, ap.a4.Node, parts3[1].Node)
	assert.True(t, ap.a4.Implicit())
}

func TestGetTerminals(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 10},
		terminalPositions(ap.ps1.GetTerminals(true, false)))
	assert.Equal(t, []int{2, 3, 4, 5, 6, 7, 8, 9, 15},
		terminalPositions(ap.ps1.GetTerminals(false, true)))

	assert.Equal(t, 10, ap.ps1.EndPosition())
	assert.Equal(t, 11, ap.ps2.StartPosition())
	assert.Equal(t, 17, ap.ps3.StartPosition())
	assert.Equal(t, -1, ap.a4.StartPosition())
	assert.Equal(t, -1, ap.a4.EndPosition())

	assert.Equal(t, "11 12 13 14 15 16 17 18 19", ap.ps23.Text())
}

func TestFParent(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	assert.Same(t, ap.l1.Head().Node, ap.ps1.FParent().Node)
	assert.Same(t, ap.ps23.Node, ap.link2.FParent().Node)
	assert.Same(t, ap.ps23.Node, ap.ps2.FParent().Node)
	assert.Same(t, ap.ps2.Node, ap.d2.FParent().Node)
	assert.Nil(t, ap.l1.Head().FParent())

	// the remote participant edge does not change d2's primary parent
	assert.Same(t, ap.ps2.Node, ap.d2.FParent().Node)
}

func TestTopScenesAndLinkages(t *testing.T) {
	ap := buildAnnotatedPassage(t)
	l1 := ap.l1

	sameFNodes := func(t *testing.T, want []*FNode, got []*FNode) {
		t.Helper()
		require.Len(t, got, len(want))
		for i := range want {
			assert.Same(t, want[i].Node, got[i].Node)
		}
	}

	sameFNodes(t, []*FNode{ap.ps1, ap.ps2, ap.ps3}, l1.TopScenes())

	top := l1.TopLinkages()
	require.Len(t, top, 2)
	assert.Same(t, ap.lkg1.Node, top[0].Node)
	assert.Same(t, ap.lkg2.Node, top[1].Node)

	// an argument that is neither a top scene nor inside one drops the
	// linkage from the top set
	_, err := ap.lkg1.Node.Add(EdgeTagLinkArgument, ap.ps23.Node)
	require.NoError(t, err)
	top = l1.TopLinkages()
	require.Len(t, top, 1)
	assert.Same(t, ap.lkg2.Node, top[0].Node)

	// a remote process turns the grouping unit into a scene, hiding the
	// scenes nested inside it
	_, err = l1.AddRemote(ap.ps23, EdgeTagProcess, ap.p1)
	require.NoError(t, err)
	sameFNodes(t, []*FNode{ap.ps1, ap.ps23}, l1.TopScenes())
	top = l1.TopLinkages()
	require.Len(t, top, 2)
}

func TestSinglePrimaryParent(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	// a1 already hangs under ps1
	_, err := ap.ps2.Node.Add(EdgeTagParticipant, ap.a1.Node)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsMultiplePrimaryParents(err))

	// a remote edge to the same unit is fine
	_, err = ap.l1.AddRemote(ap.ps2, EdgeTagParticipant, ap.a1)
	require.NoError(t, err)
}

func TestRemoteOnlyParentsKeepHeads(t *testing.T) {
	p := NewPassage("1")
	l0, err := NewLayer0(p)
	require.NoError(t, err)
	l1, err := NewLayer1(p)
	require.NoError(t, err)

	term, err := l0.AddTerminal("w", false)
	require.NoError(t, err)
	ps, err := l1.AddFNode(nil, EdgeTagParallelScene)
	require.NoError(t, err)
	pr, err := l1.AddFNode(ps, EdgeTagProcess)
	require.NoError(t, err)
	_, err = pr.Node.Add(EdgeTagTerminal, term.Node)
	require.NoError(t, err)

	// detach the scene, keep only a remote reference to it
	require.NoError(t, l1.Head().Node.Remove(ps.Node))
	other, err := l1.AddFNode(nil, EdgeTagParallelScene)
	require.NoError(t, err)
	_, err = l1.AddRemote(other, EdgeTagParticipant, ps)
	require.NoError(t, err)

	heads := nodeIDs(l1.Heads())
	assert.Contains(t, heads, ps.Node.ID().String())
	assert.Nil(t, ps.FParent())
}

func TestImplicitPunctuationRejected(t *testing.T) {
	p := NewPassage("1")
	_, err := NewLayer1(p)
	require.NoError(t, err)
	l1, err := Layer1Of(p)
	require.NoError(t, err)

	_, err = l1.AddImplicitFNode(nil, EdgeTagPunctuation)
	assert.True(t, pkgerrors.IsInvalidConfiguration(err))
}

func TestLinkageValidation(t *testing.T) {
	ap := buildAnnotatedPassage(t)

	_, err := ap.l1.AddLinkage(nil, ap.ps1)
	assert.True(t, pkgerrors.IsValidation(err))
	_, err = ap.l1.AddLinkage(ap.link1)
	assert.True(t, pkgerrors.IsValidation(err))

	_, ok := ap.lkg1.Node.AsFNode()
	assert.False(t, ok)
	_, ok = ap.ps1.Node.AsLinkage()
	assert.False(t, ok)
}
