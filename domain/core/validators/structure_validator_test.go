package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincfg "annograph/domain/config"
	"annograph/domain/core/graph"
	pkgerrors "annograph/pkg/errors"
)

func buildValidPassage(t *testing.T) *graph.Passage {
	t.Helper()
	p := graph.NewPassage("v1")
	l0, err := graph.NewLayer0(p)
	require.NoError(t, err)
	l1, err := graph.NewLayer1(p)
	require.NoError(t, err)

	w, err := l0.AddTerminal("hello", false)
	require.NoError(t, err)
	dot, err := l0.AddTerminal(".", true)
	require.NoError(t, err)

	ps, err := l1.AddFNode(nil, graph.EdgeTagParallelScene)
	require.NoError(t, err)
	pr, err := l1.AddFNode(ps, graph.EdgeTagProcess)
	require.NoError(t, err)
	_, err = pr.Node.Add(graph.EdgeTagTerminal, w.Node)
	require.NoError(t, err)
	_, err = l1.AddPunct(ps, dot)
	require.NoError(t, err)

	return p
}

func TestValidPassagePasses(t *testing.T) {
	p := buildValidPassage(t)
	v := NewStructureValidator().RequireFoundationalLayer()
	assert.NoError(t, v.Validate(p))
}

func TestMissingLayersRejected(t *testing.T) {
	p := graph.NewPassage("v2")
	v := NewStructureValidator()
	err := v.Validate(p)
	assert.True(t, pkgerrors.IsValidation(err))

	_, err2 := graph.NewLayer0(p)
	require.NoError(t, err2)
	assert.NoError(t, v.Validate(p))

	err = NewStructureValidator().RequireFoundationalLayer().Validate(p)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestImplicitUnitWithTerminalsRejected(t *testing.T) {
	p := buildValidPassage(t)
	l0, err := graph.Layer0Of(p)
	require.NoError(t, err)
	l1, err := graph.Layer1Of(p)
	require.NoError(t, err)

	term, err := l0.AddTerminal("ghost", false)
	require.NoError(t, err)
	imp, err := l1.AddImplicitFNode(nil, graph.EdgeTagParticipant)
	require.NoError(t, err)
	_, err = imp.Node.Add(graph.EdgeTagTerminal, term.Node)
	require.NoError(t, err)

	err = NewStructureValidator().Validate(p)
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestMultiplePrimaryParentsRejected(t *testing.T) {
	p := graph.NewPassage("v4")
	_, err := graph.NewLayer0(p)
	require.NoError(t, err)

	// a foundational layer assembled without NewLayer1 carries no insertion
	// policy, so the audit is the only line of defense
	_, err = graph.NewLayer(p, graph.Layer1ID)
	require.NoError(t, err)
	a, err := graph.NewNode(p, p.NextID(graph.Layer1ID), graph.TagFoundational)
	require.NoError(t, err)
	b, err := graph.NewNode(p, p.NextID(graph.Layer1ID), graph.TagFoundational)
	require.NoError(t, err)
	c, err := graph.NewNode(p, p.NextID(graph.Layer1ID), graph.TagFoundational)
	require.NoError(t, err)
	_, err = a.Add(graph.EdgeTagParticipant, c)
	require.NoError(t, err)
	_, err = b.Add(graph.EdgeTagParticipant, c)
	require.NoError(t, err)

	err = NewStructureValidator().Validate(p)
	assert.True(t, pkgerrors.IsValidation(err))

	// a second remote parent is legitimate
	require.NoError(t, b.Remove(c))
	_, err = b.AddWithAttrib(graph.EdgeTagParticipant, c,
		map[string]interface{}{graph.AttribRemote: true})
	require.NoError(t, err)
	assert.NoError(t, NewStructureValidator().Validate(p))
}

func TestOrphanTerminalPolicy(t *testing.T) {
	build := func(cfg *domaincfg.DomainConfig) *graph.Passage {
		p := graph.NewPassage("v5", graph.WithDomainConfig(cfg))
		l0, err := graph.NewLayer0(p)
		require.NoError(t, err)
		_, err = graph.NewLayer1(p)
		require.NoError(t, err)
		_, err = l0.AddTerminal("stray", false)
		require.NoError(t, err)
		return p
	}

	// the default profile tolerates unclaimed terminals, the strict one
	// does not
	assert.NoError(t, NewStructureValidator().Validate(build(domaincfg.DefaultDomainConfig())))
	err := NewStructureValidator().Validate(build(domaincfg.ProductionDomainConfig()))
	assert.True(t, pkgerrors.IsValidation(err))
}

func TestPunctuationUnitWithWordRejected(t *testing.T) {
	p := graph.NewPassage("v3")
	l0, err := graph.NewLayer0(p)
	require.NoError(t, err)
	l1, err := graph.NewLayer1(p)
	require.NoError(t, err)

	// a word terminal placed under a punctuation unit by hand
	w, err := l0.AddTerminal("word", false)
	require.NoError(t, err)
	punct, err := graph.NewNode(p, p.NextID(graph.Layer1ID), graph.TagPunctuation)
	require.NoError(t, err)
	_, err = l1.Head().Node.Add(graph.EdgeTagPunctuation, punct)
	require.NoError(t, err)
	_, err = punct.Add(graph.EdgeTagTerminal, w.Node)
	require.NoError(t, err)

	err = NewStructureValidator().Validate(p)
	assert.True(t, pkgerrors.IsValidation(err))
}
