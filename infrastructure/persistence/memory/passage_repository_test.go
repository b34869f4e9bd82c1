package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"annograph/application/ports"
	"annograph/domain/core/graph"
	pkgerrors "annograph/pkg/errors"
)

func newStoredPassage(t *testing.T, id string) *graph.Passage {
	t.Helper()
	p := graph.NewPassage(id)
	l0, err := graph.NewLayer0(p)
	require.NoError(t, err)
	_, err = graph.NewLayer1(p)
	require.NoError(t, err)
	_, err = l0.AddTerminal("word", false)
	require.NoError(t, err)
	return p
}

func TestSaveAndGet(t *testing.T) {
	repo := NewPassageRepository()
	ctx := context.Background()

	p := newStoredPassage(t, "p1")
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID())

	l0, err := graph.Layer0Of(got)
	require.NoError(t, err)
	require.Len(t, l0.All(), 1)
	assert.Equal(t, "word", l0.All()[0].Text())

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestSaveIsolatesSnapshot(t *testing.T) {
	repo := NewPassageRepository()
	ctx := context.Background()

	p := newStoredPassage(t, "p1")
	require.NoError(t, repo.Save(ctx, p))

	// mutations after save must not reach the stored copy
	l0, err := graph.Layer0Of(p)
	require.NoError(t, err)
	_, err = l0.AddTerminal("later", false)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	gotL0, err := graph.Layer0Of(got)
	require.NoError(t, err)
	assert.Len(t, gotL0.All(), 1)
}

func TestListAndDelete(t *testing.T) {
	repo := NewPassageRepository()
	ctx := context.Background()

	for _, id := range []string{"b2", "a1", "a2"} {
		require.NoError(t, repo.Save(ctx, newStoredPassage(t, id)))
	}

	ids, err := repo.List(ctx, ports.ListCriteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2", "b2"}, ids)

	ids, err = repo.List(ctx, ports.ListCriteria{Prefix: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a1", "a2"}, ids)

	ids, err = repo.List(ctx, ports.ListCriteria{Offset: 1, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a2"}, ids)

	ids, err = repo.List(ctx, ports.ListCriteria{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repo.Delete(ctx, "a1"))
	err = repo.Delete(ctx, "a1")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestContextCancellation(t *testing.T) {
	repo := NewPassageRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Save(ctx, newStoredPassage(t, "p1")))
	_, err := repo.GetByID(ctx, "p1")
	assert.Error(t, err)
}
