package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"annograph/application/ports"
	"annograph/domain/core/graph"
	"annograph/interfaces/convert"
	pkgerrors "annograph/pkg/errors"
)

// PassageRepository is an in-memory implementation of the passage
// repository port. Passages are stored as canonical JSON snapshots, so a
// caller mutating a passage after Save never changes the stored copy.
type PassageRepository struct {
	mu       sync.RWMutex
	passages map[string][]byte
}

// NewPassageRepository creates an empty in-memory repository
func NewPassageRepository() *PassageRepository {
	return &PassageRepository{
		passages: make(map[string][]byte),
	}
}

// Save persists a passage, replacing any previous version
func (r *PassageRepository) Save(ctx context.Context, p *graph.Passage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil {
		return pkgerrors.NewValidationError("passage cannot be nil")
	}
	data, err := convert.ToJSON(p)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.passages[p.ID()] = data
	return nil
}

// GetByID retrieves a stored passage by id
func (r *PassageRepository) GetByID(ctx context.Context, id string) (*graph.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	data, ok := r.passages[id]
	r.mu.RUnlock()
	if !ok {
		return nil, pkgerrors.NewNotFoundError("passage " + id)
	}
	return convert.FromJSON(data)
}

// List returns stored passage ids matching the criteria, sorted
func (r *PassageRepository) List(ctx context.Context, criteria ports.ListCriteria) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := make([]string, 0, len(r.passages))
	for id := range r.passages {
		if criteria.Prefix == "" || strings.HasPrefix(id, criteria.Prefix) {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()
	sort.Strings(ids)

	if criteria.Offset > 0 {
		if criteria.Offset >= len(ids) {
			return []string{}, nil
		}
		ids = ids[criteria.Offset:]
	}
	if criteria.Limit > 0 && criteria.Limit < len(ids) {
		ids = ids[:criteria.Limit]
	}
	return ids, nil
}

// Delete removes a stored passage
func (r *PassageRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.passages[id]; !ok {
		return pkgerrors.NewNotFoundError("passage " + id)
	}
	delete(r.passages, id)
	return nil
}
