package ports

import (
	"context"

	"annograph/domain/core/graph"
)

// PassageRepository defines the interface for passage persistence.
// This is a port in hexagonal architecture: the domain does not know about
// the implementation behind it.
type PassageRepository interface {
	// Save persists a passage (create or update)
	Save(ctx context.Context, p *graph.Passage) error

	// GetByID retrieves a passage by its external id
	GetByID(ctx context.Context, id string) (*graph.Passage, error)

	// List returns the stored passage ids matching the criteria
	List(ctx context.Context, criteria ListCriteria) ([]string, error)

	// Delete removes a passage
	Delete(ctx context.Context, id string) error
}

// ListCriteria defines listing parameters
type ListCriteria struct {
	Prefix string
	Limit  int
	Offset int
}

// PassageSource is a read-only provider of passages, such as a remote
// annotation server
type PassageSource interface {
	// Fetch retrieves a passage by id
	Fetch(ctx context.Context, id string) (*graph.Passage, error)
}

// PassageSink accepts finished passages, such as a remote annotation
// server's submit endpoint
type PassageSink interface {
	// Submit uploads a passage
	Submit(ctx context.Context, p *graph.Passage) error
}
