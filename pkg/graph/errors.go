package graph

import (
	"errors"
	"fmt"
)

// Common graph construction errors
var (
	// ErrEmptyGraph is returned when an adjacency list contains no vertices
	ErrEmptyGraph = errors.New("graph has no vertices")

	// ErrIsolatedVertex is returned when a vertex has no neighbors after
	// symmetrization
	ErrIsolatedVertex = errors.New("vertex has no neighbors")

	// ErrVertexNotFound is returned when an external id is not part of the model
	ErrVertexNotFound = errors.New("vertex not found")
)

// IsolatedVertexError reports which vertex made the graph unusable for
// detection. Every vertex must have at least one neighbor so that a genome
// can point each vertex at one of its neighbors.
type IsolatedVertexError struct {
	ID int64
}

func (e *IsolatedVertexError) Error() string {
	return fmt.Sprintf("vertex %d has no neighbors", e.ID)
}

func (e *IsolatedVertexError) Unwrap() error {
	return ErrIsolatedVertex
}

// VertexNotFoundError reports a lookup for an external id that was never part
// of the adjacency list the model was built from.
type VertexNotFoundError struct {
	ID int64
}

func (e *VertexNotFoundError) Error() string {
	return fmt.Sprintf("vertex %d not found", e.ID)
}

func (e *VertexNotFoundError) Unwrap() error {
	return ErrVertexNotFound
}
