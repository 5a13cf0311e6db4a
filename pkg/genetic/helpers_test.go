package genetic

import (
	"testing"

	"github.com/egonetlab/egonet/pkg/graph"
)

// completeFourModel builds the complete graph on external ids 1..4.
func completeFourModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := graph.Build(graph.AdjacencyList{
		1: {2, 3, 4},
		2: {1, 3, 4},
		3: {1, 2, 4},
		4: {1, 2, 3},
	})
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}

// buildTwoTriangles builds two disjoint triangles, ids 1..3 and 4..6.
func buildTwoTriangles() (*graph.Model, error) {
	return graph.Build(graph.AdjacencyList{
		1: {2, 3},
		2: {1, 3},
		3: {1, 2},
		4: {5, 6},
		5: {4, 6},
		6: {4, 5},
	})
}

func twoTrianglesModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := buildTwoTriangles()
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}

// pathModel builds the path 1 - 2 - 3; the endpoints have a single neighbor.
func pathModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := graph.Build(graph.AdjacencyList{
		1: {2},
		2: {1, 3},
		3: {2},
	})
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}

// singleEdgeModel builds one edge; both vertices have degree 1.
func singleEdgeModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := graph.Build(graph.AdjacencyList{1: {2}})
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}
