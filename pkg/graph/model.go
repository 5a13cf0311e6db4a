package graph

import "sort"

// AdjacencyList maps an external vertex id to the ids of its neighbors.
// Keys are sparse, non-contiguous identifiers (VK user ids in practice).
// The listing does not have to be symmetric: a crawl that saw the edge
// from one side only is still valid input for Build.
type AdjacencyList map[int64][]int64

// Induced restricts the listing to vertices that appear as keys, dropping
// every neighbor entry that points outside the crawled set. A raw crawl
// references friends of friends that were never visited; the induced
// listing is the subgraph detection actually runs on.
func (a AdjacencyList) Induced() AdjacencyList {
	induced := make(AdjacencyList, len(a))
	for id, nbrs := range a {
		kept := make([]int64, 0, len(nbrs))
		for _, nb := range nbrs {
			if _, ok := a[nb]; ok {
				kept = append(kept, nb)
			}
		}
		induced[id] = kept
	}
	return induced
}

// Model is the canonical in-memory form of a crawled graph. Every distinct
// vertex is assigned a dense index in [0, N) and the edges are materialized
// as a symmetric 0/1 adjacency matrix plus per-vertex neighbor lists.
//
// A Model is immutable after Build and safe to share across any number of
// concurrent detection runs.
type Model struct {
	ids       []int64       // dense index -> external id, ascending
	index     map[int64]int // external id -> dense index
	matrix    [][]uint8     // symmetric adjacency, diagonal always zero
	neighbors [][]int       // dense neighbor lists, ascending
}

// Build constructs a Model from an adjacency list. Vertices are collected
// from both keys and neighbor entries, deduplicated and indexed in ascending
// id order so the same input always produces the same model. Edges are
// symmetrized and self-loops dropped.
//
// Returns ErrEmptyGraph for an empty listing and an IsolatedVertexError for
// any vertex that ends up with no neighbors at all.
func Build(adj AdjacencyList) (*Model, error) {
	if len(adj) == 0 {
		return nil, ErrEmptyGraph
	}

	seen := make(map[int64]struct{}, len(adj))
	for id, nbrs := range adj {
		seen[id] = struct{}{}
		for _, nb := range nbrs {
			seen[nb] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	n := len(ids)
	matrix := make([][]uint8, n)
	for i := range matrix {
		matrix[i] = make([]uint8, n)
	}
	for id, nbrs := range adj {
		i := index[id]
		for _, nb := range nbrs {
			j := index[nb]
			if i == j {
				continue
			}
			matrix[i][j] = 1
			matrix[j][i] = 1
		}
	}

	neighbors := make([][]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if matrix[i][j] == 1 {
				neighbors[i] = append(neighbors[i], j)
			}
		}
		if len(neighbors[i]) == 0 {
			return nil, &IsolatedVertexError{ID: ids[i]}
		}
	}

	return &Model{
		ids:       ids,
		index:     index,
		matrix:    matrix,
		neighbors: neighbors,
	}, nil
}

// Size returns the number of vertices.
func (m *Model) Size() int {
	return len(m.ids)
}

// EdgeCount returns the number of undirected edges.
func (m *Model) EdgeCount() int {
	total := 0
	for _, nbrs := range m.neighbors {
		total += len(nbrs)
	}
	return total / 2
}

// ID maps a dense index back to its external id.
func (m *Model) ID(i int) int64 {
	return m.ids[i]
}

// IDs returns all external ids in dense index order. The returned slice is
// shared and must not be modified.
func (m *Model) IDs() []int64 {
	return m.ids
}

// IndexOf maps an external id to its dense index.
func (m *Model) IndexOf(id int64) (int, error) {
	i, ok := m.index[id]
	if !ok {
		return 0, &VertexNotFoundError{ID: id}
	}
	return i, nil
}

// HasEdge reports whether vertices i and j are adjacent.
func (m *Model) HasEdge(i, j int) bool {
	return m.matrix[i][j] == 1
}

// Degree returns the number of neighbors of vertex i.
func (m *Model) Degree(i int) int {
	return len(m.neighbors[i])
}

// Neighbors returns the dense indices adjacent to vertex i, in ascending
// order. The returned slice is shared and must not be modified.
func (m *Model) Neighbors(i int) []int {
	return m.neighbors[i]
}
