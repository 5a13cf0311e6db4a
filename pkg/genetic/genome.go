package genetic

import (
	"math/rand"

	"github.com/egonetlab/egonet/pkg/graph"
)

// Genome encodes a candidate partition in locus-based adjacency form: one
// gene per vertex index, where gene i names some neighbor of vertex i. The
// communities are the connected groups of the "i points at gene i" relation,
// recovered by Decode.
//
// Every gene must satisfy the adjacency constraint: the model has an edge
// between i and genome[i]. All operators preserve it, so any genome derived
// from NewGenome stays decodable.
type Genome []int

// NewGenome draws a random valid genome for the model. Each gene is sampled
// uniformly from [0, N) and redrawn until it lands on a neighbor, which keeps
// the sampling simple and unbiased across neighbor sets.
func NewGenome(m *graph.Model, rng *rand.Rand) Genome {
	n := m.Size()
	g := make(Genome, n)
	for i := 0; i < n; i++ {
		c := rng.Intn(n)
		for !m.HasEdge(i, c) {
			c = rng.Intn(n)
		}
		g[i] = c
	}
	return g
}

// Clone returns an independent copy of the genome.
func (g Genome) Clone() Genome {
	out := make(Genome, len(g))
	copy(out, g)
	return out
}

// Valid reports whether every gene points at a neighbor of its vertex.
func (g Genome) Valid(m *graph.Model) bool {
	if len(g) != m.Size() {
		return false
	}
	for i, c := range g {
		if c < 0 || c >= m.Size() || !m.HasEdge(i, c) {
			return false
		}
	}
	return true
}
