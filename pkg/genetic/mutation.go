package genetic

import (
	"math/rand"

	"github.com/egonetlab/egonet/pkg/graph"
)

// mutationTriesPerVertex bounds the search for a mutable vertex. A graph
// dominated by degree-1 vertices offers few candidates whose gene can change
// to a different neighbor, and an unbounded search would spin on it.
const mutationTriesPerVertex = 8

// mutate rewires one random vertex to a random neighbor with probability
// rate. Only vertices with at least two neighbors are eligible, since a
// degree-1 vertex has a single legal gene value. If no eligible vertex turns
// up within the retry budget the genome is returned unchanged.
//
// The input genome is never modified; a mutated result is a fresh copy.
func mutate(g Genome, m *graph.Model, rate float64, rng *rand.Rand) Genome {
	if rng.Float64() >= rate {
		return g
	}

	budget := mutationTriesPerVertex * len(g)
	for try := 0; try < budget; try++ {
		v := rng.Intn(len(g))
		nbrs := m.Neighbors(v)
		if len(nbrs) < 2 {
			continue
		}
		out := g.Clone()
		out[v] = nbrs[rng.Intn(len(nbrs))]
		return out
	}
	return g
}
