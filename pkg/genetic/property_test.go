package genetic

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/egonetlab/egonet/pkg/graph"
)

// TestGenomeInvariants verifies with property-based testing that every
// operator keeps genomes decodable: each gene must always point at a
// neighbor, and decoding must always produce a disjoint cover.
func TestGenomeInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	models := propertyModels(t)
	pickModel := func(pick int) *graph.Model {
		idx := pick % len(models)
		if idx < 0 {
			idx += len(models)
		}
		return models[idx]
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)

	properties.Property("initialization respects adjacency", prop.ForAll(
		func(seed int64, pick int) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			return NewGenome(m, rng).Valid(m)
		},
		gen.Int64(),
		gen.Int(),
	))

	properties.Property("crossover preserves adjacency", prop.ForAll(
		func(seed int64, pick int, rate float64) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			a := NewGenome(m, rng)
			b := NewGenome(m, rng)
			return crossover(a, b, rate, rng).Valid(m)
		},
		gen.Int64(),
		gen.Int(),
		gen.Float64Range(0, 1),
	))

	properties.Property("crossover draws genes from the parents", prop.ForAll(
		func(seed int64, pick int) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			a := NewGenome(m, rng)
			b := NewGenome(m, rng)
			child := crossover(a, b, 1.0, rng)
			for i := range child {
				if child[i] != a[i] && child[i] != b[i] {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.Int(),
	))

	properties.Property("mutation preserves adjacency and its input", prop.ForAll(
		func(seed int64, pick int, rate float64) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			g := NewGenome(m, rng)
			snapshot := g.Clone()
			out := mutate(g, m, rate, rng)
			return out.Valid(m) && reflect.DeepEqual(g, snapshot)
		},
		gen.Int64(),
		gen.Int(),
		gen.Float64Range(0, 1),
	))

	properties.Property("decode yields a disjoint cover", prop.ForAll(
		func(seed int64, pick int) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			p := NewGenome(m, rng).Decode()

			seen := make(map[int]bool)
			for _, sub := range p {
				for _, v := range sub {
					if seen[v] {
						return false
					}
					seen[v] = true
				}
			}
			return len(seen) == m.Size()
		},
		gen.Int64(),
		gen.Int(),
	))

	properties.Property("score is non-negative", prop.ForAll(
		func(seed int64, pick int, r float64) bool {
			m := pickModel(pick)
			rng := rand.New(rand.NewSource(seed))
			p := NewGenome(m, rng).Decode()
			return Score(p, m, r) >= 0
		},
		gen.Int64(),
		gen.Int(),
		gen.Float64Range(0, 3),
	))

	properties.TestingRun(t)
}

func propertyModels(t *testing.T) []*graph.Model {
	t.Helper()
	return []*graph.Model{
		completeFourModel(t),
		twoTrianglesModel(t),
		pathModel(t),
	}
}
