package genetic

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestMutateRateZeroIsIdentity(t *testing.T) {
	m := completeFourModel(t)
	rng := rand.New(rand.NewSource(16))

	g := NewGenome(m, rng)
	snapshot := g.Clone()

	for trial := 0; trial < 50; trial++ {
		out := mutate(g, m, 0.0, rng)
		if !reflect.DeepEqual(out, snapshot) {
			t.Fatalf("Expected %v unchanged, got %v", snapshot, out)
		}
	}
}

func TestMutateNeverRewiresSingleNeighborVertices(t *testing.T) {
	m := pathModel(t)
	rng := rand.New(rand.NewSource(17))

	// Dense layout: endpoints 0 and 2, middle 1.
	g := Genome{1, 0, 1}
	if !g.Valid(m) {
		t.Fatal("Test genome is invalid")
	}

	for trial := 0; trial < 200; trial++ {
		out := mutate(g, m, 1.0, rng)
		if out[0] != 1 || out[2] != 1 {
			t.Fatalf("A degree-1 endpoint changed its gene: %v", out)
		}
		if out[1] != 0 && out[1] != 2 {
			t.Fatalf("Middle gene rewired to a non-neighbor: %v", out)
		}
		if !out.Valid(m) {
			t.Fatalf("Mutated genome %v violates adjacency", out)
		}
	}
}

func TestMutateStarvesGracefully(t *testing.T) {
	m := singleEdgeModel(t)
	rng := rand.New(rand.NewSource(18))

	// Both vertices have one neighbor, so no rewiring is possible; the
	// bounded retry loop must give up and return the input.
	g := Genome{1, 0}
	for trial := 0; trial < 20; trial++ {
		out := mutate(g, m, 1.0, rng)
		if !reflect.DeepEqual(out, g) {
			t.Fatalf("Expected unchanged genome, got %v", out)
		}
	}
}

func TestMutateDoesNotModifyInput(t *testing.T) {
	m := completeFourModel(t)
	rng := rand.New(rand.NewSource(19))

	g := NewGenome(m, rng)
	snapshot := g.Clone()

	for trial := 0; trial < 100; trial++ {
		mutate(g, m, 1.0, rng)
		if !reflect.DeepEqual(g, snapshot) {
			t.Fatal("Input genome was modified in place")
		}
	}
}
