package genetic

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestDecodeChainMergesAll(t *testing.T) {
	m := completeFourModel(t)

	// 0 -> 1 -> 2 -> 3 -> 0 is one connected group.
	g := Genome{1, 2, 3, 0}
	if !g.Valid(m) {
		t.Fatal("Test genome is invalid")
	}

	p := g.Decode()
	want := Partition{{0, 1, 2, 3}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Expected %v, got %v", want, p)
	}
}

func TestDecodeKeepsComponentsApart(t *testing.T) {
	m := twoTrianglesModel(t)

	g := Genome{1, 0, 1, 4, 3, 4}
	if !g.Valid(m) {
		t.Fatal("Test genome is invalid")
	}

	p := g.Decode()
	want := Partition{{0, 1, 2}, {3, 4, 5}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Expected %v, got %v", want, p)
	}
}

func TestDecodePairGroups(t *testing.T) {
	m := completeFourModel(t)

	// Mutual pointers form two pairs.
	g := Genome{1, 0, 3, 2}
	if !g.Valid(m) {
		t.Fatal("Test genome is invalid")
	}

	p := g.Decode()
	want := Partition{{0, 1}, {2, 3}}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Expected %v, got %v", want, p)
	}
}

func TestDecodeOrderingIsCanonical(t *testing.T) {
	m := completeFourModel(t)
	rng := rand.New(rand.NewSource(4))

	for trial := 0; trial < 50; trial++ {
		p := NewGenome(m, rng).Decode()
		for k, sub := range p {
			if len(sub) == 0 {
				t.Fatal("Empty subset in partition")
			}
			for j := 1; j < len(sub); j++ {
				if sub[j-1] >= sub[j] {
					t.Fatalf("Subset %v is not ascending", sub)
				}
			}
			if k > 0 && p[k-1][0] >= sub[0] {
				t.Fatalf("Subsets out of order: %v", p)
			}
		}
	}
}

func TestDecodeCoversEveryVertexOnce(t *testing.T) {
	m := twoTrianglesModel(t)
	rng := rand.New(rand.NewSource(5))

	for trial := 0; trial < 50; trial++ {
		p := NewGenome(m, rng).Decode()
		seen := make(map[int]int)
		for _, sub := range p {
			for _, v := range sub {
				seen[v]++
			}
		}
		if len(seen) != m.Size() {
			t.Fatalf("Partition covers %d vertices, want %d", len(seen), m.Size())
		}
		for v, count := range seen {
			if count != 1 {
				t.Fatalf("Vertex %d appears %d times", v, count)
			}
		}
	}
}

func TestDecodeEmptyGenome(t *testing.T) {
	p := Genome{}.Decode()
	if len(p) != 0 {
		t.Errorf("Expected empty partition, got %v", p)
	}
}

func BenchmarkDecode(b *testing.B) {
	n := 500
	g := make(Genome, n)
	for i := range g {
		// A ring keeps the union-find busy without a model.
		g[i] = (i + 1) % n
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Decode()
	}
}
