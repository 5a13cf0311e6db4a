package genetic

import (
	"sort"

	"github.com/egonetlab/egonet/pkg/pools"
)

// Partition groups vertex indices into disjoint communities. Each subset is
// sorted ascending and subsets are ordered by their smallest member, so a
// genome always decodes to the same representation.
type Partition [][]int

// Decode recovers the communities encoded by the genome: vertices i and
// genome[i] always share a community, and communities are the transitive
// closure of that relation. Implemented as union-find with path compression
// and union by rank, one union per gene.
func (g Genome) Decode() Partition {
	n := len(g)
	if n == 0 {
		return Partition{}
	}

	// Pooled scratch arrives dirty, both arrays are fully initialized
	// before use.
	parent := pools.GetInts(n)
	rank := pools.GetInts(n)
	defer pools.PutInts(parent)
	defer pools.PutInts(rank)
	for i := range parent {
		parent[i] = i
		rank[i] = 0
	}

	var find func(x int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}

	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		if rank[ra] < rank[rb] {
			ra, rb = rb, ra
		}
		parent[rb] = ra
		if rank[ra] == rank[rb] {
			rank[ra]++
		}
	}

	for i, c := range g {
		union(i, c)
	}

	// The ascending scan keeps each member list sorted as it is built.
	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}

	subsets := make(Partition, 0, len(groups))
	for _, members := range groups {
		subsets = append(subsets, members)
	}
	sort.Slice(subsets, func(a, b int) bool {
		return subsets[a][0] < subsets[b][0]
	})
	return subsets
}
