package genetic

import "math/rand"

// crossover breeds a child from two parents by uniform crossover: with
// probability rate each gene is drawn from a random parent, otherwise the
// child is a straight copy of one parent picked at random. The returned
// genome never aliases parent storage.
//
// Gene-wise mixing preserves the adjacency constraint because both parents
// hold a valid neighbor at every locus.
func crossover(a, b Genome, rate float64, rng *rand.Rand) Genome {
	if rng.Float64() >= rate {
		if rng.Intn(2) == 0 {
			return a.Clone()
		}
		return b.Clone()
	}

	child := make(Genome, len(a))
	for i := range child {
		if rng.Intn(2) == 0 {
			child[i] = a[i]
		} else {
			child[i] = b[i]
		}
	}
	return child
}
