package genetic

import "math/rand"

// rankedGenome pairs a population index with the fitness it earned in the
// current generation.
type rankedGenome struct {
	index   int
	fitness float64
}

// rouletteSelect picks a position in pool with probability proportional to
// fitness. When total is zero (every candidate scored zero) it falls back to
// a uniform draw. Float rounding can leave the accumulated fraction just
// short of the drawn point, in which case the last position wins.
func rouletteSelect(pool []rankedGenome, total float64, rng *rand.Rand) int {
	if total <= 0 {
		return rng.Intn(len(pool))
	}

	point := rng.Float64()
	acc := 0.0
	for k := range pool {
		acc += pool[k].fitness
		if point < acc/total {
			return k
		}
	}
	return len(pool) - 1
}
