package genetic

import (
	"math/rand"
	"sort"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/logging"
)

// Result is the outcome of one detection run
type Result struct {
	// Communities holds the best partition found, as external vertex ids
	Communities [][]int64
	// BestFitness is the community score of the best genome
	BestFitness float64
	// BestGenome is the winning genome, kept for reruns and inspection
	BestGenome Genome
	// Generations is the number of breeding rounds performed
	Generations int
	// Seed is the seed the run actually used
	Seed int64
	// Duration is the wall-clock time of the run
	Duration time.Duration
}

// Detect evolves a population of candidate partitions over the model and
// returns the best one found. The run is deterministic for a fixed model,
// options and non-zero seed: all randomness flows from one rand.Rand and the
// engine never touches the global source.
//
// Each generation the population is scored and sorted, the top EliteFraction
// is copied into the next generation unchanged, and the remainder is refilled
// by breeding from the non-elite pool via roulette selection, crossover and
// mutation. A final scoring pass picks the winner, lowest population index
// on ties.
func Detect(m *graph.Model, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	logger.Info("starting detection",
		logging.Vertices(m.Size()),
		logging.Edges(m.EdgeCount()),
		logging.Int("population", opts.PopulationCount),
		logging.Int("generations", opts.Generations),
		logging.Seed(seed),
	)

	population := make([]Genome, opts.PopulationCount)
	for i := range population {
		population[i] = NewGenome(m, rng)
	}

	eliteCount := int(float64(opts.PopulationCount) * opts.EliteFraction)

	for gen := 0; gen < opts.Generations; gen++ {
		ranked := evaluate(population, m, opts.R)

		next := make([]Genome, 0, opts.PopulationCount)
		for _, e := range ranked[:eliteCount] {
			next = append(next, population[e.index].Clone())
		}

		pool := ranked[eliteCount:]
		total := 0.0
		for _, c := range pool {
			total += c.fitness
		}
		if total == 0 && len(pool) > 0 && len(next) < opts.PopulationCount {
			logger.Warn("selection pool scored zero, using uniform selection",
				logging.Generation(gen))
		}

		for len(next) < opts.PopulationCount {
			a := pool[rouletteSelect(pool, total, rng)]
			b := pool[rouletteSelect(pool, total, rng)]
			child := crossover(population[a.index], population[b.index], opts.CrossoverRate, rng)
			child = mutate(child, m, opts.MutationRate, rng)
			next = append(next, child)
		}

		population = next

		logger.Debug("generation complete",
			logging.Generation(gen+1),
			logging.Fitness(ranked[0].fitness),
		)
		if opts.OnGeneration != nil {
			opts.OnGeneration(gen+1, opts.Generations, ranked[0].fitness)
		}
	}

	ranked := evaluate(population, m, opts.R)
	best := ranked[0]
	partition := population[best.index].Decode()

	communities := make([][]int64, len(partition))
	for k, sub := range partition {
		ids := make([]int64, len(sub))
		for j, v := range sub {
			ids[j] = m.ID(v)
		}
		communities[k] = ids
	}

	result := &Result{
		Communities: communities,
		BestFitness: best.fitness,
		BestGenome:  population[best.index].Clone(),
		Generations: opts.Generations,
		Seed:        seed,
		Duration:    time.Since(start),
	}

	logger.Info("detection complete",
		logging.Fitness(result.BestFitness),
		logging.Communities(len(result.Communities)),
		logging.Latency(result.Duration),
	)
	return result, nil
}

// evaluate scores every genome and returns the population ranked by fitness,
// best first, ties broken by lower population index.
func evaluate(population []Genome, m *graph.Model, r float64) []rankedGenome {
	ranked := make([]rankedGenome, len(population))
	for i, g := range population {
		ranked[i] = rankedGenome{index: i, fitness: Score(g.Decode(), m, r)}
	}
	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].fitness != ranked[b].fitness {
			return ranked[a].fitness > ranked[b].fitness
		}
		return ranked[a].index < ranked[b].index
	})
	return ranked
}
