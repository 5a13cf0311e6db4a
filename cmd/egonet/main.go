package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/egonetlab/egonet/pkg/genetic"
	"github.com/egonetlab/egonet/pkg/gexf"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/logging"
)

func main() {
	input := flag.String("input", "", "Friend list JSON produced by egonet-collect (required)")
	output := flag.String("output", "report.json", "Detection report path")
	gexfPath := flag.String("gexf", "", "Optional GEXF export path")
	namesPath := flag.String("names", "", "Optional display name CSV for labels")
	population := flag.Int("population", 0, "Population size")
	generations := flag.Int("generations", 0, "Number of generations")
	r := flag.Float64("r", 0, "Community score exponent")
	crossover := flag.Float64("crossover", -1, "Crossover rate")
	mutation := flag.Float64("mutation", -1, "Mutation rate")
	elite := flag.Float64("elite", -1, "Elite fraction carried over unchanged")
	seed := flag.Int64("seed", 0, "Random seed (0 picks a time-based seed)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "egonet: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.DefaultLogger()

	fmt.Println("🚀 egonet - Community Detection")

	// Load the collected ego network
	adj, err := graphio.LoadAdjacency(*input)
	if err != nil {
		log.Fatalf("Failed to load friend lists: %v", err)
	}

	model, err := graph.Build(adj.Induced())
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	components := model.ConnectedComponents()
	fmt.Printf("\n📊 Graph: %d vertices, %d edges, %d connected components\n",
		model.Size(), model.EdgeCount(), len(components))

	var names map[int64]string
	if *namesPath != "" {
		names, err = graphio.LoadNames(*namesPath)
		if err != nil {
			log.Fatalf("Failed to load names: %v", err)
		}
		fmt.Printf("  Loaded %d display names\n", len(names))
	}

	opts := genetic.DefaultOptions()
	if *population > 0 {
		opts.PopulationCount = *population
	}
	if *generations > 0 {
		opts.Generations = *generations
	}
	if *r > 0 {
		opts.R = *r
	}
	if *crossover >= 0 {
		opts.CrossoverRate = *crossover
	}
	if *mutation >= 0 {
		opts.MutationRate = *mutation
	}
	if *elite >= 0 {
		opts.EliteFraction = *elite
	}
	opts.Seed = *seed
	opts.Logger = logger
	opts.OnGeneration = func(generation, total int, bestFitness float64) {
		if generation%10 == 0 || generation == total {
			fmt.Printf("  Generation %d/%d: best fitness %.4f\n", generation, total, bestFitness)
		}
	}

	fmt.Printf("\n🧬 Evolving %d genomes over %d generations (r=%.2f)...\n",
		opts.PopulationCount, opts.Generations, opts.R)

	result, err := genetic.Detect(model, opts)
	if err != nil {
		log.Fatalf("Detection failed: %v", err)
	}

	fmt.Printf("\n✅ Found %d communities (fitness %.4f, %s, seed %d)\n",
		len(result.Communities), result.BestFitness, result.Duration.Round(time.Millisecond), result.Seed)
	for i, community := range result.Communities {
		fmt.Printf("  Community %d: %d members%s\n", i+1, len(community), memberPreview(community, names))
	}

	report := &graphio.Report{
		Communities:     result.Communities,
		BestFitness:     result.BestFitness,
		Generations:     result.Generations,
		PopulationCount: opts.PopulationCount,
		R:               opts.R,
		CrossoverRate:   opts.CrossoverRate,
		MutationRate:    opts.MutationRate,
		Seed:            result.Seed,
		DurationSeconds: result.Duration.Seconds(),
		CreatedAt:       time.Now().UTC(),
	}
	if err := graphio.SaveReport(*output, report); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	fmt.Printf("\n💾 Report saved to %s\n", *output)

	if *gexfPath != "" {
		err := gexf.WriteFile(*gexfPath, model, gexf.Options{
			Names:       names,
			Communities: result.Communities,
		})
		if err != nil {
			log.Fatalf("Failed to export GEXF: %v", err)
		}
		fmt.Printf("🌐 Graph exported to %s\n", *gexfPath)
	}

	fmt.Println("\n✨ Done")
}

// memberPreview renders a short sample of a community for the console.
func memberPreview(community []int64, names map[int64]string) string {
	const sample = 5
	if len(community) == 0 {
		return ""
	}

	preview := " ("
	for i, id := range community {
		if i == sample {
			preview += ", ..."
			break
		}
		if i > 0 {
			preview += ", "
		}
		if name, ok := names[id]; ok {
			preview += name
		} else {
			preview += fmt.Sprint(id)
		}
	}
	return preview + ")"
}
