package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/egonetlab/egonet/pkg/gexf"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/sweep"
	"github.com/egonetlab/egonet/pkg/visualization"
)

func main() {
	input := flag.String("input", "", "Friend list JSON produced by egonet-collect (required)")
	namesPath := flag.String("names", "", "Optional display name CSV for labels")
	reportPath := flag.String("report", "", "Detection or sweep report whose communities tag the nodes")
	layout := flag.String("layout", "", "Embed node positions: force, circular or communities")
	seed := flag.Int64("seed", 0, "Random seed for the force layout (0 picks a time-based seed)")
	output := flag.String("output", "graph.gexf", "GEXF output path")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "egonet-export: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	adj, err := graphio.LoadAdjacency(*input)
	if err != nil {
		log.Fatalf("Failed to load friend lists: %v", err)
	}
	model, err := graph.Build(adj.Induced())
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	var names map[int64]string
	if *namesPath != "" {
		names, err = graphio.LoadNames(*namesPath)
		if err != nil {
			log.Fatalf("Failed to load names: %v", err)
		}
	}

	var communities [][]int64
	if *reportPath != "" {
		communities, err = loadCommunities(*reportPath)
		if err != nil {
			log.Fatalf("Failed to load report: %v", err)
		}
	}

	opts := gexf.Options{Names: names, Communities: communities}
	if *layout != "" {
		positions, err := computeLayout(model, *layout, communities, *seed)
		if err != nil {
			log.Fatalf("Failed to compute layout: %v", err)
		}
		opts.Positions = positions
	}

	if err := gexf.WriteFile(*output, model, opts); err != nil {
		log.Fatalf("Failed to write GEXF: %v", err)
	}

	fmt.Printf("🌐 Exported %d nodes and %d edges to %s\n", model.Size(), model.EdgeCount(), *output)
	if len(communities) > 0 {
		fmt.Printf("  Nodes tagged with %d communities from %s\n", len(communities), *reportPath)
	}
	if *layout != "" {
		fmt.Printf("  Positions embedded using the %s layout\n", *layout)
	}
}

// loadCommunities reads the community partition from either report
// format. Detection reports carry the partition directly, sweep reports
// carry it on the best task.
func loadCommunities(path string) ([][]int64, error) {
	report, err := graphio.LoadReport(path)
	if err != nil {
		return nil, err
	}
	if len(report.Communities) > 0 {
		return report.Communities, nil
	}

	sweepReport, err := sweep.LoadReport(path)
	if err != nil {
		return nil, err
	}
	if len(sweepReport.BestCommunities) > 0 {
		return sweepReport.BestCommunities, nil
	}
	return nil, fmt.Errorf("report %s holds no communities", path)
}

func computeLayout(model *graph.Model, name string, communities [][]int64, seed int64) (map[int64]gexf.Position, error) {
	config := visualization.DefaultConfig()
	config.Seed = seed

	var layout visualization.Layout
	switch name {
	case "force":
		layout = visualization.NewForceDirectedLayout(config)
	case "circular":
		layout = visualization.NewCircularLayout(config)
	case "communities":
		if len(communities) == 0 {
			return nil, fmt.Errorf("the communities layout needs -report")
		}
		layout = visualization.NewCommunityLayout(config, communities)
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}

	positions := make(map[int64]gexf.Position, model.Size())
	for id, pos := range layout.ComputeLayout(model) {
		positions[id] = gexf.Position{X: pos.X, Y: pos.Y}
	}
	return positions, nil
}
