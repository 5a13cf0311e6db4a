package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egonetlab/egonet/pkg/archive"
	"github.com/egonetlab/egonet/pkg/distrib"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/pubsub"
	"github.com/egonetlab/egonet/pkg/sweep"
)

func main() {
	input := flag.String("input", "", "Friend list JSON produced by egonet-collect (required)")
	gridPath := flag.String("grid", "", "Sweep grid YAML (default: built-in grid)")
	output := flag.String("output", "result.json", "Sweep report path")
	workers := flag.Int("workers", 6, "Concurrent tasks in local mode")
	seed := flag.Int64("seed", 0, "Base seed for the sweep (0 picks a time-based seed)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	coordinator := flag.Bool("coordinator", false, "Distribute tasks to egonet-worker processes")
	taskAddr := flag.String("task-addr", "tcp://*:7750", "Task socket address in coordinator mode")
	resultAddr := flag.String("result-addr", "tcp://*:7751", "Result socket address in coordinator mode")
	s3Bucket := flag.String("s3-bucket", "", "Archive the report to this S3 bucket")
	s3Endpoint := flag.String("s3-endpoint", "", "S3 compatible endpoint, e.g. a local MinIO")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "egonet-sweep: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.DefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	grid := sweep.DefaultGrid()
	if *gridPath != "" {
		var err error
		grid, err = sweep.LoadGrid(*gridPath)
		if err != nil {
			log.Fatalf("Failed to load grid: %v", err)
		}
	}

	adj, err := graphio.LoadAdjacency(*input)
	if err != nil {
		log.Fatalf("Failed to load friend lists: %v", err)
	}
	model, err := graph.Build(adj.Induced())
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	registry := metrics.DefaultRegistry()
	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, registry, logger)
	}

	fmt.Println("🚀 egonet-sweep - Parameter Sweep")
	fmt.Printf("  Graph: %d vertices, %d edges\n", model.Size(), model.EdgeCount())
	fmt.Printf("  Grid: %d tasks\n", grid.Size())

	var report *sweep.Report
	if *coordinator {
		report, err = runDistributed(ctx, model, grid, *seed, *taskAddr, *resultAddr, logger)
	} else {
		report, err = runLocal(ctx, model, grid, *seed, *workers, registry, logger)
	}
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}

	best := report.Best
	fmt.Printf("\n✅ Best: fitness %.4f with %d communities\n", best.BestFitness, best.Communities)
	fmt.Printf("  population=%d generations=%d r=%.2f crossover=%.2f mutation=%.2f elite=%.2f seed=%d\n",
		best.PopulationCount, best.Generations, best.R,
		best.CrossoverRate, best.MutationRate, best.EliteFraction, best.Seed)
	if failed := failedTasks(report); failed > 0 {
		fmt.Printf("⚠️  %d of %d tasks failed\n", failed, len(report.Tasks))
	}

	if err := report.Save(*output); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}
	fmt.Printf("\n💾 Report saved to %s\n", *output)

	if *s3Bucket != "" {
		if err := archiveReport(ctx, *s3Bucket, *s3Endpoint, *output, logger); err != nil {
			log.Fatalf("Failed to archive report: %v", err)
		}
	}
	fmt.Println("\n✨ Done")
}

func archiveReport(ctx context.Context, bucket, endpoint, reportPath string, logger logging.Logger) error {
	store, err := archive.New(ctx, archive.Options{
		Bucket:   bucket,
		Prefix:   path.Join("egonet", time.Now().UTC().Format("2006-01-02")),
		Endpoint: endpoint,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	key, err := store.UploadFile(ctx, reportPath)
	if err != nil {
		return err
	}
	fmt.Printf("☁️  Report archived to s3://%s/%s\n", bucket, key)
	return nil
}

func runLocal(ctx context.Context, model *graph.Model, grid sweep.Grid, seed int64, workers int, registry *metrics.Registry, logger logging.Logger) (*sweep.Report, error) {
	bus := pubsub.NewBus()
	sub := bus.Subscribe(sweep.TopicProgress, 64)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		best := 0.0
		for event := range sub.Events() {
			p, ok := event.(sweep.Progress)
			if !ok {
				continue
			}
			if p.BestFitness > best {
				best = p.BestFitness
			}
			fmt.Printf("\r  Tasks %d/%d, best fitness %.4f", p.Completed, p.Total, best)
		}
	}()

	runner := sweep.NewRunner(sweep.RunnerOptions{
		Workers:  workers,
		BaseSeed: seed,
		Bus:      bus,
		Logger:   logger,
		Metrics:  registry,
	})

	fmt.Printf("\n🧬 Running %d tasks across %d workers...\n", grid.Size(), workers)
	report, err := runner.Run(ctx, model, grid)
	bus.Close()
	<-drained
	fmt.Println()
	return report, err
}

func runDistributed(ctx context.Context, model *graph.Model, grid sweep.Grid, seed int64, taskAddr, resultAddr string, logger logging.Logger) (*sweep.Report, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	config := distrib.DefaultCoordinatorConfig()
	config.TaskAddr = taskAddr
	config.ResultAddr = resultAddr
	coord, err := distrib.NewCoordinator(distrib.NewMangosSocketFactory(), config, logger)
	if err != nil {
		return nil, err
	}
	if err := coord.Start(); err != nil {
		return nil, err
	}
	defer coord.Stop()

	tasks := grid.Tasks(seed)
	fmt.Printf("\n🌐 Distributing %d tasks on %s, collecting on %s...\n",
		len(tasks), taskAddr, resultAddr)

	start := time.Now()
	results, err := coord.Distribute(ctx, tasks)
	if err != nil {
		return nil, err
	}
	return distrib.BuildReport(model, tasks, results, time.Since(start))
}

func serveMetrics(addr string, registry *metrics.Registry, logger logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	logger.Info("metrics server listening", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server failed", logging.Error(err))
	}
}

func failedTasks(report *sweep.Report) int {
	failed := 0
	for _, task := range report.Tasks {
		if task.Error != "" {
			failed++
		}
	}
	return failed
}
