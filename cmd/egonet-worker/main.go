package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/egonetlab/egonet/pkg/distrib"
	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
	"github.com/egonetlab/egonet/pkg/logging"
	"github.com/egonetlab/egonet/pkg/metrics"
)

func main() {
	graphPath := flag.String("graph", "", "Friend list JSON produced by egonet-collect (required)")
	taskAddr := flag.String("task-addr", "tcp://localhost:7750", "Coordinator task address")
	resultAddr := flag.String("result-addr", "tcp://localhost:7751", "Coordinator result address")
	workerID := flag.String("id", "", "Worker id reported in results (default: random)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9101)")
	flag.Parse()

	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "egonet-worker: -graph is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := logging.DefaultLogger()

	adj, err := graphio.LoadAdjacency(*graphPath)
	if err != nil {
		log.Fatalf("Failed to load friend lists: %v", err)
	}
	model, err := graph.Build(adj.Induced())
	if err != nil {
		log.Fatalf("Failed to build graph: %v", err)
	}

	registry := metrics.DefaultRegistry()
	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
			logger.Info("metrics server listening", logging.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server failed", logging.Error(err))
			}
		}()
	}

	config := distrib.DefaultWorkerConfig()
	config.TaskAddr = *taskAddr
	config.ResultAddr = *resultAddr
	config.WorkerID = *workerID
	config.Metrics = registry

	worker, err := distrib.NewWorker(distrib.NewMangosSocketFactory(), config, model, logger)
	if err != nil {
		log.Fatalf("Failed to create worker: %v", err)
	}
	if err := worker.Start(); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	fmt.Printf("🚀 egonet-worker %s ready\n", worker.ID())
	fmt.Printf("  Graph: %d vertices, %d edges\n", model.Size(), model.EdgeCount())
	fmt.Printf("  Pulling tasks from %s, pushing results to %s\n", *taskAddr, *resultAddr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n👋 Shutting down")
	if err := worker.Stop(); err != nil {
		logger.Error("worker shutdown failed", logging.Error(err))
		os.Exit(1)
	}
}
