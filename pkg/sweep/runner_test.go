package sweep

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/metrics"
	"github.com/egonetlab/egonet/pkg/pubsub"
)

func twoTrianglesModel(t *testing.T) *graph.Model {
	t.Helper()

	m, err := graph.Build(graph.AdjacencyList{
		1: {2, 3},
		2: {1, 3},
		3: {1, 2},
		4: {5, 6},
		5: {4, 6},
		6: {4, 5},
	})
	if err != nil {
		t.Fatalf("Failed to build model: %v", err)
	}
	return m
}

func smallGrid() Grid {
	return Grid{
		PopulationCounts: []int{10, 20},
		GenerationCounts: []int{3, 5},
		RValues:          []float64{1.0},
		CrossoverRates:   []float64{0.7},
		MutationRates:    []float64{0.2},
		EliteFractions:   []float64{0.1},
	}
}

func TestRunEvaluatesEveryTask(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 42,
		Metrics:  metrics.NewRegistry(),
	})

	report, err := runner.Run(context.Background(), m, smallGrid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Tasks) != 4 {
		t.Fatalf("Expected 4 task reports, got %d", len(report.Tasks))
	}
	for i, task := range report.Tasks {
		if task.Ordinal != i {
			t.Errorf("Expected ordinal %d, got %d", i, task.Ordinal)
		}
		if task.Error != "" {
			t.Errorf("Expected task %d to succeed, got %q", i, task.Error)
		}
		if task.BestFitness <= 0 {
			t.Errorf("Expected positive fitness for task %d, got %f", i, task.BestFitness)
		}
	}
	if report.Vertices != 6 || report.Edges != 6 {
		t.Errorf("Expected 6 vertices and 6 edges, got %d and %d", report.Vertices, report.Edges)
	}
}

func TestRunFindsTriangleSplit(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 7,
		Metrics:  metrics.NewRegistry(),
	})

	report, err := runner.Run(context.Background(), m, smallGrid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// At r=1 the disjoint triangles always decode to the exact split.
	if report.Best.BestFitness != 8.0 {
		t.Errorf("Expected best fitness 8.0, got %f", report.Best.BestFitness)
	}
	want := [][]int64{{1, 2, 3}, {4, 5, 6}}
	if len(report.BestCommunities) != 2 {
		t.Fatalf("Expected 2 communities, got %d", len(report.BestCommunities))
	}
	for i, community := range report.BestCommunities {
		if len(community) != 3 {
			t.Fatalf("Expected community of 3, got %v", community)
		}
		for j, id := range community {
			if id != want[i][j] {
				t.Fatalf("Expected communities %v, got %v", want, report.BestCommunities)
			}
		}
	}
}

func TestRunBestPrefersLowestOrdinal(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 11,
		Metrics:  metrics.NewRegistry(),
	})

	report, err := runner.Run(context.Background(), m, smallGrid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, task := range report.Tasks {
		if task.BestFitness > report.Best.BestFitness {
			t.Errorf("Task %d beats the reported best", task.Ordinal)
		}
		if task.BestFitness == report.Best.BestFitness && task.Ordinal < report.Best.Ordinal {
			t.Errorf("Expected tie broken by ordinal %d, got %d", task.Ordinal, report.Best.Ordinal)
		}
	}
}

func TestRunIsDeterministicForFixedSeed(t *testing.T) {
	m := twoTrianglesModel(t)

	fitnesses := func() []float64 {
		runner := NewRunner(RunnerOptions{
			Workers:  3,
			BaseSeed: 1234,
			Metrics:  metrics.NewRegistry(),
		})
		report, err := runner.Run(context.Background(), m, smallGrid())
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		values := make([]float64, len(report.Tasks))
		for i, task := range report.Tasks {
			values[i] = task.BestFitness
		}
		return values
	}

	first := fitnesses()
	second := fitnesses()
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Task %d fitness differs across runs: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestRunPublishesProgress(t *testing.T) {
	m := twoTrianglesModel(t)

	bus := pubsub.NewBus()
	defer bus.Close()
	progressSub := bus.Subscribe(TopicProgress, 16)
	generationSub := bus.Subscribe(TopicGeneration, 64)

	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 5,
		Bus:      bus,
		Metrics:  metrics.NewRegistry(),
	})
	if _, err := runner.Run(context.Background(), m, smallGrid()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var completed []int
	for len(completed) < 4 {
		select {
		case event := <-progressSub.Events():
			progress, ok := event.(Progress)
			if !ok {
				t.Fatalf("Expected a Progress event, got %T", event)
			}
			if progress.Status != "ok" {
				t.Errorf("Expected status ok, got %q", progress.Status)
			}
			if progress.Total != 4 {
				t.Errorf("Expected total 4, got %d", progress.Total)
			}
			completed = append(completed, progress.Completed)
		default:
			t.Fatalf("Expected 4 progress events, got %d", len(completed))
		}
	}
	sort.Ints(completed)
	for i, got := range completed {
		if got != i+1 {
			t.Errorf("Expected completed counts 1..4, got %v", completed)
		}
	}

	// Tasks run 3+5+3+5 generations in total.
	generations := 0
	for {
		select {
		case event := <-generationSub.Events():
			if _, ok := event.(GenerationEvent); !ok {
				t.Fatalf("Expected a GenerationEvent, got %T", event)
			}
			generations++
			continue
		default:
		}
		break
	}
	if generations != 16 {
		t.Errorf("Expected 16 generation events, got %d", generations)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{
		Workers: 2,
		Metrics: metrics.NewRegistry(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Run(ctx, m, smallGrid())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsInvalidGrid(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{Metrics: metrics.NewRegistry()})

	grid := smallGrid()
	grid.RValues = nil

	_, err := runner.Run(context.Background(), m, grid)
	if !errors.Is(err, ErrInvalidGrid) {
		t.Fatalf("Expected ErrInvalidGrid, got %v", err)
	}
}

func TestRunUpdatesBestFitnessGauge(t *testing.T) {
	m := twoTrianglesModel(t)
	registry := metrics.NewRegistry()
	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 3,
		Metrics:  registry,
	})

	report, err := runner.Run(context.Background(), m, smallGrid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	metric := &dto.Metric{}
	if err := registry.SweepBestFitness.Write(metric); err != nil {
		t.Fatalf("Failed to read gauge: %v", err)
	}
	if got := metric.GetGauge().GetValue(); got != report.Best.BestFitness {
		t.Errorf("Expected gauge %f, got %f", report.Best.BestFitness, got)
	}
}

func TestBuildReportAllFailed(t *testing.T) {
	m := twoTrianglesModel(t)
	tasks := smallGrid().Tasks(1)
	outcomes := make([]outcome, len(tasks))
	for i := range outcomes {
		outcomes[i].err = errors.New("boom")
	}

	_, err := buildReport(m, tasks, outcomes, time.Second)
	if !errors.Is(err, ErrNoResults) {
		t.Fatalf("Expected ErrNoResults, got %v", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	m := twoTrianglesModel(t)
	runner := NewRunner(RunnerOptions{
		Workers:  2,
		BaseSeed: 9,
		Metrics:  metrics.NewRegistry(),
	})

	report, err := runner.Run(context.Background(), m, smallGrid())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, name := range []string{"report.json", "report.json.sz"} {
		path := filepath.Join(t.TempDir(), name)
		if err := report.Save(path); err != nil {
			t.Fatalf("Save failed for %s: %v", name, err)
		}

		loaded, err := LoadReport(path)
		if err != nil {
			t.Fatalf("LoadReport failed for %s: %v", name, err)
		}
		if loaded.Best.BestFitness != report.Best.BestFitness {
			t.Errorf("Expected best fitness %f, got %f", report.Best.BestFitness, loaded.Best.BestFitness)
		}
		if len(loaded.Tasks) != len(report.Tasks) {
			t.Errorf("Expected %d tasks, got %d", len(report.Tasks), len(loaded.Tasks))
		}
	}
}
