package sweep

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/graphio"
)

// TaskReport is the recorded outcome of one sweep task.
type TaskReport struct {
	TaskID          string  `json:"task_id"`
	Ordinal         int     `json:"ordinal"`
	PopulationCount int     `json:"population_count"`
	Generations     int     `json:"generation"`
	R               float64 `json:"r"`
	CrossoverRate   float64 `json:"crossover_rate"`
	MutationRate    float64 `json:"mutation_rate"`
	EliteFraction   float64 `json:"elite_reproduction"`
	Seed            int64   `json:"seed"`
	BestFitness     float64 `json:"best_fitness"`
	Communities     int     `json:"communities"`
	DurationSeconds float64 `json:"duration_seconds"`
	Error           string  `json:"error,omitempty"`
}

// Report aggregates a finished sweep. Best is the highest scoring
// successful task, ties broken by the lowest ordinal.
type Report struct {
	CreatedAt       time.Time    `json:"created_at"`
	Vertices        int          `json:"vertices"`
	Edges           int          `json:"edges"`
	DurationSeconds float64      `json:"duration_seconds"`
	Tasks           []TaskReport `json:"tasks"`
	Best            TaskReport   `json:"best"`
	BestCommunities [][]int64    `json:"best_communities"`
}

// buildReport folds per-task outcomes into a Report.
func buildReport(m *graph.Model, tasks []Task, outcomes []outcome, elapsed time.Duration) (*Report, error) {
	report := &Report{
		CreatedAt:       time.Now().UTC(),
		Vertices:        m.Size(),
		Edges:           m.EdgeCount(),
		DurationSeconds: elapsed.Seconds(),
		Tasks:           make([]TaskReport, len(tasks)),
	}

	bestIdx := -1
	for i, task := range tasks {
		out := outcomes[i]
		entry := TaskReport{
			TaskID:          task.ID,
			Ordinal:         task.Ordinal,
			PopulationCount: task.Options.PopulationCount,
			Generations:     task.Options.Generations,
			R:               task.Options.R,
			CrossoverRate:   task.Options.CrossoverRate,
			MutationRate:    task.Options.MutationRate,
			EliteFraction:   task.Options.EliteFraction,
			Seed:            task.Options.Seed,
			DurationSeconds: out.duration.Seconds(),
		}
		if out.err != nil {
			entry.Error = out.err.Error()
		} else {
			entry.BestFitness = out.result.BestFitness
			entry.Communities = len(out.result.Communities)
			if bestIdx < 0 || entry.BestFitness > report.Tasks[bestIdx].BestFitness {
				bestIdx = i
			}
		}
		report.Tasks[i] = entry
	}

	if bestIdx < 0 {
		return nil, ErrNoResults
	}
	report.Best = report.Tasks[bestIdx]
	report.BestCommunities = outcomes[bestIdx].result.Communities
	return report, nil
}

// Save writes the report as indented JSON. Paths ending in .sz are
// compressed.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sweep report: %w", err)
	}
	return graphio.WriteFile(path, append(data, '\n'))
}

// LoadReport reads a report written by Save.
func LoadReport(path string) (*Report, error) {
	data, err := graphio.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &graphio.FormatError{Path: path, Cause: err}
	}
	return &report, nil
}
