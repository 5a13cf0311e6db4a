package graphio

import (
	"encoding/json"
	"time"
)

// Report is the persisted outcome of a detection run.
type Report struct {
	Communities     [][]int64 `json:"communities"`
	BestFitness     float64   `json:"best_fitness"`
	Generations     int       `json:"generations,omitempty"`
	PopulationCount int       `json:"population_count,omitempty"`
	R               float64   `json:"r,omitempty"`
	CrossoverRate   float64   `json:"crossover_rate,omitempty"`
	MutationRate    float64   `json:"mutation_rate,omitempty"`
	Seed            int64     `json:"seed,omitempty"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
}

// LoadReport reads a detection report.
func LoadReport(path string) (*Report, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, &FormatError{Path: path, Cause: err}
	}
	return &report, nil
}

// SaveReport writes a detection report.
func SaveReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return WriteFile(path, data)
}
