// Package sweep runs hyperparameter sweeps over community detection,
// evaluating every combination of a parameter grid across a worker pool
// and reporting the best scoring configuration.
package sweep

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/egonetlab/egonet/pkg/genetic"
)

var validate = validator.New()

// Grid is the cartesian space of detection parameters a sweep explores.
// Every axis must list at least one value.
type Grid struct {
	PopulationCounts []int     `yaml:"population_count" json:"population_count" validate:"min=1,dive,min=2"`
	GenerationCounts []int     `yaml:"generation" json:"generation" validate:"min=1,dive,min=0"`
	RValues          []float64 `yaml:"r" json:"r" validate:"min=1,dive,min=0"`
	CrossoverRates   []float64 `yaml:"crossover_rate" json:"crossover_rate" validate:"min=1,dive,min=0,max=1"`
	MutationRates    []float64 `yaml:"mutation_rate" json:"mutation_rate" validate:"min=1,dive,min=0,max=1"`
	EliteFractions   []float64 `yaml:"elite_reproduction" json:"elite_reproduction" validate:"min=1,dive,min=0,max=1"`
}

// DefaultGrid returns the published search space for ego networks.
func DefaultGrid() Grid {
	return Grid{
		PopulationCounts: []int{300, 400, 500},
		GenerationCounts: []int{30, 40},
		RValues:          []float64{1.5},
		CrossoverRates:   []float64{0.7, 0.8},
		MutationRates:    []float64{0.2, 0.3},
		EliteFractions:   []float64{0.1},
	}
}

// LoadGrid reads a grid from a YAML file and validates it.
func LoadGrid(path string) (Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Grid{}, fmt.Errorf("failed to read grid file: %w", err)
	}
	var grid Grid
	if err := yaml.Unmarshal(data, &grid); err != nil {
		return Grid{}, fmt.Errorf("failed to parse grid file %s: %w", path, err)
	}
	if err := grid.Validate(); err != nil {
		return Grid{}, err
	}
	return grid, nil
}

// Validate checks every axis and returns an InvalidGridError for the
// first violation.
func (g *Grid) Validate() error {
	if err := validate.Struct(g); err != nil {
		return formatGridError(err)
	}
	return nil
}

// formatGridError converts validator errors to InvalidGridError
func formatGridError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "min":
			return &InvalidGridError{Field: field, Reason: fmt.Sprintf("must be at least %s", e.Param())}
		case "max":
			return &InvalidGridError{Field: field, Reason: fmt.Sprintf("must not exceed %s", e.Param())}
		default:
			return &InvalidGridError{Field: field, Reason: fmt.Sprintf("validation failed (%s)", e.Tag())}
		}
	}
	return err
}

// Size returns the number of parameter combinations in the grid.
func (g *Grid) Size() int {
	return len(g.PopulationCounts) * len(g.GenerationCounts) * len(g.RValues) *
		len(g.CrossoverRates) * len(g.MutationRates) * len(g.EliteFractions)
}

// Task is one parameter combination of a sweep. Its seed is derived from
// the sweep base seed and the ordinal, so a sweep is reproducible while
// every task still evolves independently.
type Task struct {
	ID      string          `json:"task_id"`
	Ordinal int             `json:"ordinal"`
	Options genetic.Options `json:"options"`
}

// Tasks expands the grid into the full task list in axis order, outermost
// axis first. A zero base seed picks a time-based one.
func (g *Grid) Tasks(baseSeed int64) []Task {
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	tasks := make([]Task, 0, g.Size())
	ordinal := 0
	for _, population := range g.PopulationCounts {
		for _, generations := range g.GenerationCounts {
			for _, r := range g.RValues {
				for _, crossover := range g.CrossoverRates {
					for _, mutation := range g.MutationRates {
						for _, elite := range g.EliteFractions {
							tasks = append(tasks, Task{
								ID:      uuid.NewString(),
								Ordinal: ordinal,
								Options: genetic.Options{
									PopulationCount: population,
									Generations:     generations,
									R:               r,
									CrossoverRate:   crossover,
									MutationRate:    mutation,
									EliteFraction:   elite,
									Seed:            baseSeed + int64(ordinal),
								},
							})
							ordinal++
						}
					}
				}
			}
		}
	}
	return tasks
}
