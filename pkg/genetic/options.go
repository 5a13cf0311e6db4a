package genetic

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/egonetlab/egonet/pkg/logging"
)

// validate is a singleton validator instance
var validate = validator.New()

// Options configures a detection run
type Options struct {
	// PopulationCount is the number of genomes evolved per generation
	PopulationCount int `json:"population_count" validate:"min=2"`
	// Generations is the number of breeding rounds; zero means score the
	// initial population and return its best genome
	Generations int `json:"generation" validate:"min=0"`
	// R is the power mean order of the community score; larger values favor
	// dense communities
	R float64 `json:"r" validate:"min=0"`
	// CrossoverRate is the probability that breeding mixes two parents
	// instead of copying one
	CrossoverRate float64 `json:"crossover_rate" validate:"min=0,max=1"`
	// MutationRate is the probability that a bred child gets one gene rewired
	MutationRate float64 `json:"mutation_rate" validate:"min=0,max=1"`
	// EliteFraction is the fraction of each generation carried over
	// unchanged; elites do not participate in breeding
	EliteFraction float64 `json:"elite_reproduction" validate:"min=0,max=1"`
	// Seed fixes the random source; zero picks a time-based seed
	Seed int64 `json:"seed"`
	// OnGeneration, when set, observes progress after each generation
	OnGeneration func(generation, total int, bestFitness float64) `json:"-"`
	// Logger receives structured progress output; nil discards it
	Logger logging.Logger `json:"-"`
}

// DefaultOptions returns the configuration used for ego network detection
// when nothing is overridden.
func DefaultOptions() Options {
	return Options{
		PopulationCount: 300,
		Generations:     60,
		R:               1.5,
		CrossoverRate:   0.7,
		MutationRate:    0.2,
		EliteFraction:   0.1,
	}
}

// Validate checks the options and returns an InvalidConfigError for the
// first violated field.
func (o *Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return formatOptionsError(err)
	}
	return nil
}

// formatOptionsError converts validator errors to InvalidConfigError
func formatOptionsError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "min":
			return &InvalidConfigError{Field: field, Reason: fmt.Sprintf("must be at least %s", e.Param())}
		case "max":
			return &InvalidConfigError{Field: field, Reason: fmt.Sprintf("must not exceed %s", e.Param())}
		default:
			return &InvalidConfigError{Field: field, Reason: fmt.Sprintf("validation failed (%s)", e.Tag())}
		}
	}
	return err
}
