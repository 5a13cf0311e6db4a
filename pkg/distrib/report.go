package distrib

import (
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
	"github.com/egonetlab/egonet/pkg/sweep"
)

// BuildReport folds worker results into a sweep report, so distributed
// and local sweeps produce the same artifact. Results must be in task
// order, the way Distribute returns them. Returns sweep.ErrNoResults
// when every task failed.
func BuildReport(m *graph.Model, tasks []sweep.Task, results []ResultPayload, elapsed time.Duration) (*sweep.Report, error) {
	report := &sweep.Report{
		CreatedAt:       time.Now().UTC(),
		Vertices:        m.Size(),
		Edges:           m.EdgeCount(),
		DurationSeconds: elapsed.Seconds(),
		Tasks:           make([]sweep.TaskReport, len(tasks)),
	}

	bestIdx := -1
	for i, task := range tasks {
		result := results[i]
		entry := sweep.TaskReport{
			TaskID:          task.ID,
			Ordinal:         task.Ordinal,
			PopulationCount: task.Options.PopulationCount,
			Generations:     task.Options.Generations,
			R:               task.Options.R,
			CrossoverRate:   task.Options.CrossoverRate,
			MutationRate:    task.Options.MutationRate,
			EliteFraction:   task.Options.EliteFraction,
			Seed:            task.Options.Seed,
			DurationSeconds: result.DurationSeconds,
			Error:           result.Error,
		}
		if result.Error == "" {
			entry.BestFitness = result.BestFitness
			entry.Communities = len(result.Communities)
			if bestIdx < 0 || entry.BestFitness > report.Tasks[bestIdx].BestFitness {
				bestIdx = i
			}
		}
		report.Tasks[i] = entry
	}

	if bestIdx < 0 {
		return nil, sweep.ErrNoResults
	}
	report.Best = report.Tasks[bestIdx]
	report.BestCommunities = results[bestIdx].Communities
	return report, nil
}
