package genetic

import (
	"math"

	"github.com/egonetlab/egonet/pkg/graph"
)

// Score computes the community score of a partition: for every subset, the
// power mean of order r over the row means of the subset's internal adjacency
// submatrix, weighted by the subset volume (the count of internal adjacency
// entries, which counts each internal edge twice).
//
// Larger r rewards dense subsets more aggressively. A vertex with no internal
// neighbors contributes zero even at r = 0, where math.Pow would report
// 0^0 = 1.
func Score(p Partition, m *graph.Model, r float64) float64 {
	fitness := 0.0
	for _, sub := range p {
		size := float64(len(sub))
		volume := 0.0
		mean := 0.0
		for _, i := range sub {
			rowSum := 0.0
			for _, j := range sub {
				if m.HasEdge(i, j) {
					rowSum++
				}
			}
			volume += rowSum
			if rowSum > 0 {
				mean += math.Pow(rowSum/size, r)
			}
		}
		fitness += (mean / size) * volume
	}
	return fitness
}
