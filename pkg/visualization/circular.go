package visualization

import (
	"math"

	"github.com/egonetlab/egonet/pkg/graph"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config Config
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config Config) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout arranges nodes in a circle in id order
func (l *CircularLayout) ComputeLayout(m *graph.Model) map[int64]Position {
	positions := make(map[int64]Position, m.Size())
	if m.Size() == 0 {
		return positions
	}

	centerX := l.config.Width / 2
	centerY := l.config.Height / 2
	radius := math.Min(centerX, centerY) - l.config.Padding

	angleStep := 2 * math.Pi / float64(m.Size())
	for i := 0; i < m.Size(); i++ {
		angle := float64(i) * angleStep
		positions[m.ID(i)] = Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}
	return positions
}

// CommunityLayout places each community as its own cluster on a ring, so
// a detected partition reads directly off the picture. Vertices outside
// every community form one extra cluster.
type CommunityLayout struct {
	config      Config
	communities [][]int64
}

// NewCommunityLayout creates a layout grouped by the given partition
func NewCommunityLayout(config Config, communities [][]int64) *CommunityLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CommunityLayout{config: config, communities: communities}
}

// ComputeLayout places community clusters around a ring
func (l *CommunityLayout) ComputeLayout(m *graph.Model) map[int64]Position {
	positions := make(map[int64]Position, m.Size())
	if m.Size() == 0 {
		return positions
	}

	groups := l.groups(m)

	centerX := l.config.Width / 2
	centerY := l.config.Height / 2
	orbit := math.Min(centerX, centerY) - l.config.Padding

	angleStep := 2 * math.Pi / float64(len(groups))
	for g, members := range groups {
		angle := float64(g) * angleStep
		clusterX := centerX + 0.7*orbit*math.Cos(angle)
		clusterY := centerY + 0.7*orbit*math.Sin(angle)
		clusterRadius := 0.3 * orbit * math.Sqrt(float64(len(members))/float64(m.Size()))

		memberStep := 2 * math.Pi / float64(len(members))
		for i, id := range members {
			memberAngle := float64(i) * memberStep
			positions[id] = Position{
				X: clusterX + clusterRadius*math.Cos(memberAngle),
				Y: clusterY + clusterRadius*math.Sin(memberAngle),
			}
		}
	}
	return positions
}

// groups filters the partition to vertices the model knows and appends a
// trailing group for everything unassigned.
func (l *CommunityLayout) groups(m *graph.Model) [][]int64 {
	assigned := make(map[int64]bool)
	groups := make([][]int64, 0, len(l.communities)+1)

	for _, community := range l.communities {
		var members []int64
		for _, id := range community {
			if _, err := m.IndexOf(id); err != nil {
				continue
			}
			members = append(members, id)
			assigned[id] = true
		}
		if len(members) > 0 {
			groups = append(groups, members)
		}
	}

	var leftover []int64
	for _, id := range m.IDs() {
		if !assigned[id] {
			leftover = append(leftover, id)
		}
	}
	if len(leftover) > 0 {
		groups = append(groups, leftover)
	}
	return groups
}
