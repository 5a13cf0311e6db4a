// Package visualization computes 2D node positions for graph exports.
// Layouts work on the in-memory model and return coordinates keyed by
// external user id, ready to embed in a GEXF file.
package visualization

import (
	"math"
	"math/rand"
	"time"

	"github.com/egonetlab/egonet/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Config configures layout parameters
type Config struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Random seed for iterative algorithms; zero picks a time-based seed
}

// DefaultConfig returns a canvas sized for ego networks of a few hundred
// vertices.
func DefaultConfig() Config {
	return Config{
		Width:      1000,
		Height:     1000,
		Iterations: 50,
		Padding:    50,
	}
}

// Layout interface for different layout algorithms
type Layout interface {
	ComputeLayout(m *graph.Model) map[int64]Position
}

// ForceDirectedLayout implements force-directed graph layout
type ForceDirectedLayout struct {
	config Config
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config Config) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using a force-directed algorithm.
// Deterministic for a fixed model and non-zero seed.
func (l *ForceDirectedLayout) ComputeLayout(m *graph.Model) map[int64]Position {
	n := m.Size()
	if n == 0 {
		return map[int64]Position{}
	}
	if n == 1 {
		return map[int64]Position{m.ID(0): {
			X: l.config.Width / 2,
			Y: l.config.Height / 2,
		}}
	}

	seed := l.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Random initial positions inside the padded canvas
	positions := make([]Position, n)
	for i := range positions {
		positions[i] = Position{
			X: rng.Float64()*(l.config.Width-2*l.config.Padding) + l.config.Padding,
			Y: rng.Float64()*(l.config.Height-2*l.config.Padding) + l.config.Padding,
		}
	}

	k := math.Sqrt((l.config.Width * l.config.Height) / float64(n)) // Optimal distance
	temperature := l.config.Width / 10.0

	forces := make([]Position, n)
	for iter := 0; iter < l.config.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// Repulsion between all pairs
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along edges. Each undirected edge shows up from
		// both endpoints, which applies the pull symmetrically.
		for i := 0; i < n; i++ {
			for _, j := range m.Neighbors(i) {
				dx := positions[i].X - positions[j].X
				dy := positions[i].Y - positions[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(l.config.Iterations)
		for i := range positions {
			fx := forces[i].X
			fy := forces[i].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				positions[i].X += (fx / force) * step
				positions[i].Y += (fy / force) * step
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(m, positions, l.config.Width, l.config.Height, l.config.Padding)
}

// normalizePositions scales dense positions to fit within bounds and keys
// them by external id.
func normalizePositions(m *graph.Model, positions []Position, width, height, padding float64) map[int64]Position {
	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[int64]Position, len(positions))
	for i, pos := range positions {
		normalized[m.ID(i)] = Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}
	return normalized
}
