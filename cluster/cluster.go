// Package cluster generates synthetic two-dimensional point clusters and
// groups them back with k-means. It backs the reference target that the
// sweep benchmarks.
package cluster

import (
	"math"
	mrand "math/rand"
)

// Point is a location on the plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cluster is a group of points.
type Cluster []Point

// List is an ordered set of clusters.
type List []Cluster

// Size returns the total number of points in l.
func (l List) Size() int {
	n := 0
	for _, c := range l {
		n += len(c)
	}

	return n
}

// Generator produces deterministic cluster lists from a seed.
type Generator struct {
	rng *mrand.Rand
}

// NewGenerator creates a Generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng: mrand.New(mrand.NewSource(seed)),
	}
}

// Generate returns count points around center with an average spread of
// spread.
func (g *Generator) Generate(center Point, count int, spread float64) Cluster {
	result := make(Cluster, 0, count)

	for i := 0; i < count; i++ {
		angle := 2 * math.Pi * g.rng.Float64()

		distance := 0.0
		for j := 0; j < 10; j++ {
			distance += (g.rng.Float64() - 0.5) * spread
		}

		result = append(result, Point{
			X: center.X + math.Cos(angle)*distance,
			Y: center.Y + math.Sin(angle)*distance,
		})
	}

	return result
}

// GenerateList returns clusterCount clusters of pointCount points each,
// with centers inside the rectangle spanned by lower and upper.
func (g *Generator) GenerateList(
	lower, upper Point,
	clusterCount, pointCount int,
) List {
	width := upper.X - lower.X
	height := upper.Y - lower.Y
	area := width * height

	result := make(List, 0, clusterCount)

	for i := 0; i < clusterCount; i++ {
		center := Point{
			X: lower.X + g.rng.Float64()*width,
			Y: lower.Y + g.rng.Float64()*height,
		}
		spread := (g.rng.Float64()*0.7 + 0.3) *
			math.Sqrt(area) / float64(clusterCount) / 4

		result = append(result, g.Generate(center, pointCount, spread))
	}

	return result
}

// Collapse flattens l into a single shuffled slice of points.
func (g *Generator) Collapse(l List) []Point {
	result := make([]Point, 0, l.Size())
	for _, c := range l {
		result = append(result, c...)
	}

	g.rng.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})

	return result
}
