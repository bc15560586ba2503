package cluster

import (
	"math"
	mrand "math/rand"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// IterationLimit caps the reassign/recenter rounds of KMeans.
const IterationLimit = 50

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// reassign moves every point in l to the cluster of its nearest center.
func reassign(l List, centers []Point) List {
	result := make(List, len(centers))

	for _, c := range l {
		for _, p := range c {
			best := 0
			bestDistance := math.Inf(1)

			for i, center := range centers {
				if d := distance(p, center); d < bestDistance {
					best = i
					bestDistance = d
				}
			}

			result[best] = append(result[best], p)
		}
	}

	return result
}

// recenter moves each center to the mean of its cluster and reports
// whether no center moved. Centers of empty clusters stay where they are.
func recenter(l List, centers []Point) bool {
	converged := true

	for i, c := range l {
		if len(c) == 0 {
			continue
		}

		xs := make([]float64, len(c))
		ys := make([]float64, len(c))
		for j, p := range c {
			xs[j] = p.X
			ys[j] = p.Y
		}

		avg := Point{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
		if avg != centers[i] {
			converged = false
		}

		centers[i] = avg
	}

	return converged
}

// KMeans groups points into k clusters. Centers start at random
// positions in the unit square.
func KMeans(points []Point, k int, rng *mrand.Rand) (List, []Point) {
	centers := make([]Point, k)
	for i := range centers {
		centers[i] = Point{
			X: float64(rng.Intn(1000)) / 1000,
			Y: float64(rng.Intn(1000)) / 1000,
		}
	}

	clusters := make(List, k)
	if k > 0 {
		clusters[0] = points
	}

	for i := 0; i < IterationLimit; i++ {
		clusters = reassign(clusters, centers)
		if recenter(clusters, centers) {
			break
		}
	}

	return clusters, centers
}

// partition returns the [start, end) bounds of worker rank's share of n
// points. The remainder goes to the lowest ranks.
func partition(n, workers, rank int) (int, int) {
	share := n / workers
	remaining := n % workers

	start := rank*share + min(rank, remaining)
	end := start + share
	if rank < remaining {
		end++
	}

	return start, end
}

// ParallelKMeans splits points across workers, clusters each share
// locally, combines the local centers into global ones and reassigns
// every share against them.
func ParallelKMeans(
	points []Point,
	k, workers int,
	rng *mrand.Rand,
) (List, []Point) {
	workers = max(workers, 1)

	// Seeds are drawn up front so the result does not depend on
	// goroutine scheduling.
	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	local := make([]List, workers)

	var wg sync.WaitGroup
	for rank := 0; rank < workers; rank++ {
		wg.Add(1)

		go func(rank int) {
			defer wg.Done()

			start, end := partition(len(points), workers, rank)
			share := points[start:end]
			local[rank], _ = KMeans(share, k, mrand.New(mrand.NewSource(seeds[rank])))
		}(rank)
	}
	wg.Wait()

	sumX := make([]float64, k)
	sumY := make([]float64, k)
	counts := make([]float64, k)

	for _, l := range local {
		lx := make([]float64, k)
		ly := make([]float64, k)
		lc := make([]float64, k)

		for i, c := range l {
			for _, p := range c {
				lx[i] += p.X
				ly[i] += p.Y
			}
			lc[i] = float64(len(c))
		}

		floats.Add(sumX, lx)
		floats.Add(sumY, ly)
		floats.Add(counts, lc)
	}

	centers := make([]Point, k)
	for i := range centers {
		if counts[i] > 0 {
			centers[i] = Point{X: sumX[i] / counts[i], Y: sumY[i] / counts[i]}
		}
	}

	result := make(List, k)
	reassigned := make([]List, workers)

	for rank := 0; rank < workers; rank++ {
		wg.Add(1)

		go func(rank int) {
			defer wg.Done()

			reassigned[rank] = reassign(local[rank], centers)
		}(rank)
	}
	wg.Wait()

	for _, l := range reassigned {
		for i, c := range l {
			result[i] = append(result[i], c...)
		}
	}

	return result, centers
}
