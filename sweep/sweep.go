// Package sweep drives the clustering target over a grid of cluster and
// point counts, one trial at a time.
package sweep

import (
	"context"
	"log/slog"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/weiihann/kmsweep/harness"
)

// Grid is the cross product of the configured counts. Order is
// significant: ClusterCounts is the outer loop, PointCounts the inner.
type Grid struct {
	ClusterCounts []int
	PointCounts   []int
}

// Row holds the best durations for one cluster count, one per point count.
type Row struct {
	Clusters int       `json:"clusters"`
	Points   []int     `json:"points"`
	Best     []float64 `json:"best_seconds"`
}

// RowWriter receives rows as the sweep completes them.
type RowWriter interface {
	WriteRow(row Row) error
	Close() error
}

// Driver runs the sweep.
type Driver struct {
	Command harness.Command
	Invoker harness.Invoker
	Output  RowWriter
	// Trials is the number of runs per cell; the best is kept. Values
	// below one are treated as one.
	Trials int
	Logger *slog.Logger
}

// Run traverses the grid sequentially. The first failing trial aborts the
// sweep; the row containing it is not written.
func (d *Driver) Run(ctx context.Context, grid Grid) error {
	for _, c := range grid.ClusterCounts {
		row := Row{
			Clusters: c,
			Points:   make([]int, 0, len(grid.PointCounts)),
			Best:     make([]float64, 0, len(grid.PointCounts)),
		}

		for _, p := range grid.PointCounts {
			best, err := d.runCell(ctx, harness.Cell{Clusters: c, Points: p})
			if err != nil {
				return err
			}

			row.Points = append(row.Points, p)
			row.Best = append(row.Best, best)
		}

		if err := d.Output.WriteRow(row); err != nil {
			return errors.Wrapf(err, "write row for clusters=%d", c)
		}
	}

	if err := d.Output.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	return nil
}

func (d *Driver) runCell(ctx context.Context, cell harness.Cell) (float64, error) {
	trials := max(d.Trials, 1)
	best := math.Inf(1)

	for i := 0; i < trials; i++ {
		args := d.Command.Args(cell)

		d.Logger.DebugContext(ctx, "running trial",
			slog.Int("clusters", cell.Clusters),
			slog.Int("points", cell.Points),
			slog.Int("trial", i),
		)

		outcome, err := d.Invoker.Invoke(ctx, args)
		if err != nil {
			return 0, errors.Wrapf(err, "clusters=%d points=%d",
				cell.Clusters, cell.Points)
		}

		seconds, err := harness.Evaluate(cell, outcome)
		if err != nil {
			return 0, err
		}

		d.Logger.InfoContext(ctx, "trial finished",
			slog.Int("clusters", cell.Clusters),
			slog.Int("points", cell.Points),
			slog.Float64("seconds", seconds),
			slog.Duration("wall_time", outcome.Elapsed),
		)

		best = math.Min(best, seconds)
	}

	return best, nil
}
