// Kmeans harness generates a synthetic cluster list, groups it back with a
// parallel k-means and prints the clustering time in seconds to stdout.
// It is the reference target for kmsweep: `kmeans <clusters> <points>`.
package main

import (
	"fmt"
	mrand "math/rand"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/weiihann/kmsweep/cluster"
)

const usage = "Program requires exactly two arguments, both positive integers.\n"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		workers int
		seed    int64
	)

	cmd := &cobra.Command{
		Use:           "kmeans <clusters> <points>",
		Short:         "Time a parallel k-means over a synthetic cluster list",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			clusters, err := positive(args[0])
			if err != nil {
				return err
			}

			points, err := positive(args[1])
			if err != nil {
				return err
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}

			elapsed := run(clusters, points, workers, seed)
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", elapsed.Seconds())

			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&workers, "workers", runtime.NumCPU(),
		"Number of parallel k-means workers")
	flags.Int64Var(&seed, "seed", 0,
		"Random seed (0 = use current time)")

	return cmd
}

func positive(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}

	if n <= 0 {
		return 0, fmt.Errorf("%d is not positive", n)
	}

	return n, nil
}

// run generates the input and returns how long the clustering took.
// Generation is not timed.
func run(clusters, points, workers int, seed int64) time.Duration {
	gen := cluster.NewGenerator(seed)
	list := gen.GenerateList(
		cluster.Point{X: 0, Y: 0}, cluster.Point{X: 1, Y: 1},
		clusters, points,
	)
	collapsed := gen.Collapse(list)

	rng := mrand.New(mrand.NewSource(seed))

	start := time.Now()
	cluster.ParallelKMeans(collapsed, clusters, workers, rng)

	return time.Since(start)
}
