package harness

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"
)

// Command describes how a target is started: the launcher argv followed by
// the target executable, then the cell's cluster and point counts.
type Command struct {
	Launcher []string
	Target   string
}

// ParseLauncher splits a launcher string such as "mpiexec -n 4" using
// shell quoting rules. An empty string yields no launcher, so the target
// is executed directly.
func ParseLauncher(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse launcher %q", s)
	}

	return words, nil
}

// Args returns the argument list for one trial of cell.
func (c Command) Args(cell Cell) []string {
	args := make([]string, 0, len(c.Launcher)+3)
	args = append(args, c.Launcher...)
	args = append(args,
		c.Target,
		strconv.Itoa(cell.Clusters),
		strconv.Itoa(cell.Points),
	)

	return args
}
