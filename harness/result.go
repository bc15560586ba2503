// Package harness runs the external clustering target for one grid cell
// and turns what it reports into a duration.
package harness

import (
	"bytes"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Failure kinds. Errors returned by Evaluate carry one of these marks and
// can be checked with errors.Is.
var (
	ErrProcessFailure = errors.New("process failure")
	ErrParseFailure   = errors.New("parse failure")
)

// Cell is one point of the sweep grid.
type Cell struct {
	Clusters int `json:"clusters"`
	Points   int `json:"points"`
}

// Outcome is the structured result of one process execution. A non-zero
// exit status is reported here rather than as an error.
type Outcome struct {
	Args     []string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Elapsed  time.Duration
}

// Success reports whether the process exited with status zero.
func (o *Outcome) Success() bool {
	return o.ExitCode == 0
}

// Evaluate converts the outcome of a trial into the duration it reported.
func Evaluate(cell Cell, o *Outcome) (float64, error) {
	if !o.Success() {
		err := errors.Newf(
			"target exited with status %d for clusters=%d points=%d",
			o.ExitCode, cell.Clusters, cell.Points,
		)
		if len(o.Stderr) > 0 {
			err = errors.WithDetailf(err, "stderr: %s", o.Stderr)
		}
		err = errors.WithHint(err,
			"the sweep was aborted; rerun it from the start once the target is fixed")

		return 0, errors.Mark(err, ErrProcessFailure)
	}

	seconds, err := ParseDuration(o.Stdout)
	if err != nil {
		err = errors.Wrapf(err, "clusters=%d points=%d",
			cell.Clusters, cell.Points)
		err = errors.WithDetailf(err, "stdout: %q", o.Stdout)

		return 0, errors.Mark(err, ErrParseFailure)
	}

	return seconds, nil
}

// ParseDuration reads the single floating-point value a target prints.
// Surrounding whitespace is ignored; anything else is rejected.
func ParseDuration(stdout []byte) (float64, error) {
	fields := bytes.Fields(stdout)

	switch len(fields) {
	case 0:
		return 0, errors.New("empty output")
	case 1:
	default:
		return 0, errors.Newf("expected one value, got %d fields", len(fields))
	}

	seconds, err := strconv.ParseFloat(string(fields[0]), 64)
	if err != nil {
		return 0, errors.Wrap(err, "parse duration")
	}

	return seconds, nil
}
