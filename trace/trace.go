// Package trace loads single-channel current recordings and their
// ground-truth annotations.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrConfiguration is returned for invalid recording parameters.
var ErrConfiguration = errors.New("trace: invalid configuration")

// Trace is a recording of amplitude samples at a uniform sampling
// interval. It is immutable once loaded.
type Trace struct {
	// Name identifies the trace, usually the source file name.
	Name string
	// Samples are the raw current amplitudes.
	Samples []float64
	// Dt is the sampling interval in seconds.
	Dt float64
}

// New creates a trace. The sampling interval must be positive.
func New(name string, samples []float64, dt float64) (*Trace, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("%w: non-positive sampling interval %g", ErrConfiguration, dt)
	}
	return &Trace{Name: name, Samples: samples, Dt: dt}, nil
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.Samples)
}

// Times returns the sample timestamps, sample i at i*Dt.
func (t *Trace) Times() []float64 {
	ts := make([]float64, len(t.Samples))
	for i := range ts {
		ts[i] = float64(i) * t.Dt
	}
	return ts
}

// Duration returns the total recording duration.
func (t *Trace) Duration() float64 {
	return float64(len(t.Samples)) * t.Dt
}

// ReadTrace reads a raw-amplitude file, one float per line. Blank lines
// are skipped.
func ReadTrace(r io.Reader, name string, dt float64) (*Trace, error) {
	samples, err := readFloats(r)
	if err != nil {
		return nil, fmt.Errorf("trace %s: %v", name, err)
	}
	return New(name, samples, dt)
}

// ReadDwellTimes reads a dwell-time annotation file, one duration in
// seconds per line. Durations must be positive.
func ReadDwellTimes(r io.Reader) ([]float64, error) {
	dwells, err := readFloats(r)
	if err != nil {
		return nil, err
	}
	for i, d := range dwells {
		if d <= 0 {
			return nil, fmt.Errorf("non-positive dwell time %g on line %d", d, i+1)
		}
	}
	return dwells, nil
}

// ReadInitialStates reads a trace-name to initial-state mapping, one
// comma-separated "filename,state" pair per line. States are 0 or 1.
func ReadInitialStates(r io.Reader) (map[string]int, error) {
	states := make(map[string]int)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, val, ok := strings.Cut(line, ",")
		if !ok {
			return nil, fmt.Errorf("malformed initial-state line %d: %q", lineNo, line)
		}
		state, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("initial-state line %d: %v", lineNo, err)
		}
		if state != 0 && state != 1 {
			return nil, fmt.Errorf("initial-state line %d: state must be 0 or 1, got %d", lineNo, state)
		}
		states[strings.TrimSpace(name)] = state
	}
	return states, scanner.Err()
}

// readFloats parses one float per non-blank line.
func readFloats(r io.Reader) ([]float64, error) {
	var vals []float64
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		x, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		vals = append(vals, x)
	}
	return vals, scanner.Err()
}
