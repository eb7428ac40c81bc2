package idealize

import (
	"fmt"

	"bitbucket.org/Mikkola/patchid/mdl"
	"bitbucket.org/Mikkola/patchid/trace"
)

// runMDL idealizes by recursive MDL segmentation followed by jump
// filtering. The initial state is derived from the histogram-trough
// threshold; states alternate strictly at each surviving breakpoint.
func runMDL(c MDLConfig, tr *trace.Trace) (*Result, error) {
	if c.MinSeg < 1 {
		return nil, fmt.Errorf("%w: minimum segment length must be positive, got %d", ErrConfiguration, c.MinSeg)
	}

	breaks := mdl.Segment(tr.Samples, c.MinSeg)
	log.Debugf("mdl: %s: %d raw breakpoints", tr.Name, len(breaks))
	breaks, steps := mdl.FilterByJump(tr.Samples, breaks, c.Jump)
	log.Debugf("mdl: %s: %d breakpoints after jump filter (threshold %g)", tr.Name, len(breaks), c.Jump)

	pa, err := analyze(tr.Samples, c.Bins)
	if err != nil {
		return nil, err
	}
	band := pa.Threshold()

	bps := make([]float64, len(breaks))
	for i, b := range breaks {
		bps[i] = float64(b) * tr.Dt
	}

	res, err := buildResult(c.Method(), tr, bps, band, initialState(tr.Samples[0], band.Centre))
	if err != nil {
		return nil, err
	}
	if len(steps) > 0 {
		log.Debugf("mdl: %s: step levels %v", tr.Name, steps)
	}
	return res, nil
}
