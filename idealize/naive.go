package idealize

import (
	"bitbucket.org/Mikkola/patchid/segment"
	"bitbucket.org/Mikkola/patchid/trace"
)

// runNaive idealizes by direct crossing of the histogram-trough threshold.
func runNaive(c NaiveConfig, tr *trace.Trace) (*Result, error) {
	pa, err := analyze(tr.Samples, c.Bins)
	if err != nil {
		return nil, err
	}
	band := pa.Threshold()

	bps, _, err := segment.ByThreshold(tr.Times(), tr.Samples, band)
	if err != nil {
		return nil, err
	}
	log.Debugf("naive: %s: threshold %g, %d breakpoints", tr.Name, band.Centre, len(bps))
	return buildResult(c.Method(), tr, bps, band, initialState(tr.Samples[0], band.Centre))
}
