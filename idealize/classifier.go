package idealize

import (
	"fmt"

	"bitbucket.org/Mikkola/patchid/hist"
	"bitbucket.org/Mikkola/patchid/segment"
	"bitbucket.org/Mikkola/patchid/trace"
)

// runClassifier extracts breakpoints from a per-sample class label
// sequence produced by an external classifier. Only the transition
// extraction is performed here; feature preprocessing and the classifier
// itself live outside the core.
func runClassifier(c ClassifierConfig, tr *trace.Trace) (*Result, error) {
	if len(c.Labels) != tr.Len() {
		return nil, fmt.Errorf("%w: %d labels for %d samples", ErrConfiguration, len(c.Labels), tr.Len())
	}
	for i, l := range c.Labels {
		if l != 0 && l != 1 {
			return nil, fmt.Errorf("%w: label %d at sample %d, want 0 or 1", ErrConfiguration, l, i)
		}
	}

	bps, _ := segment.FromLabels(c.Labels, tr.Dt)
	log.Debugf("classifier: %s: %d transitions", tr.Name, len(bps))

	// nominal zero-width band between the two state levels, for reporting
	lv := stateLevels(tr.Samples, c.Labels)
	mid := (lv[0] + lv[1]) / 2
	band := hist.ThresholdBand{X1: mid, Centre: mid, X2: mid}

	return buildResult(c.Method(), tr, bps, band, c.Labels[0])
}
