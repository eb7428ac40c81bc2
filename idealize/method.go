// Package idealize converts noisy ion-channel current traces into discrete
// two-state idealizations using competing segmentation methods.
package idealize

import (
	"errors"
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Mikkola/patchid/hist"
	"bitbucket.org/Mikkola/patchid/trace"
)

var log = logging.MustGetLogger("idealize")

// ErrConfiguration is returned for unknown methods or invalid parameters.
var ErrConfiguration = errors.New("idealize: invalid configuration")

// Config selects an idealization method and carries its parameters.
// Configs are pure parameter holders; each maps to exactly one algorithm.
type Config interface {
	// Method returns the method name used in reports and result keys.
	Method() string
}

// NaiveConfig idealizes by direct threshold crossing at the histogram
// trough, with no hysteresis band.
type NaiveConfig struct {
	// Bins is the amplitude histogram bin count; Freedman-Diaconis
	// when not positive.
	Bins int
}

// BandConfig idealizes by hysteresis-band threshold crossing with the
// trough position and band width tuned by the noise-normality optimizer.
type BandConfig struct {
	Bins int
}

// MDLConfig idealizes by recursive minimum-description-length
// segmentation.
type MDLConfig struct {
	// MinSeg is the minimum segment length in samples.
	MinSeg int
	// Jump is the minimum inter-segment mean jump for a breakpoint to
	// survive filtering.
	Jump float64
	// Bins is the histogram bin count used to derive the initial-state
	// threshold.
	Bins int
}

// ClassifierConfig extracts transitions from a per-sample class label
// sequence produced by an external pre-trained classifier.
type ClassifierConfig struct {
	Labels []int
}

func (NaiveConfig) Method() string      { return "naive" }
func (BandConfig) Method() string       { return "mika" }
func (MDLConfig) Method() string        { return "mdl" }
func (ClassifierConfig) Method() string { return "classifier" }

// Run dispatches the configured method on a trace.
func Run(cfg Config, tr *trace.Trace) (*Result, error) {
	if tr.Len() == 0 {
		return nil, fmt.Errorf("%w: empty trace %s", ErrConfiguration, tr.Name)
	}
	switch c := cfg.(type) {
	case NaiveConfig:
		return runNaive(c, tr)
	case BandConfig:
		return runBand(c, tr)
	case MDLConfig:
		return runMDL(c, tr)
	case ClassifierConfig:
		return runClassifier(c, tr)
	}
	return nil, fmt.Errorf("%w: unknown method config %T", ErrConfiguration, cfg)
}

// analyze builds the probability histogram of the samples and locates its
// peaks.
func analyze(samples []float64, bins int) (*hist.PeakAnalysis, error) {
	h, err := hist.New(samples, bins)
	if err != nil {
		return nil, err
	}
	p, err := h.ToProbability()
	if err != nil {
		return nil, err
	}
	return hist.AnalyzePeaks(p)
}
