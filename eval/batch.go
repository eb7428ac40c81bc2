package eval

import (
	"math"
	"sync"

	"github.com/op/go-logging"

	"bitbucket.org/Mikkola/patchid/idealize"
	"bitbucket.org/Mikkola/patchid/noise"
	"bitbucket.org/Mikkola/patchid/results"
	"bitbucket.org/Mikkola/patchid/trace"
)

var log = logging.MustGetLogger("eval")

// TraceResult is the evaluation outcome for one trace. A failing trace
// carries its error message and is excluded from the aggregates; the batch
// as a whole never aborts on a single trace.
type TraceResult struct {
	Name string `json:"name"`
	// Error is set when the method failed on this trace.
	Error string `json:"error,omitempty"`
	// HasTruth reports whether a ground-truth annotation was available.
	HasTruth bool `json:"hasTruth"`
	// Accuracy is the per-sample agreement with the ground truth.
	Accuracy float64 `json:"accuracy"`
	// MSE is the dwell-time histogram mean squared error.
	MSE float64 `json:"mse"`
	// Breakpoints is the number of detected transitions.
	Breakpoints int `json:"breakpoints"`
	// Score is the noise-normality objective, zero when not evaluated.
	Score float64 `json:"score,omitempty"`
}

// Summary aggregates a batch evaluation of one method.
type Summary struct {
	Method string `json:"method"`
	// MeanAccuracy and MeanMSE average over the evaluated traces.
	MeanAccuracy float64 `json:"meanAccuracy"`
	MeanMSE      float64 `json:"meanMSE"`
	// Evaluated counts traces with ground truth that were scored.
	Evaluated int `json:"evaluated"`
	// Failed counts traces on which the method errored.
	Failed int `json:"failed"`
	// Traces is the per-trace breakdown.
	Traces []TraceResult `json:"traces"`
}

// Batch runs the configured method over all records on a bounded worker
// pool and aggregates accuracy and dwell-MSE. Traces are independent, so
// workers share nothing; workers < 1 means a single worker. A non-nil
// store is consulted for previously computed results and updated with new
// ones, making long runs resumable. mseBins is the dwell-time histogram
// bin count for the MSE comparison.
func Batch(cfg idealize.Config, records []*trace.Record, workers int, store *results.ResultIO, mseBins int) *Summary {
	if workers < 1 {
		workers = 1
	}
	if store == nil {
		store = results.NewResultIO(nil)
	}
	method := cfg.Method()

	out := make([]TraceResult, len(records))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = evaluateOne(cfg, records[i], store, mseBins)
			}
		}()
	}
	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	s := &Summary{Method: method, Traces: out}
	var accSum, mseSum float64
	for _, tr := range out {
		if tr.Error != "" {
			s.Failed++
			continue
		}
		if !tr.HasTruth {
			continue
		}
		accSum += tr.Accuracy
		mseSum += tr.MSE
		s.Evaluated++
	}
	if s.Evaluated > 0 {
		s.MeanAccuracy = accSum / float64(s.Evaluated)
		s.MeanMSE = mseSum / float64(s.Evaluated)
	}
	log.Noticef("%s: evaluated %d/%d traces, %d failed, mean accuracy %.4f, mean MSE %.4f",
		method, s.Evaluated, len(records), s.Failed, s.MeanAccuracy, s.MeanMSE)
	return s
}

// evaluateOne runs the method on a single record and scores it against the
// ground truth when available.
func evaluateOne(cfg idealize.Config, rec *trace.Record, store *results.ResultIO, mseBins int) TraceResult {
	name := rec.Trace.Name
	method := cfg.Method()

	var cached TraceResult
	if ok, err := store.Load(method, name, &cached); err == nil && ok {
		return cached
	}

	tr := TraceResult{Name: name, HasTruth: rec.HasTruth}
	res, err := idealize.Run(cfg, rec.Trace)
	if err != nil {
		log.Warningf("%s: %s failed: %v", name, method, err)
		tr.Error = err.Error()
		return tr
	}
	tr.Breakpoints = len(res.Breakpoints)
	if !math.IsNaN(res.Score) {
		tr.Score = res.Score
	}

	if rec.HasTruth {
		truth, err := ReconstructGroundTruth(rec.DwellTimes, rec.InitialState, rec.Trace.Len(), rec.Trace.Dt)
		if err != nil {
			tr.Error = err.Error()
			return tr
		}
		tr.Accuracy, err = Accuracy(truth, res.Idealized)
		if err != nil {
			tr.Error = err.Error()
			return tr
		}
		mse, _, _, err := noise.DwellMSE(rec.DwellTimes, res.DwellTimes, mseBins)
		if err != nil {
			// no transitions detected is a valid outcome; report the
			// accuracy and leave the MSE unset
			log.Debugf("%s: dwell MSE unavailable: %v", name, err)
		} else {
			tr.MSE = mse
		}
	}

	if err := store.Save(method, name, &tr); err != nil {
		log.Warningf("%s: could not persist result: %v", name, err)
	}
	return tr
}
