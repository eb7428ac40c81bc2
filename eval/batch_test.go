package eval

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Mikkola/patchid/idealize"
	"bitbucket.org/Mikkola/patchid/results"
	"bitbucket.org/Mikkola/patchid/trace"
)

func init() {
	// disable logging for tests
	logging.SetLevel(logging.ERROR, "eval")
	logging.SetLevel(logging.WARNING, "idealize")
	logging.SetLevel(logging.WARNING, "results")
}

// telegraphRecord builds a noisy two-state trace with its ground-truth
// annotation.
func telegraphRecord(name string, segs []int, dt, sd float64, seed int64) *trace.Record {
	r := rand.New(rand.NewSource(seed))
	var samples []float64
	var dwells []float64
	level := 0.0
	for _, n := range segs {
		for i := 0; i < n; i++ {
			samples = append(samples, level+r.NormFloat64()*sd)
		}
		dwells = append(dwells, float64(n)*dt)
		level = 1 - level
	}
	tr, _ := trace.New(name, samples, dt)
	return &trace.Record{
		Trace:      tr,
		DwellTimes: dwells,
		HasTruth:   true,
	}
}

func TestBatch(tst *testing.T) {
	records := []*trace.Record{
		telegraphRecord("a.txt", []int{300, 200, 250, 250}, 1e-4, 0.1, 41),
		telegraphRecord("b.txt", []int{400, 300, 300}, 1e-4, 0.1, 42),
		telegraphRecord("c.txt", []int{500, 500}, 1e-4, 0.1, 43),
	}

	s := Batch(idealize.NaiveConfig{Bins: 30}, records, 2, nil, 10)
	if s.Failed != 0 {
		tst.Fatalf("Expected no failures, got %d", s.Failed)
	}
	if s.Evaluated != 3 {
		tst.Fatalf("Expected 3 evaluated traces, got %d", s.Evaluated)
	}
	if s.MeanAccuracy < 0.95 {
		tst.Errorf("Expected high accuracy on clean synthetic traces, got %g", s.MeanAccuracy)
	}
	if len(s.Traces) != 3 {
		tst.Errorf("Expected per-trace breakdown of 3, got %d", len(s.Traces))
	}
}

// TestBatchFailingTrace checks that a degenerate trace is reported and
// skipped instead of aborting the batch.
func TestBatchFailingTrace(tst *testing.T) {
	constant, _ := trace.New("flat.txt", make([]float64, 100), 1e-4)
	records := []*trace.Record{
		telegraphRecord("a.txt", []int{300, 300}, 1e-4, 0.1, 44),
		{Trace: constant},
	}

	s := Batch(idealize.NaiveConfig{Bins: 30}, records, 1, nil, 10)
	if s.Failed != 1 {
		tst.Fatalf("Expected 1 failed trace, got %d", s.Failed)
	}
	if s.Evaluated != 1 {
		tst.Fatalf("Expected 1 evaluated trace, got %d", s.Evaluated)
	}
	var failed *TraceResult
	for i := range s.Traces {
		if s.Traces[i].Name == "flat.txt" {
			failed = &s.Traces[i]
		}
	}
	if failed == nil || failed.Error == "" {
		tst.Error("Expected the flat trace to carry an error message")
	}
}

func TestBatchResume(tst *testing.T) {
	dbPath := filepath.Join(tst.TempDir(), "results.db")
	db, err := bolt.Open(dbPath, 0644, nil)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()
	store := results.NewResultIO(db)

	records := []*trace.Record{
		telegraphRecord("a.txt", []int{300, 300}, 1e-4, 0.1, 45),
	}

	s1 := Batch(idealize.NaiveConfig{Bins: 30}, records, 1, store, 10)
	s2 := Batch(idealize.NaiveConfig{Bins: 30}, records, 1, store, 10)
	if s1.MeanAccuracy != s2.MeanAccuracy {
		tst.Errorf("Expected identical results on resume, got %g vs %g",
			s1.MeanAccuracy, s2.MeanAccuracy)
	}
	if s2.Evaluated != 1 {
		tst.Errorf("Expected cached trace to be evaluated, got %d", s2.Evaluated)
	}
}
