package trace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("trace")

// DwellSuffix marks dwell-time annotation files: the annotation for
// raw trace NAME.txt is NAME_dwell.txt.
const DwellSuffix = "_dwell"

// StatesFileName is the per-dataset file mapping trace names to their
// recorded initial state.
const StatesFileName = "initial_states.txt"

// Record pairs a trace with its ground-truth annotation, when present.
type Record struct {
	Trace        *Trace
	DwellTimes   []float64
	InitialState int
	// HasTruth is false for traces without a dwell-time annotation.
	HasTruth bool
}

// LoadDataset reads all raw traces in dir together with their dwell-time
// annotations and the initial-state map. Records are sorted by name.
func LoadDataset(dir string, dt float64) ([]*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	states := map[string]int{}
	statesPath := filepath.Join(dir, StatesFileName)
	if f, err := os.Open(statesPath); err == nil {
		states, err = ReadInitialStates(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %v", statesPath, err)
		}
	} else {
		log.Debugf("no initial-state file in %s", dir)
	}

	var records []*Record
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		base := strings.TrimSuffix(name, ".txt")
		if strings.HasSuffix(base, DwellSuffix) || name == StatesFileName {
			continue
		}

		rec, err := loadRecord(dir, name, base, dt, states)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Trace.Name < records[j].Trace.Name
	})
	log.Infof("Loaded %d traces from %s", len(records), dir)
	return records, nil
}

func loadRecord(dir, name, base string, dt float64, states map[string]int) (*Record, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		return nil, err
	}
	tr, err := ReadTrace(f, name, dt)
	f.Close()
	if err != nil {
		return nil, err
	}

	rec := &Record{Trace: tr}
	dwellPath := filepath.Join(dir, base+DwellSuffix+".txt")
	df, err := os.Open(dwellPath)
	if err != nil {
		log.Debugf("no dwell annotation for %s", name)
		return rec, nil
	}
	rec.DwellTimes, err = ReadDwellTimes(df)
	df.Close()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", dwellPath, err)
	}
	rec.HasTruth = true
	if s, ok := states[name]; ok {
		rec.InitialState = s
	}
	return rec, nil
}
