/*

Patchid idealizes noisy single-molecule ion-channel current recordings
into discrete two-state conductance sequences and evaluates the competing
segmentation methods against ground-truth dwell-time annotations.

The basic usage of patchid looks like this:

	patchid dataset/

, this will run the optimized threshold-band method ("mika") over every
trace in the dataset directory.

You can change the method and its parameters:

	patchid -method mdl -minseg 50 -jump 0.5 dataset/

To see all the options run:

	patchid -h

*/
package main

import (
	"encoding/json"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Mikkola/patchid/eval"
	"bitbucket.org/Mikkola/patchid/results"
	"bitbucket.org/Mikkola/patchid/trace"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = "branch: " + gitbranch + ", revision: " + githash + ", build time: " + buildstamp

// Logger settings.
var log = logging.MustGetLogger("patchid")
var formatter = logging.MustStringFormatter(`%{message}`)

// command-line options
var (
	// application
	app = kingpin.New("patchid", "ion-channel current idealizer and evaluator").Version(version)

	// input
	dataDir = app.Arg("data", "dataset directory with raw traces and dwell-time annotations").Required().ExistingDir()

	// method parameters
	methodName = app.Flag("method", "idealization method "+
		"(naive: plain threshold crossing, "+
		"mika: threshold band optimized against noise normality, "+
		"mdl: minimum-description-length segmentation"+
		")").Default("mika").Enum("naive", "mika", "mdl")
	dt      = app.Flag("dt", "sampling interval in seconds").Default("1e-4").Float64()
	bins    = app.Flag("bins", "amplitude histogram bin count (0: Freedman-Diaconis rule)").Default("0").Int()
	minSeg  = app.Flag("minseg", "minimum segment length in samples (mdl)").Default("50").Int()
	jump    = app.Flag("jump", "minimum jump between segment means (mdl)").Default("0.5").Float64()
	mseBins = app.Flag("msebins", "dwell-time histogram bin count for the MSE comparison").Default("30").Int()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// input/output
	outLogF  = app.Flag("log", "write log to a file").String()
	dbFileName = app.Flag("db", "result database file, enables resuming interrupted runs").String()
	idealizedF = app.Flag("idealized", "write idealized label sequences to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum("critical", "error", "warning", "notice", "info", "debug")
	jsonF = app.Flag("json", "write json output to a file").String()
)

func run() (summary *RunSummary) {
	startTime := time.Now()
	summary = &RunSummary{Method: *methodName, Dt: *dt}

	records, err := trace.LoadDataset(*dataDir, *dt)
	if err != nil {
		log.Fatal(err)
	}
	if len(records) == 0 {
		log.Fatal("No traces found in ", *dataDir)
	}
	summary.Traces = len(records)

	var db *bolt.DB
	if *dbFileName != "" {
		db, err = bolt.Open(*dbFileName, 0644, nil)
		if err != nil {
			log.Fatal("Error opening result database:", err)
		}
		defer db.Close()
	}
	store := results.NewResultIO(db)

	ms := newMethodSettings()
	cfg, err := ms.create()
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Using %s method.", cfg.Method())

	summary.Evaluation = eval.Batch(cfg, records, runtime.GOMAXPROCS(0), store, *mseBins)

	if *idealizedF != "" {
		f, err := os.Create(*idealizedF)
		if err != nil {
			log.Error("Error creating idealized output file:", err)
		} else {
			err = writeIdealized(f, cfg, records)
			f.Close()
			if err != nil {
				log.Error("Error writing idealized sequences:", err)
			}
		}
	}

	endTime := time.Now()

	deltaT := endTime.Sub(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.Time = deltaT.Seconds()

	return
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	// logging
	logging.SetFormatter(formatter)

	var backend *logging.LogBackend
	if *outLogF != "" {
		f, err := os.OpenFile(*outLogF, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatal("Error creating log file:", err)
		}
		defer f.Close()
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		log.Fatal(err)
	}
	logging.SetLevel(level, "patchid")
	logging.SetLevel(level, "trace")
	logging.SetLevel(level, "idealize")
	logging.SetLevel(level, "eval")
	logging.SetLevel(level, "results")

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	runtime.GOMAXPROCS(*nThreads)

	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.\n", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	summary := run()
	summary.NThreads = effectiveNThreads
	summary.Version = version
	summary.CommandLine = os.Args

	// output summary in json format
	if *jsonF != "" {
		j, err := json.Marshal(summary)
		if err != nil {
			log.Error(err)
		} else {
			log.Debug(string(j))
			f, err := os.Create(*jsonF)
			if err != nil {
				log.Error("Error creating json output file:", err)
			} else {
				f.Write(j)
				f.Close()
			}
		}
	}
}
