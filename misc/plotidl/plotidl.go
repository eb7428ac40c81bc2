// plotidl creates a plot of a raw trace with its idealization overlay.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"bitbucket.org/Mikkola/patchid/idealize"
	"bitbucket.org/Mikkola/patchid/trace"
)

func main() {
	traceF := flag.String("trace", "", "raw amplitude file, one float per line")
	dt := flag.Float64("dt", 1e-4, "sampling interval in seconds")
	bins := flag.Int("bins", 0, "histogram bins, 0 for Freedman-Diaconis")
	out := flag.String("o", "idealized.png", "output image")
	flag.Parse()

	if *traceF == "" {
		fmt.Fprintln(os.Stderr, "no trace file given")
		os.Exit(1)
	}

	f, err := os.Open(*traceF)
	if err != nil {
		panic(err)
	}
	tr, err := trace.ReadTrace(f, filepath.Base(*traceF), *dt)
	f.Close()
	if err != nil {
		panic(err)
	}

	res, err := idealize.Run(idealize.BandConfig{Bins: *bins}, tr)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%d breakpoints, score %g\n", len(res.Breakpoints), res.Score)

	p, err := plot.New()
	if err != nil {
		panic(err)
	}
	p.X.Label.Text = "time [s]"
	p.Y.Label.Text = "current"

	times := tr.Times()
	raw := make(plotter.XYs, tr.Len())
	ideal := make(plotter.XYs, tr.Len())
	amps := res.Amplitudes()
	for i := range times {
		raw[i].X = times[i]
		raw[i].Y = tr.Samples[i]
		ideal[i].X = times[i]
		ideal[i].Y = amps[i]
	}

	err = plotutil.AddLines(p,
		"raw", raw,
		"idealized", ideal)
	if err != nil {
		panic(err)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, *out); err != nil {
		panic(err)
	}
}
