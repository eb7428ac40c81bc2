package main

import (
	"bufio"
	"io"
	"strconv"

	"bitbucket.org/Mikkola/patchid/idealize"
	"bitbucket.org/Mikkola/patchid/trace"
)

// writeIdealized serializes the idealized label sequence of every trace:
// the trace name on one line, the comma-joined integer labels on the next.
func writeIdealized(w io.Writer, cfg idealize.Config, records []*trace.Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		res, err := idealize.Run(cfg, rec.Trace)
		if err != nil {
			log.Warningf("%s: skipping in idealized output: %v", rec.Trace.Name, err)
			continue
		}
		if _, err := bw.WriteString(rec.Trace.Name + "\n"); err != nil {
			return err
		}
		for i, s := range res.Idealized {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(strconv.Itoa(s)); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
