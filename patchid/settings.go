package main

import (
	"fmt"

	"bitbucket.org/Mikkola/patchid/idealize"
)

// methodSettings stores settings for creation of a new method config.
type methodSettings struct {
	method string

	bins int

	minSeg int
	jump   float64
}

// newMethodSettings creates a new methodSettings from the command line
// parameters (global variables).
func newMethodSettings() *methodSettings {
	return &methodSettings{
		method: *methodName,

		bins: *bins,

		minSeg: *minSeg,
		jump:   *jump,
	}
}

// create returns a method config from settings.
func (m *methodSettings) create() (idealize.Config, error) {
	switch m.method {
	case "naive":
		return idealize.NaiveConfig{Bins: m.bins}, nil
	case "mika":
		return idealize.BandConfig{Bins: m.bins}, nil
	case "mdl":
		return idealize.MDLConfig{MinSeg: m.minSeg, Jump: m.jump, Bins: m.bins}, nil
	}
	return nil, fmt.Errorf("Unknown idealization method: %s", m.method)
}
