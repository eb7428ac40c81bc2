package main

import "bitbucket.org/Mikkola/patchid/eval"

// RunSummary is storing patchid run summary information.
type RunSummary struct {
	// Version stores patchid version.
	Version string `json:"version"`
	// CommandLine is an array storing binary name and all command-line parameters.
	CommandLine []string `json:"commandLine"`
	// NThreads is the number of processes used.
	NThreads int `json:"nThreads"`
	// Method is the idealization method name.
	Method string `json:"method"`
	// Dt is the sampling interval in seconds.
	Dt float64 `json:"dt"`
	// Traces is the number of traces in the dataset.
	Traces int `json:"traces"`
	// Time is the computations time in seconds.
	Time float64 `json:"time"`
	// Evaluation is the batch evaluation summary.
	Evaluation *eval.Summary `json:"evaluation"`
}
