package models

import (
	"time"

	"fftcompress/pkg/compression"
)

// FileResult records what happened to one input file in a compress run
type FileResult struct {
	// RunID ties the result to the log lines of the same file
	RunID string `yaml:"runId"`

	// Input is the path of the source image
	Input string `yaml:"input"`

	// Output is the path the reconstruction was written to
	Output string `yaml:"output,omitempty"`

	// Width and Height are the source dimensions in pixels
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// CroppedWidth and CroppedHeight are the output dimensions, whole tiles only
	CroppedWidth  int `yaml:"croppedWidth"`
	CroppedHeight int `yaml:"croppedHeight"`

	// Tolerance is the threshold fraction used for this file
	Tolerance float64 `yaml:"tolerance"`

	// DropRate is the fraction of nonzero coefficients discarded
	DropRate float64 `yaml:"dropRate"`

	// Before and After are the nonzero coefficient totals
	Before int `yaml:"before"`
	After  int `yaml:"after"`

	// Metrics is present when quality metrics were requested
	Metrics *compression.QualityMetrics `yaml:"metrics,omitempty"`

	// Elapsed is the wall time spent on this file
	Elapsed time.Duration `yaml:"elapsed"`

	// Error is the failure message, empty on success
	Error string `yaml:"error,omitempty"`
}

// Succeeded reports whether the file was compressed and written.
func (r FileResult) Succeeded() bool { return r.Error == "" }

// RunSummary is the document written by the --summary flag
type RunSummary struct {
	Files     []FileResult `yaml:"files"`
	Succeeded int          `yaml:"succeeded"`
	Failed    int          `yaml:"failed"`
}

// Summarize counts successes and failures over results.
func Summarize(results []FileResult) RunSummary {
	s := RunSummary{Files: results}
	for _, r := range results {
		if r.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
