package svtargets

import (
	"fmt"
	"path/filepath"
)

// WorkflowMode determines whether each manifest row describes one sample or a
// pair of samples (e.g., tumor/normal).
type WorkflowMode byte

const (
	ModeInvalid WorkflowMode = iota
	ModeSingle
	ModePaired
)

// PairSeparator joins SAMPLE1 and SAMPLE2 in paired mode.
const PairSeparator = "--"

// ParseWorkflowMode accepts exactly "s" (single) or "p" (paired).
func ParseWorkflowMode(s string) (WorkflowMode, error) {
	switch s {
	case "s":
		return ModeSingle, nil
	case "p":
		return ModePaired, nil
	}

	return ModeInvalid, fmt.Errorf("invalid workflow mode %q: run (s)ingle- or (p)aired-samples analysis", s)
}

func (m WorkflowMode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModePaired:
		return "paired"
	}

	return "invalid"
}

// SampleDir composes the sample-path segment for one manifest row:
// PATH/SAMPLE1 in single mode and PATH/SAMPLE1--SAMPLE2 in paired mode.
// sample2 is ignored in single mode. The result is cleaned, so "./runs"
// and "runs/" both give "runs/A".
func (m WorkflowMode) SampleDir(path, sample1, sample2 string) string {
	if m == ModePaired {
		return filepath.Join(path, sample1+PairSeparator+sample2)
	}

	return filepath.Join(path, sample1)
}
