// Package targets derives the VCF paths that an SV calling run is expected to
// produce: one per sample per caller, plus one merged VCF per sample.
//
// Per-caller targets have the layout
//
//	PATH/SAMPLE1[--SAMPLE2]/CALLER_OUTDIR/survivor/CALLER.vcf
//
// and the merged target for the same sample is
//
//	PATH/SAMPLE1[--SAMPLE2]/all.vcf
package targets

import (
	"path/filepath"

	"bitbucket.org/creachadair/stringset"
	"github.com/carbocation/svtargets/caller"
	"github.com/carbocation/svtargets/manifest"
)

const (
	SurvivorDir    = "survivor"
	MergedFileName = "all.vcf"

	// Segments appended to a sample directory by PerCallerTarget.Path:
	// caller outdir, survivor, file name.
	perCallerDepth = 3
)

// PerCallerTarget is the VCF one caller writes for one sample.
type PerCallerTarget struct {
	SampleDir string
	OutputDir string
	Caller    caller.Name
	FileName  string
}

// Path joins the target's segments.
func (t PerCallerTarget) Path() string {
	return filepath.Join(t.SampleDir, t.OutputDir, SurvivorDir, t.FileName)
}

// Merged returns the merged target this per-caller target contributes to.
func (t PerCallerTarget) Merged() string {
	return filepath.Join(ParentOf(t.Path(), perCallerDepth), MergedFileName)
}

// ParentOf strips levels trailing segments from path.
func ParentOf(path string, levels int) string {
	for i := 0; i < levels; i++ {
		path = filepath.Dir(path)
	}

	return path
}

// OutputDirs resolves a caller's output directory name.
type OutputDirs interface {
	OutputDir(name caller.Name) (string, error)
}

// DeriveOutputs produces exactly one target for every (record, caller) pair,
// in manifest order and, within a record, in caller order. vcfExt is
// appended to the caller name to form the file name.
func DeriveOutputs(records []manifest.SampleRecord, active []caller.Name, dirs OutputDirs, vcfExt string) ([]PerCallerTarget, error) {
	outdirs := make(map[caller.Name]string, len(active))
	for _, c := range active {
		dir, err := dirs.OutputDir(c)
		if err != nil {
			return nil, err
		}
		outdirs[c] = dir
	}

	outfiles := make([]PerCallerTarget, 0, len(records)*len(active))
	for _, rec := range records {
		for _, c := range active {
			outfiles = append(outfiles, PerCallerTarget{
				SampleDir: rec.Dir,
				OutputDir: outdirs[c],
				Caller:    c,
				FileName:  string(c) + vcfExt,
			})
		}
	}

	return outfiles, nil
}

// DeriveMerged collapses per-caller targets to one merged target per sample
// directory. The result does not depend on the order of perCaller.
func DeriveMerged(perCaller []PerCallerTarget) stringset.Set {
	merged := stringset.New()
	for _, t := range perCaller {
		merged.Add(t.Merged())
	}

	return merged
}

// Paths flattens targets to their paths, preserving order.
func Paths(perCaller []PerCallerTarget) []string {
	out := make([]string, len(perCaller))
	for i, t := range perCaller {
		out[i] = t.Path()
	}

	return out
}
