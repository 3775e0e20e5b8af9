package targets

import (
	"fmt"
	"strings"

	"bitbucket.org/creachadair/stringset"
	"github.com/carbocation/svtargets/caller"
	"github.com/carbocation/svtargets/config"
	"github.com/carbocation/svtargets/manifest"
)

// Targets is everything derived for one run.
type Targets struct {
	Records []manifest.SampleRecord
	Callers []caller.Name
	Outputs []PerCallerTarget
	Merged  stringset.Set
}

// Build validates the configuration, then reads the manifest through src and
// derives both target collections. No part of the manifest is opened unless
// the configuration is valid.
func Build(cfg *config.Config, src manifest.Source) (*Targets, error) {
	mode, err := cfg.WorkflowMode()
	if err != nil {
		return nil, err
	}

	registry := caller.NewRegistry(cfg)
	active, err := registry.ActiveCallers()
	if err != nil {
		return nil, err
	}
	for _, c := range active {
		if _, err := registry.OutputDir(c); err != nil {
			return nil, err
		}
	}

	vcfExt, err := cfg.FileExt("vcf")
	if err != nil {
		return nil, err
	}
	if strings.ContainsAny(vcfExt, `/\`) {
		return nil, &config.Error{Key: "file_exts", Reason: fmt.Sprintf("vcf extension %q contains a path separator", vcfExt)}
	}

	comma, err := cfg.ManifestComma()
	if err != nil {
		return nil, err
	}

	if cfg.Samples == "" {
		return nil, &config.Error{Key: "samples", Reason: "no sample manifest given"}
	}

	records, err := manifest.Read(src, cfg.Samples, manifest.Options{
		Mode:  mode,
		Comma: comma,
	})
	if err != nil {
		return nil, err
	}

	outputs, err := DeriveOutputs(records, active, registry, vcfExt)
	if err != nil {
		return nil, err
	}

	return &Targets{
		Records: records,
		Callers: active,
		Outputs: outputs,
		Merged:  DeriveMerged(outputs),
	}, nil
}
