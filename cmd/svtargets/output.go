package main

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/svtargets/caller"
	"github.com/carbocation/svtargets/config"
	"github.com/carbocation/svtargets/manifest"
	"github.com/carbocation/svtargets/targets"
	"github.com/gocarina/gocsv"
)

const (
	KindOutputs   = "outputs"
	KindMerged    = "merged"
	KindResources = "resources"

	FormatLines = "lines"
	FormatTSV   = "tsv"
)

func validKind(kind string) bool {
	return kind == KindOutputs || kind == KindMerged || kind == KindResources
}

func validFormat(format string) bool {
	return format == FormatLines || format == FormatTSV
}

type OutputRow struct {
	SampleDir string `csv:"sample_dir"`
	Caller    string `csv:"caller"`
	Path      string `csv:"path"`
}

type MergedRow struct {
	Path string `csv:"path"`
}

type ResourceRow struct {
	Caller     string `csv:"caller"`
	OutputDir  string `csv:"outdir"`
	Threads    int    `csv:"threads"`
	MemoryMB   int    `csv:"memory_mb"`
	TmpSpaceMB int    `csv:"tmpspace_mb"`

	// "0" or "1" for manta when tumor_only is set, "-" otherwise
	TumorOnly string `csv:"tumor_only"`
}

// run writes the requested targets to w. When checkRecords is not nil, it is
// called with the parsed manifest before anything is written.
func run(cfg *config.Config, src manifest.Source, kind, format string, checkRecords func([]manifest.SampleRecord) error, w io.Writer) error {
	if kind == KindResources {
		return writeResources(cfg, format, w)
	}

	t, err := targets.Build(cfg, src)
	if err != nil {
		return err
	}

	if checkRecords != nil {
		if err := checkRecords(t.Records); err != nil {
			return err
		}
	}

	switch kind {
	case KindOutputs:
		if format == FormatLines {
			return writeLines(w, targets.Paths(t.Outputs))
		}
		rows := make([]*OutputRow, 0, len(t.Outputs))
		for _, o := range t.Outputs {
			rows = append(rows, &OutputRow{SampleDir: o.SampleDir, Caller: string(o.Caller), Path: o.Path()})
		}
		return writeTSV(w, &rows)
	case KindMerged:
		merged := t.Merged.Elements()
		if format == FormatLines {
			return writeLines(w, merged)
		}
		rows := make([]*MergedRow, 0, len(merged))
		for _, m := range merged {
			rows = append(rows, &MergedRow{Path: m})
		}
		return writeTSV(w, &rows)
	}

	return fmt.Errorf("unrecognized kind '%s'", kind)
}

func writeResources(cfg *config.Config, format string, w io.Writer) error {
	registry := caller.NewRegistry(cfg)
	active, err := registry.ActiveCallers()
	if err != nil {
		return err
	}

	rows := make([]*ResourceRow, 0, len(active))
	for _, c := range active {
		outdir, err := registry.OutputDir(c)
		if err != nil {
			return err
		}
		res, err := registry.Resources(c)
		if err != nil {
			return err
		}
		tumorOnly, err := tumorOnlyColumn(cfg, registry, c)
		if err != nil {
			return err
		}
		rows = append(rows, &ResourceRow{
			Caller:     string(c),
			OutputDir:  outdir,
			Threads:    res.Threads,
			MemoryMB:   res.MemoryMB,
			TmpSpaceMB: res.TmpSpaceMB,
			TumorOnly:  tumorOnly,
		})
	}

	if format == FormatLines {
		for _, r := range rows {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", r.Caller, r.OutputDir, r.Threads, r.MemoryMB, r.TmpSpaceMB, r.TumorOnly); err != nil {
				return err
			}
		}
		return nil
	}

	return writeTSV(w, &rows)
}

func tumorOnlyColumn(cfg *config.Config, registry *caller.Registry, c caller.Name) (string, error) {
	if c != "manta" || cfg.Callers[string(c)].TumorOnly == nil {
		return "-", nil
	}

	tumorOnly, err := registry.TumorOnly()
	if err != nil {
		return "", err
	}
	if tumorOnly {
		return "1", nil
	}

	return "0", nil
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func writeTSV(w io.Writer, rows interface{}) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(cw))
}
