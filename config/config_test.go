package config

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/carbocation/svtargets"
	"github.com/google/go-cmp/cmp"
)

const analysisYAML = `
samples: samples.csv
mode: p
genome: data/genome.fasta
exclude_regions: 1
exclusion_list: data/exclude.bed
file_exts:
  fasta: .fasta
  fasta_idx: [.fasta.fai, .fasta.bwt]
  bam: .bam
  bam_idx: .bam.bai
  vcf: .vcf
  bcf: .bcf
  bed: .bed
enable_callers: [manta, delly]
callers:
  manta:
    outdir: manta_out
    threads: 24
    memory: 16384
    tmpspace: 0
    tumor_only: 0
  delly:
    outdir: delly_out
`

func mustParse(t *testing.T, doc string) *Config {
	t.Helper()

	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}

	return cfg
}

func TestParse(t *testing.T) {
	cfg := mustParse(t, analysisYAML)

	if cfg.Samples != "samples.csv" {
		t.Errorf("samples: got %q", cfg.Samples)
	}
	if diff := cmp.Diff([]string{"manta", "delly"}, cfg.EnableCallers); diff != "" {
		t.Errorf("enable_callers mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.Callers["manta"].OutDir; got != "manta_out" {
		t.Errorf("manta outdir: got %q", got)
	}
	if threads := cfg.Callers["manta"].Threads; threads == nil || *threads != 24 {
		t.Errorf("manta threads: got %v", threads)
	}
	if cfg.Callers["delly"].Threads != nil {
		t.Error("delly threads should be unset")
	}

	mode, err := cfg.WorkflowMode()
	if err != nil {
		t.Fatal(err)
	}
	if mode != svtargets.ModePaired {
		t.Errorf("mode: got %v", mode)
	}

	if err := cfg.Validate(); err != nil {
		t.Error(err)
	}
}

func TestFileExts(t *testing.T) {
	cfg := mustParse(t, analysisYAML)

	vcf, err := cfg.FileExt("vcf")
	if err != nil {
		t.Fatal(err)
	}
	if vcf != ".vcf" {
		t.Errorf("vcf: got %q", vcf)
	}

	idx, err := cfg.FileExts("fasta_idx")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{".fasta.fai", ".fasta.bwt"}, idx); diff != "" {
		t.Errorf("fasta_idx mismatch (-want +got):\n%s", diff)
	}

	_, err = cfg.FileExt("cram")
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a configuration error, got %v", err)
	}
	if cfgErr.Key != "file_exts" {
		t.Errorf("key: got %q", cfgErr.Key)
	}
}

func TestFileExtsRejectsMapping(t *testing.T) {
	if _, err := Parse([]byte("file_exts:\n  vcf: {a: b}\n")); err == nil {
		t.Error("expected an error for a mapping-valued extension")
	}
}

func TestValidateRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		key  string
	}{
		{"mode", "mode: x\n", "mode"},
		{"missing mode", "exclude_regions: 0\n", "mode"},
		{"exclude_regions", "mode: s\nexclude_regions: 2\n", "exclude_regions"},
		{"tumor_only", "mode: s\ncallers:\n  manta:\n    tumor_only: 3\n", "callers.manta.tumor_only"},
		{"delimiter", "mode: s\nmanifest_delimiter: ',;'\n", "manifest_delimiter"},
		{"comment delimiter", "mode: s\nmanifest_delimiter: '#'\n", "manifest_delimiter"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := mustParse(t, test.doc).Validate()
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected a configuration error, got %v", err)
			}
			if cfgErr.Key != test.key {
				t.Errorf("key: got %q, want %q", cfgErr.Key, test.key)
			}
		})
	}
}

func TestManifestComma(t *testing.T) {
	tests := []struct {
		delimiter string
		want      rune
	}{
		{"", 0},
		{",", ','},
		{"tab", '\t'},
		{`\t`, '\t'},
		{"\t", '\t'},
		{";", ';'},
	}

	for _, test := range tests {
		cfg := &Config{ManifestDelimiter: test.delimiter}
		got, err := cfg.ManifestComma()
		if err != nil {
			t.Errorf("%q: %v", test.delimiter, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %q, want %q", test.delimiter, got, test.want)
		}
	}
}

func TestParseExpandsHome(t *testing.T) {
	usr, err := user.Current()
	if err != nil {
		t.Skip(err)
	}

	cfg := mustParse(t, "samples: ~/cohort/samples.csv\n")
	if want := filepath.Join(usr.HomeDir, "cohort/samples.csv"); cfg.Samples != want {
		t.Errorf("got %q, want %q", cfg.Samples, want)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	if err := os.WriteFile(path, []byte(analysisYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mode != "p" {
		t.Errorf("mode: got %q", cfg.Mode)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
