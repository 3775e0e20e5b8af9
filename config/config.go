// Package config loads the analysis document that drives target derivation:
// which SV callers exist and are enabled, where each one writes, the
// workflow mode, and the file-extension conventions. The document is loaded
// once and then only read.
package config

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/carbocation/pfx"
	"github.com/carbocation/svtargets"
	"github.com/carbocation/svtargets/manifest"
	"gopkg.in/yaml.v3"
)

// Config mirrors analysis.yaml.
type Config struct {
	Samples            string                    `yaml:"samples"`
	Mode               string                    `yaml:"mode"`
	Genome             string                    `yaml:"genome"`
	ExcludeRegionsFlag int                       `yaml:"exclude_regions"`
	ExclusionList      string                    `yaml:"exclusion_list"`
	FileExtensions     map[string]Extensions     `yaml:"file_exts"`
	EnableCallers      []string                  `yaml:"enable_callers"`
	Callers            map[string]CallerSettings `yaml:"callers"`

	// Optional. Detected from the manifest contents when empty.
	ManifestDelimiter string `yaml:"manifest_delimiter"`
}

// CallerSettings holds the per-caller entry of the supported-callers mapping.
// Unset resource hints are nil so that defaults can be applied downstream.
type CallerSettings struct {
	OutDir    string `yaml:"outdir"`
	Threads   *int   `yaml:"threads"`
	Memory    *int   `yaml:"memory"`
	TmpSpace  *int   `yaml:"tmpspace"`
	TumorOnly *int   `yaml:"tumor_only"`
}

// Extensions are the registered suffixes for one file format. In YAML, a
// format may map to a single string or to a list of strings.
type Extensions []string

func (e *Extensions) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*e = Extensions{value.Value}
		return nil
	case yaml.SequenceNode:
		var exts []string
		if err := value.Decode(&exts); err != nil {
			return err
		}
		*e = exts
		return nil
	}

	return fmt.Errorf("line %d: file extension must be a string or a list of strings", value.Line)
}

// Load reads and parses the document at path.
func Load(path string) (*Config, error) {
	path, err := svtargets.ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("%s: %w", path, err))
	}

	return cfg, nil
}

// Parse decodes a YAML document and expands ~/ in its path-valued keys.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	for _, p := range []*string{&cfg.Samples, &cfg.Genome, &cfg.ExclusionList} {
		expanded, err := svtargets.ExpandHome(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}

	return cfg, nil
}

// WorkflowMode parses the mode flag.
func (c *Config) WorkflowMode() (svtargets.WorkflowMode, error) {
	mode, err := svtargets.ParseWorkflowMode(c.Mode)
	if err != nil {
		return svtargets.ModeInvalid, &Error{Key: "mode", Reason: err.Error()}
	}

	return mode, nil
}

// FileExts returns every registered extension for format, e.g. "fasta_idx".
func (c *Config) FileExts(format string) ([]string, error) {
	exts, exists := c.FileExtensions[format]
	if !exists || len(exts) == 0 {
		return nil, &Error{Key: "file_exts", Reason: fmt.Sprintf("unknown input file format %q", format)}
	}

	return exts, nil
}

// FileExt returns the first registered extension for format.
func (c *Config) FileExt(format string) (string, error) {
	exts, err := c.FileExts(format)
	if err != nil {
		return "", err
	}

	return exts[0], nil
}

// ExcludeRegions reports whether the exclusion BED should be applied.
func (c *Config) ExcludeRegions() (bool, error) {
	return BinaryFlag("exclude_regions", c.ExcludeRegionsFlag)
}

// ManifestComma returns the configured manifest delimiter, or 0 when it
// should be detected. "tab" and "\t" both mean a tab. The manifest comment
// marker cannot be used as the delimiter.
func (c *Config) ManifestComma() (rune, error) {
	switch c.ManifestDelimiter {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}

	r, size := utf8.DecodeRuneInString(c.ManifestDelimiter)
	if size != len(c.ManifestDelimiter) || r == utf8.RuneError || r == '\n' || r == '\r' || r == '"' {
		return 0, &Error{Key: "manifest_delimiter", Reason: fmt.Sprintf("%q is not a valid single-character delimiter", c.ManifestDelimiter)}
	}
	if r == manifest.DefaultComment {
		return 0, &Error{Key: "manifest_delimiter", Reason: fmt.Sprintf("%q is the comment marker", c.ManifestDelimiter)}
	}

	return r, nil
}

// Validate checks the scalar settings that every run depends on. Caller
// names are checked by the caller registry.
func (c *Config) Validate() error {
	if _, err := c.WorkflowMode(); err != nil {
		return err
	}

	if _, err := c.ExcludeRegions(); err != nil {
		return err
	}

	if _, err := c.ManifestComma(); err != nil {
		return err
	}

	for name, settings := range c.Callers {
		if settings.TumorOnly == nil {
			continue
		}
		if _, err := BinaryFlag("callers."+name+".tumor_only", *settings.TumorOnly); err != nil {
			return err
		}
	}

	return nil
}

// BinaryFlag interprets a boolean-as-integer setting, which must be 0 or 1.
func BinaryFlag(key string, value int) (bool, error) {
	switch value {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}

	return false, &Error{Key: key, Reason: fmt.Sprintf("invalid value %d: must be either 0 or 1", value)}
}
