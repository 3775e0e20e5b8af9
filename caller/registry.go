// Package caller resolves which structural-variant callers are enabled for a
// run and exposes each caller's declared output directory and resource hints.
package caller

import (
	"fmt"
	"sort"
	"strings"

	"github.com/carbocation/svtargets/config"
)

// Name identifies a caller, e.g. "manta" or "delly". It is also the stem of
// the caller's VCF file name.
type Name string

// Resource defaults for callers that do not declare their own.
const (
	DefaultThreads    = 1
	DefaultMemoryMB   = 1024
	DefaultTmpSpaceMB = 0
)

// Resources are the scheduling hints a caller declares.
type Resources struct {
	Threads    int
	MemoryMB   int
	TmpSpaceMB int
}

// Registry answers caller questions against one loaded config.
type Registry struct {
	cfg *config.Config
}

func NewRegistry(cfg *config.Config) *Registry {
	return &Registry{cfg: cfg}
}

// Supported reports whether name is a key of the supported-callers mapping.
func (r *Registry) Supported(name Name) bool {
	_, exists := r.cfg.Callers[string(name)]
	return exists
}

// ActiveCallers returns the enabled callers in the order the config lists
// them. Every entry is checked before returning, and all unsupported names
// are reported together. A supported name must also be usable as a file name
// stem.
func (r *Registry) ActiveCallers() ([]Name, error) {
	callers := make([]Name, 0, len(r.cfg.EnableCallers))
	var unsupported []Name
	for _, c := range r.cfg.EnableCallers {
		name := Name(c)
		if !r.Supported(name) {
			unsupported = append(unsupported, name)
			continue
		}
		callers = append(callers, name)
	}

	if len(unsupported) > 0 {
		return nil, &UnsupportedCallerError{Names: unsupported, Supported: r.supportedNames()}
	}

	for _, name := range callers {
		if err := checkSegment("enable_callers", "caller name", string(name)); err != nil {
			return nil, err
		}
	}

	return callers, nil
}

// IsActive reports whether name is both enabled and supported.
func (r *Registry) IsActive(name Name) bool {
	if !r.Supported(name) {
		return false
	}
	for _, c := range r.cfg.EnableCallers {
		if Name(c) == name {
			return true
		}
	}

	return false
}

// OutputDir returns the directory name a caller writes into, relative to the
// sample directory. It must be a single, non-empty path segment.
func (r *Registry) OutputDir(name Name) (string, error) {
	if !r.IsActive(name) {
		return "", &config.Error{Key: "enable_callers", Reason: fmt.Sprintf("SV caller '%s' is not enabled", name)}
	}

	outdir := r.cfg.Callers[string(name)].OutDir
	key := "callers." + string(name) + ".outdir"
	if outdir == "" {
		return "", &config.Error{Key: key, Reason: "no output directory declared"}
	}
	if err := checkSegment(key, "output directory", outdir); err != nil {
		return "", err
	}

	return outdir, nil
}

// checkSegment rejects values that would add or remove a path segment when
// joined into a target path.
func checkSegment(key, what, value string) error {
	switch {
	case value == "":
		return &config.Error{Key: key, Reason: fmt.Sprintf("empty %s", what)}
	case value == "." || value == "..":
		return &config.Error{Key: key, Reason: fmt.Sprintf("%s %q is not a file name", what, value)}
	case strings.ContainsAny(value, `/\`):
		return &config.Error{Key: key, Reason: fmt.Sprintf("%s %q must be a single path segment", what, value)}
	}

	return nil
}

// Resources returns a caller's thread, memory and temp-space hints, with
// defaults for any that are unset.
func (r *Registry) Resources(name Name) (Resources, error) {
	settings, exists := r.cfg.Callers[string(name)]
	if !exists {
		return Resources{}, &UnsupportedCallerError{Names: []Name{name}, Supported: r.supportedNames()}
	}

	res := Resources{
		Threads:    DefaultThreads,
		MemoryMB:   DefaultMemoryMB,
		TmpSpaceMB: DefaultTmpSpaceMB,
	}
	if settings.Threads != nil {
		res.Threads = *settings.Threads
	}
	if settings.Memory != nil {
		res.MemoryMB = *settings.Memory
	}
	if settings.TmpSpace != nil {
		res.TmpSpaceMB = *settings.TmpSpace
	}

	return res, nil
}

// TumorOnly reports whether Manta should run tumor-only rather than germline
// analysis.
func (r *Registry) TumorOnly() (bool, error) {
	const manta = "manta"
	key := "callers." + manta + ".tumor_only"

	settings, exists := r.cfg.Callers[manta]
	if !exists || settings.TumorOnly == nil {
		return false, &config.Error{Key: key, Reason: "not set"}
	}

	return config.BinaryFlag(key, *settings.TumorOnly)
}

func (r *Registry) supportedNames() []Name {
	names := make([]Name, 0, len(r.cfg.Callers))
	for c := range r.cfg.Callers {
		names = append(names, Name(c))
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
