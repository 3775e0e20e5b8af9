// Package compileinfo reports which module version and VCS revision a binary
// was built from, so that target lists can be traced to the code that
// derived them.
package compileinfo

import (
	"fmt"
	"io"
	"runtime/debug"
)

type CompileInfo struct {
	Package    string
	Version    string
	GoVersion  string
	Commit     string
	CommitTime string
	Modified   bool
}

func (c CompileInfo) String() string {
	if c.Package == "" {
		return "No build information is embedded in this binary."
	}

	mod := ""
	if c.Modified {
		mod = " Files in the repo were modified after that commit."
	}

	return fmt.Sprintf("%s %s was built with %s at commit %v at time %v.%s", c.Package, c.Version, c.GoVersion, c.Commit, c.CommitTime, mod)
}

// Get reads the build information embedded by the Go toolchain.
func Get() CompileInfo {
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(z *debug.BuildInfo, ok bool) CompileInfo {
	out := CompileInfo{}
	if !ok || z == nil {
		return out
	}

	out.GoVersion = z.GoVersion
	out.Package = z.Path
	out.Version = z.Main.Version
	for _, s := range z.Settings {
		switch s.Key {
		case "vcs.revision":
			out.Commit = s.Value
		case "vcs.time":
			out.CommitTime = s.Value
		case "vcs.modified":
			out.Modified = s.Value == "true"
		}
	}

	return out
}

// Fprint writes the build information to w.
func Fprint(w io.Writer) error {
	_, err := fmt.Fprintln(w, Get())
	return err
}
