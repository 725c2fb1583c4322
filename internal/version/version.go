// Package version reports which reciplore build is running. Release builds
// set the variables below with ldflags; `go install` builds fall back to the
// module and VCS data the toolchain embeds.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Set with -ldflags "-X github.com/reciplore/reciplore/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	Dirty     bool   `json:"dirty,omitempty" yaml:"dirty,omitempty"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// GetInfo merges the ldflags values with the embedded build info. Values
// set with ldflags win.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := readBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" {
				info.Commit = s.Value
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

// Revision is the commit abbreviated to eight characters, with a "-dirty"
// suffix for builds from a modified tree.
func (i Info) Revision() string {
	rev := i.Commit
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if i.Dirty {
		rev += "-dirty"
	}
	return rev
}

// String is the long form printed by `reciplore version --long`.
func (i Info) String() string {
	return fmt.Sprintf("Reciplore %s (%s) built %s with %s for %s",
		i.Version, i.Revision(), i.Date, i.GoVersion, i.Platform)
}

// Short returns the version alone.
func (i Info) Short() string {
	return i.Version
}

// UserAgent is sent with every backend request.
func (i Info) UserAgent() string {
	return fmt.Sprintf("reciplore-cli/%s (%s)", i.Version, i.Platform)
}
