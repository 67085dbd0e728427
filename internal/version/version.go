// Package version reports how the salesreport binary was built. The
// variables are stamped with -ldflags "-X" at release time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

const unknown = "unknown"

// Set by ldflags.
var (
	Version   = "dev"
	BuildDate = unknown
	GitCommit = unknown
	GitTag    = unknown
	GoVersion = runtime.Version()
)

// BuildInfo is a snapshot of the build variables plus the module graph the
// Go toolchain embedded in the binary.
type BuildInfo struct {
	Version   string   `json:"version"`
	BuildDate string   `json:"build_date"`
	GitCommit string   `json:"git_commit"`
	GitTag    string   `json:"git_tag"`
	GoVersion string   `json:"go_version"`
	Dirty     bool     `json:"dirty"`
	Main      Module   `json:"main"`
	Deps      []Module `json:"deps,omitempty"`
}

// Module is one entry of the embedded module graph.
type Module struct {
	Path    string `json:"path"`
	Version string `json:"version"`
}

// Info collects the build information of the running binary.
func Info() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GitTag:    GitTag,
		GoVersion: GoVersion,
		Dirty:     strings.HasSuffix(GitCommit, "-dirty"),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.Main = Module{Path: bi.Main.Path, Version: bi.Main.Version}
	for _, dep := range bi.Deps {
		if dep.Replace != nil {
			dep = dep.Replace
		}
		info.Deps = append(info.Deps, Module{Path: dep.Path, Version: dep.Version})
	}
	return info
}

// Short is the one-line form stamped into report artifacts, e.g.
// "v1.2.0 (abc123d)".
func (b BuildInfo) Short() string {
	if !known(b.GitCommit) {
		return b.Version
	}
	return fmt.Sprintf("%s (%s)", b.Version, abbreviate(b.GitCommit))
}

// String renders the multi-line form printed by the version command.
func (b BuildInfo) String() string {
	var sb strings.Builder
	sb.WriteString("salesreport\n")

	fmt.Fprintf(&sb, "Version: %s", b.Version)
	if known(b.GitTag) && b.GitTag != b.Version {
		fmt.Fprintf(&sb, " (%s)", b.GitTag)
	}
	if preRelease(b.Version) {
		sb.WriteString(" (pre-release)")
	}
	if b.Dirty {
		sb.WriteString(" (dirty)")
	}
	sb.WriteByte('\n')

	for _, line := range []struct{ label, value string }{
		{"Build Date", b.BuildDate},
		{"Git Commit", abbreviate(b.GitCommit)},
	} {
		if known(line.value) {
			fmt.Fprintf(&sb, "%s: %s\n", line.label, line.value)
		}
	}
	fmt.Fprintf(&sb, "Go Version: %s\n", b.GoVersion)
	if b.Main.Path != "" {
		fmt.Fprintf(&sb, "Module: %s\n", b.Main.Path)
	}
	return sb.String()
}

// IsRelease reports whether Version is a plain release number, not "dev" and
// without a pre-release or build suffix.
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-")
}

func preRelease(v string) bool {
	for _, marker := range []string{"-alpha", "-beta", "-rc"} {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

func known(v string) bool {
	return v != "" && v != unknown
}

// abbreviate shortens a commit hash to seven characters.
func abbreviate(commit string) string {
	const n = 7
	if len(commit) > n {
		return commit[:n]
	}
	return commit
}
