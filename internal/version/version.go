// Package version reports the appshell build: release version, VCS
// revision and toolchain. Release builds set the variables below with
// -ldflags; development builds fall back to the module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// Set with -ldflags "-X github.com/conneroisu/appshell/internal/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const devVersion = "dev"

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit" yaml:"git_commit"`
	BuildTime time.Time `json:"build_time" yaml:"build_time"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	Platform  string    `json:"platform" yaml:"platform"`
	Dirty     bool      `json:"dirty" yaml:"dirty"`
}

// GetBuildInfo collects the build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   GetVersion(),
		GitCommit: GetGitCommit(),
		BuildTime: parseBuildTime(BuildTime),
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Dirty:     buildSetting("vcs.modified") == "true",
	}
}

// GetVersion returns the release version, the module version, or
// "dev-<revision>" for untagged builds.
func GetVersion() string {
	if Version != "" && Version != devVersion {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	if revision := buildSetting("vcs.revision"); len(revision) >= 7 {
		return devVersion + "-" + revision[:7]
	}

	return devVersion
}

// GetGitCommit returns the full commit hash or "unknown".
func GetGitCommit() string {
	if GitCommit != "" && GitCommit != "unknown" {
		return GitCommit
	}
	if revision := buildSetting("vcs.revision"); revision != "" {
		return revision
	}

	return "unknown"
}

// GetShortVersion returns the version with an abbreviated commit, as shown
// in the health endpoint and `appshell version --short`. Development
// builds carry the revision in the version itself.
func GetShortVersion() string {
	v := GetVersion()
	commit := GetGitCommit()
	if !IsRelease() || len(commit) < 7 {
		return v
	}

	return fmt.Sprintf("%s (%s)", v, commit[:7])
}

// IsRelease reports whether the binary carries a release version.
func IsRelease() bool {
	return !strings.HasPrefix(GetVersion(), devVersion)
}

// String renders the build information one field per line.
func (b BuildInfo) String() string {
	lines := []string{"Version: " + b.Version}
	if b.GitCommit != "unknown" {
		commit := "Commit: " + b.GitCommit
		if b.Dirty {
			commit += " (dirty)"
		}
		lines = append(lines, commit)
	}
	if !b.BuildTime.IsZero() {
		lines = append(lines, "Built: "+b.BuildTime.UTC().Format(time.RFC3339))
	}
	lines = append(lines, "Go: "+b.GoVersion, "Platform: "+b.Platform)

	return strings.Join(lines, "\n")
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}

	return ""
}

// parseBuildTime accepts RFC 3339 and the common variants CI systems
// emit. Anything else yields the zero time.
func parseBuildTime(value string) time.Time {
	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}

	return time.Time{}
}
