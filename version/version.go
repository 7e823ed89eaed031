package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags by release builds.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info contains version information
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Package string `json:"package"`
}

// readBuildInfo is swapped out by tests.
var readBuildInfo = debug.ReadBuildInfo

func buildSetting(key string) string {
	info, ok := readBuildInfo()
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

func stamped(value, unset string) bool {
	return value != "" && value != unset
}

// GetVersion returns the linked-in version, else the module version recorded
// by go install, else "development".
func GetVersion() string {
	if stamped(Version, "dev") {
		return Version
	}
	if info, ok := readBuildInfo(); ok && stamped(info.Main.Version, "(devel)") {
		return info.Main.Version
	}
	return "development"
}

// GetCommit returns the linked-in commit, else the VCS revision Go recorded.
func GetCommit() string {
	if stamped(Commit, "unknown") {
		return Commit
	}
	if rev := buildSetting("vcs.revision"); rev != "" {
		return rev
	}
	return "unknown"
}

// GetBuildDate returns the linked-in build date, else the VCS commit time.
func GetBuildDate() string {
	if stamped(Date, "unknown") {
		return Date
	}
	if t := buildSetting("vcs.time"); t != "" {
		return t
	}
	return "unknown"
}

// GetInfo returns complete version information
func GetInfo() Info {
	return Info{
		Version: GetVersion(),
		Commit:  GetCommit(),
		Date:    GetBuildDate(),
		Package: "tidydir",
	}
}

// GetFullVersion returns the version followed by the short commit and build
// date when they are known, e.g. "v1.2.0 (3f2c1ab, built 2024-05-01)".
func GetFullVersion() string {
	info := GetInfo()
	if info.Commit == "unknown" || len(info.Commit) <= 7 {
		return info.Version
	}
	short := info.Commit[:7]
	if info.Date == "unknown" {
		return fmt.Sprintf("%s (%s)", info.Version, short)
	}
	return fmt.Sprintf("%s (%s, built %s)", info.Version, short, info.Date)
}
