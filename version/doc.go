// Package version provides version information and build metadata for tidydir.
//
// Version Information Sources:
//   - Compile-time variables (Version, Commit, Date) set via -ldflags
//   - Runtime build info from debug.ReadBuildInfo()
//   - Fallback defaults for development builds
//
// The package provides multiple version formats:
//   - GetVersion(): Simple version string
//   - GetFullVersion(): Formatted version with commit and build date
//   - GetInfo(): Complete version information as a struct
//
// Release builds set version information with:
//
//	-ldflags "-X github.com/dendrascience/tidydir/version.Version=v1.0.0 -X github.com/dendrascience/tidydir/version.Commit=abc123 -X github.com/dendrascience/tidydir/version.Date=2023-01-01T00:00:00Z"
package version
