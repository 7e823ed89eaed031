// Package tidy implements the archive and prune sweeps of tidydir.
//
// A run has two phases. The archive phase looks at the immediate children of a
// source directory and relocates every entry that has not been touched for
// longer than the archive age into a category folder below the archive
// directory. The prune phase then walks the category folders and removes
// entries that have not been touched for longer than the delete age.
//
// Key Components:
//
// Age Resolution:
//   - A file's age is the smaller of its access age and modification age
//   - A directory's age is the age of its youngest file, at any depth
//   - A directory without files has an infinite age and never expires
//
// Naming:
//   - Extension to category lookup, with "other" as the fallback
//   - Directories always land in the "directories" category
//   - Collisions get a _YYYYMMDD suffix, then _YYYYMMDD-1, _YYYYMMDD-2, ...
//
// Moving:
//   - A rename when source and archive share a volume
//   - A staged copy (.tidydir-<uuid>.partial) followed by a rename otherwise
//
// Dry runs compute and report every decision without touching the filesystem.
// Everything runs on the calling goroutine; the package holds no global state.
package tidy
