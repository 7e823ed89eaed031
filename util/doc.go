// Package util provides the file-backed inputs and read-only reports that sit
// around the tidy core.
//
// Nothing in this package moves or deletes anything. It loads the documents a
// tidy run is configured with and summarises what an archive holds.
//
// Key Components:
//
// Category Mapping:
//   - LoadMapping reads a YAML document of category: [extensions] pairs
//   - Categories keep their document order; a later category wins a duplicate extension
//   - MappingConflicts lists every extension claimed by more than one category
//
// Ignore Rules:
//   - LoadIgnore reads a gitignore-syntax file anchored at the source directory
//   - Matching top-level entries are never archived
//
// Archive Inventory:
//   - Inventory walks each category directory of an archive
//   - Per-category entry and file counts with youngest and oldest entry ages
//
// Files are read through an afero.Fs so callers and tests can substitute an
// in-memory filesystem.
package util
