// Package main provides the tidydir command-line interface.
//
// tidydir keeps a directory that collects clutter, such as Downloads, in check.
// Top-level entries that have not been read or modified for longer than an
// archive age are moved into an archive directory and sorted into category
// folders by file extension. Archived entries left unused for longer than a
// delete age are then deleted.
//
// The main binary supports multiple subcommands:
//   - run: Archive aged entries, then prune the archive
//   - archive: Move aged entries into the archive
//   - prune: Delete archived entries older than the delete age
//   - status: Summarise the contents of an archive
//   - validate: Validate a category mapping file
package main
