// Package cmd provides the command-line interface implementation for tidydir.
//
// This package contains all the subcommand implementations for the tidydir CLI tool.
// It uses the Cobra library for command structure, Fang for styling and Viper
// for merging flags, environment variables and the config file.
//
// The package is organized into the following commands:
//   - root: Main command coordinator and shared flags
//   - run: Archive then prune, the everyday command
//   - archive: The archive phase on its own
//   - prune: The prune phase on its own
//   - status: Per-category summary of an archive
//   - validate: Mapping file checking
//
// Each command is implemented as a separate file with its own constructor
// that returns a *cobra.Command. The constructors hang off a small app value
// holding the viper instance and filesystem the commands share, so every root
// command built is independent of the others.
//
// The package leverages the tidy package for the archive and prune sweeps and
// the util package for mapping, ignore-file and inventory handling.
package cmd
