// Package config loads and validates the resound configuration file.
//
// Configuration is TOML with repository defaults applied first, then the
// file's values, then normalization (home directory expansion, absolute
// paths) and validation. Every tunable the matching pipeline consumes lives
// here rather than as package-level state: analysis windows, sample rates,
// accept thresholds, concurrency limits, and the paths to the tag store,
// candidate audio directory, transcript cache, and run history database.
package config
