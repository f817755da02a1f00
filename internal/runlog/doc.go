// Package runlog persists per-reference outcomes of batch runs in SQLite so
// previous alignment decisions can be reviewed and re-run safely.
package runlog
