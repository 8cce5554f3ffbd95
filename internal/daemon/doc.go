// Package daemon ties the catalog, event source, and ingest manager into a
// single-instance background process. A file lock prevents two daemons from
// watching the same directories; a monitor that cannot attach disables the
// ingest subsystem for the process lifetime instead of crashing the daemon.
package daemon
