// Package logging builds the slog loggers used across memedex.
//
// It provides console and JSON handlers, attribute helper aliases, and
// standardized field names so the daemon, ingest pipeline, and CLI emit
// uniform structured logs. WithContext augments a logger with task and
// stage fields carried on a context, which keeps per-file log lines
// correlated without threading loggers through every call site.
package logging
