// Package task defines the ingest task model: one task per detected file,
// moving through a monotonic status lifecycle from detection to a terminal
// outcome. Statuses never move backwards; a task that reaches completed,
// failed, dropped, or skipped stays there.
package task
