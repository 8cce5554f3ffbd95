// Package queue provides the bounded in-memory task queue between the
// filesystem monitor and the ingest workers, plus the counters that record
// what happened to every detected file. When the queue is full new tasks are
// dropped immediately rather than blocking the watcher.
package queue
