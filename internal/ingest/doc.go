// Package ingest wires the monitoring pipeline together: filesystem events
// are filtered, debounced, deduplicated, and admitted into the bounded queue,
// where a fixed worker pool drains them through the pipeline executor.
// Shutdown stops event delivery first, then waits a bounded time for in-flight
// tasks to finish.
package ingest
