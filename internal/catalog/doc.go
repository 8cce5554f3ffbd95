// Package catalog persists indexed images in SQLite: filename, caption,
// content hash, and caption embedding. It backs both the ingest pipeline's
// dedup/index steps and the CLI's list and semantic search commands.
package catalog
