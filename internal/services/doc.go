// Package services holds cross-cutting helpers for external collaborators:
// a sentinel-error taxonomy used to classify pipeline step failures, and
// context annotation helpers that carry task identifiers and stage names
// through collaborator calls for structured logging.
//
// Concrete collaborator clients live in subpackages (captioner, embedder).
package services
