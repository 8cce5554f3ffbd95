// Package embedder wraps the embedding-model HTTP API. Vectors are computed
// from caption text rather than pixels so stored embeddings share a modality
// with text search queries.
package embedder
