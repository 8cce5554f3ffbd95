package catalog

import "time"

// Entry represents one indexed image. ContentHash identifies the source bytes
// the file arrived with; NormalizedHash identifies the re-encoded JPEG that
// ends up on disk, so the ingested output itself also counts as indexed.
type Entry struct {
	ID             int64
	Filename       string
	Caption        string
	ContentHash    string
	NormalizedHash string
	Embedding      []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScoredEntry pairs an entry with its similarity to a search query.
type ScoredEntry struct {
	Entry Entry
	Score float64
}
