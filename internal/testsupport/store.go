package testsupport

import (
	"testing"

	"memedex/internal/catalog"
	"memedex/internal/config"
)

// NewStore opens a catalog at the config's catalog path and registers cleanup.
func NewStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.Paths.CatalogPath)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
