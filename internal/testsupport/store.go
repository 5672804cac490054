package testsupport

import (
	"context"
	"testing"

	"github.com/csmclaren/charfreq-tools/internal/config"
	"github.com/csmclaren/charfreq-tools/internal/history"
)

// MustOpenHistory opens the history store under cfg's state directory and
// registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	if err := cfg.EnsureStateDir(); err != nil {
		t.Fatalf("EnsureStateDir: %v", err)
	}
	store, err := history.Open(context.Background(), cfg.HistoryPath())
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
