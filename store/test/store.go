package test

import (
	"context"
	"testing"

	"github.com/landingchat/landingchat/internal/profile"
	"github.com/landingchat/landingchat/store"
	"github.com/landingchat/landingchat/store/db/sqlite"
)

// NewTestingStore returns a store backed by an in-memory SQLite database
// with the full schema applied.
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    ":memory:",
	}

	driver, err := sqlite.NewDB(p)
	if err != nil {
		t.Fatalf("failed to open testing database: %v", err)
	}

	ts := store.New(driver, p)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate testing database: %v", err)
	}
	t.Cleanup(func() {
		if err := ts.Close(); err != nil {
			t.Logf("failed to close testing store: %v", err)
		}
	})

	return ts
}
