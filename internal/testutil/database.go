// Package testutil provides test databases seeded with images and presets.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/honcho/internal/storage"
	"github.com/Veraticus/honcho/internal/testutil/fixtures"
)

// TestDB is a migrated in-memory database and the data seeded into it.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Data    fixtures.Data
	t       *testing.T
}

// SetupTestDB creates an in-memory database and seeds the given fixtures.
// Cleanup is registered on t.
//
// Example:
//
//	db := testutil.SetupTestDB(t, fixtures.FixtureRoll, fixtures.FixtureLooks)
func SetupTestDB(t *testing.T, fx ...fixtures.Fixture) *TestDB {
	t.Helper()
	return SetupTestDBWithBuilder(t, func(b fixtures.Builder) fixtures.Builder {
		for _, f := range fx {
			b = b.WithFixture(f)
		}
		return b
	})
}

// SetupTestDBWithBuilder creates a database seeded by a configured builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithBuilder(t, func(b fixtures.Builder) fixtures.Builder {
//		return b.WithImages(5).WithPreset(fixtures.PresetWarm)
//	})
func SetupTestDBWithBuilder(t *testing.T, configure func(fixtures.Builder) fixtures.Builder) *TestDB {
	t.Helper()

	store := newMigratedStore(t)

	builder := fixtures.NewBuilder(t)
	if configure != nil {
		builder = configure(builder)
	}
	data, err := builder.Build(context.Background(), store)
	if err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}

	return &TestDB{Storage: store, Data: data, t: t}
}

// MustPreset returns the id of a seeded preset or fails the test.
func (db *TestDB) MustPreset(name fixtures.PresetName) string {
	db.t.Helper()
	return db.Data.MustPreset(db.t, name).ID
}

func newMigratedStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Logf("failed to close test database: %v", err)
		}
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return store
}
