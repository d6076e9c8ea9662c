// Package testutil provides test helpers for the spendsnap packages: an
// isolated migrated database and builders for expenses.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spendsnap/internal/model"
	"github.com/Veraticus/spendsnap/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
	Path    string
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup func(context.Context, *storage.SQLiteStorage) error
	// Location is the zone expense dates are read back in; nil means UTC.
	Location *time.Location
	// Path places the database at a fixed file instead of a temp dir.
	Path           string
	SeedCategories bool
}

// SetupTestDB creates a migrated database in a temporary directory with the
// default categories seeded. It is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{SeedCategories: true})
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	path := opts.Path
	if path == "" {
		path = filepath.Join(t.TempDir(), "spendsnap.db")
	}
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	store.SetLocation(opts.Location)

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if opts.SeedCategories {
		if _, err := store.SeedDefaultCategories(ctx); err != nil {
			t.Fatalf("failed to seed categories: %v", err)
		}
	}

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{Storage: store, Path: path, t: t}
}

// Close closes the database early, for tests that hand the file to other
// code. Closing again at cleanup is harmless.
func (db *TestDB) Close() {
	db.t.Helper()
	if err := db.Storage.Close(); err != nil {
		db.t.Fatalf("failed to close test database: %v", err)
	}
}

// MustCategoryID returns the id of the named category or fails the test.
func (db *TestDB) MustCategoryID(name string) int64 {
	db.t.Helper()
	cat, err := db.Storage.GetCategoryByName(context.Background(), name)
	if err != nil {
		db.t.Fatalf("category %q: %v", name, err)
	}
	return cat.ID
}

// MustCreateCard stores a card or fails the test.
func (db *TestDB) MustCreateCard(name string, limit int64, statementDay, dueDay int) model.CardProfile {
	db.t.Helper()
	card, err := model.NewCardProfile(name, decimal.NewFromInt(limit), statementDay, dueDay)
	if err != nil {
		db.t.Fatalf("invalid card %q: %v", name, err)
	}
	if err := db.Storage.CreateCard(context.Background(), &card); err != nil {
		db.t.Fatalf("failed to create card %q: %v", name, err)
	}
	return card
}

// MustSetBudget stores the budget of month or fails the test.
func (db *TestDB) MustSetBudget(month model.Month, amount string) {
	db.t.Helper()
	b, err := model.NewBudgetTarget(month.Key(), decimal.RequireFromString(amount), "")
	if err != nil {
		db.t.Fatalf("invalid budget: %v", err)
	}
	if err := db.Storage.SetBudget(context.Background(), &b); err != nil {
		db.t.Fatalf("failed to set budget: %v", err)
	}
}

// MustAdd stores expenses built by the given builders or fails the test.
func (db *TestDB) MustAdd(builders ...*ExpenseBuilder) []model.Transaction {
	db.t.Helper()
	out := make([]model.Transaction, 0, len(builders))
	for _, b := range builders {
		txn := b.Build(db.t)
		if err := db.Storage.AddTransaction(context.Background(), txn); err != nil {
			db.t.Fatalf("failed to add expense: %v", err)
		}
		out = append(out, txn)
	}
	return out
}

// Date returns midnight of the given day in loc.
func Date(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
