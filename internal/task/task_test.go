package task

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCreateDefaultsIncomplete(t *testing.T) {
	store := setupStore(t)
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "buy milk", false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("expected a freshly assigned id")
	}
	if created.Complete {
		t.Error("expected complete to default to false")
	}

	got, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "buy milk" || got.Complete {
		t.Errorf("unexpected stored record: %+v", got)
	}
}

func TestListAscendingByID(t *testing.T) {
	store := setupStore(t)
	svc := NewService(store)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, title, false); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	items, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].ID <= items[i-1].ID {
			t.Errorf("ids not ascending: %d then %d", items[i-1].ID, items[i].ID)
		}
	}
}

func TestUpdatePartial(t *testing.T) {
	store := setupStore(t)
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "write report", false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Only completion supplied: title must be left unchanged.
	complete := true
	updated, err := svc.Update(ctx, created.ID, nil, &complete)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "write report" {
		t.Errorf("title changed unexpectedly: %q", updated.Title)
	}
	if !updated.Complete {
		t.Error("expected complete to be true")
	}

	// Blank title is treated as not supplied.
	blank := "   "
	updated, err = svc.Update(ctx, created.ID, &blank, nil)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "write report" {
		t.Errorf("blank title overwrote stored title: %q", updated.Title)
	}
}

func TestUpdateNotFound(t *testing.T) {
	store := setupStore(t)
	svc := NewService(store)

	title := "x"
	_, err := svc.Update(context.Background(), 999, &title, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store := setupStore(t)
	svc := NewService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, "temp", false)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}

	// Second delete reports not-found rather than failing hard.
	err = svc.Delete(ctx, created.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFileBackedStoreCreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "tasks.db")

	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("failed to open file-backed store: %v", err)
	}
	defer store.Close()

	if _, err := store.Create(context.Background(), "persisted", true); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || !items[0].Complete {
		t.Errorf("unexpected items: %+v", items)
	}
}
