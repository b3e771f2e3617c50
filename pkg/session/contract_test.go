package session

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"
)

// runStoreContract exercises the behaviour every Store shares.
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	id := NewID()

	t.Run("save and load", func(t *testing.T) {
		record := Record{
			Variant:   "per-dynamic",
			Document:  json.RawMessage(`{"amount":12345678901234567890,"price":1.50}`),
			UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		if err := store.Save(ctx, id, record); err != nil {
			t.Fatalf("save: %v", err)
		}
		loaded, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if loaded.Variant != record.Variant || !loaded.UpdatedAt.Equal(record.UpdatedAt) {
			t.Fatalf("unexpected record %+v", loaded)
		}
		if string(loaded.Document) != string(record.Document) {
			t.Fatalf("document changed: %s", loaded.Document)
		}
	})

	t.Run("load missing", func(t *testing.T) {
		if _, err := store.Load(ctx, "missing-"+id); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("list and delete", func(t *testing.T) {
		other := NewID()
		if err := store.Save(ctx, other, Record{Variant: "shared", Document: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("save: %v", err)
		}
		ids, err := store.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !slices.Contains(ids, id) || !slices.Contains(ids, other) {
			t.Fatalf("expected both ids in %v", ids)
		}

		if err := store.Delete(ctx, other); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.Load(ctx, other); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		ids, _ = store.List(ctx)
		if slices.Contains(ids, other) {
			t.Fatalf("deleted id still listed: %v", ids)
		}
	})
}

func TestIDs(t *testing.T) {
	id := NewID()
	if !ValidID(id) {
		t.Fatalf("expected %q to be valid", id)
	}
	if ValidID("not-a-session") || ValidID("") {
		t.Fatalf("expected malformed ids to be rejected")
	}
}
