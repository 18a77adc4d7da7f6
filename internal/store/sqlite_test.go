package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStoreItems(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	if _, ok, err := store.GetItem(ctx, ServiceStatusKey("o1")); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.SetItem(ctx, ServiceStatusKey("o1"), "in_progress"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	if err := store.SetItem(ctx, ServiceStatusKey("o1"), "completed"); err != nil {
		t.Fatalf("SetItem overwrite failed: %v", err)
	}

	value, ok, err := store.GetItem(ctx, ServiceStatusKey("o1"))
	if err != nil || !ok {
		t.Fatalf("GetItem failed: ok=%v err=%v", ok, err)
	}
	if value != "completed" {
		t.Fatalf("unexpected value: %q", value)
	}

	if err := store.RemoveItem(ctx, ServiceStatusKey("o1")); err != nil {
		t.Fatalf("RemoveItem failed: %v", err)
	}
	if _, ok, _ := store.GetItem(ctx, ServiceStatusKey("o1")); ok {
		t.Fatalf("expected key to be removed")
	}
	if err := store.RemoveItem(ctx, "never-set"); err != nil {
		t.Fatalf("RemoveItem on missing key failed: %v", err)
	}
}

func TestStorageKeys(t *testing.T) {
	if got := ServiceStatusKey("abc"); got != "service_status_abc" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := PaymentCompletedKey("abc"); got != "payment_completed_abc" {
		t.Fatalf("unexpected key: %s", got)
	}
}
