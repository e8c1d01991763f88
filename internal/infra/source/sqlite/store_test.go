package sqlite

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"persondir/pkg/source/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "sources.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeedAndOpenRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	payload := []byte(`[{"userData":"a|a@x","personId":"p"}]`)
	if err := store.Seed(ctx, "accounts.json", payload); err != nil {
		t.Fatalf("seed: %v", err)
	}

	info, rc, err := store.Open(ctx, "accounts.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != string(payload) {
		t.Fatalf("payload mismatch: %q", data)
	}
	if info.Name != "accounts.json" || info.Size != int64(len(payload)) {
		t.Fatalf("unexpected info %+v", info)
	}
	if info.LastModified.IsZero() {
		t.Fatal("expected last modified timestamp")
	}
}

func TestSeedUpsertsExistingName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.Seed(ctx, "profiles.json", []byte(`[]`)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	replacement := []byte(`[{"personName":"alice","emailAddress":"alice@example.com"}]`)
	if err := store.Seed(ctx, "profiles.json", replacement); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	info, err := store.Head(ctx, "profiles.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Size != int64(len(replacement)) {
		t.Fatalf("size = %d, want %d", info.Size, len(replacement))
	}
}

func TestOpenMissingWrapsNotFound(t *testing.T) {
	store := newTestStore(t)
	if _, _, err := store.Open(context.Background(), "absent.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Head(context.Background(), "absent.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from head, got %v", err)
	}
}

func TestListSortedWithPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, name := range []string{"b.json", "a.json", "data/c.json"} {
		if err := store.Seed(ctx, name, []byte(`[]`)); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	infos, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"a.json", "b.json", "data/c.json"}
	if len(infos) != len(want) {
		t.Fatalf("got %d entries, want %d", len(infos), len(want))
	}
	for i, info := range infos {
		if info.Name != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, info.Name, want[i])
		}
	}

	infos, err = store.List(ctx, "data/")
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "data/c.json" {
		t.Fatalf("unexpected prefixed listing %+v", infos)
	}
}

func TestDefaultPathAndDriver(t *testing.T) {
	store := newTestStore(t)
	if store.Driver() != core.DriverSQLite {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
	if store.Path() == "" {
		t.Fatal("expected configured path")
	}
	if store.DB() == nil {
		t.Fatal("expected database handle")
	}
}
