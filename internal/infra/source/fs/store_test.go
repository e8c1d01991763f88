package fs

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"persondir/pkg/source/core"
)

func newTestStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	store, err := New(root)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

func TestNewRejectsMissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestNewRejectsFileRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := New(path); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}

func TestOpenReturnsContentAndInfo(t *testing.T) {
	store := newTestStore(t, map[string]string{"accounts.json": `[]`})
	info, rc, err := store.Open(context.Background(), "accounts.json")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `[]` {
		t.Fatalf("unexpected content %q", data)
	}
	if info.Name != "accounts.json" || info.Size != 2 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestOpenMissingWrapsNotFound(t *testing.T) {
	store := newTestStore(t, nil)
	_, _, err := store.Open(context.Background(), "absent.json")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHeadMissingWrapsNotFound(t *testing.T) {
	store := newTestStore(t, nil)
	if _, err := store.Head(context.Background(), "absent.json"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNameSanitization(t *testing.T) {
	store := newTestStore(t, map[string]string{"nested/profiles.json": `[]`})
	for _, name := range []string{"", "  ", "../etc/passwd", "/etc/passwd", "a/../../b"} {
		if _, _, err := store.Open(context.Background(), name); err == nil {
			t.Fatalf("expected rejection for name %q", name)
		}
	}
	if _, _, err := store.Open(context.Background(), "nested/profiles.json"); err != nil {
		t.Fatalf("nested name rejected: %v", err)
	}
}

func TestListSortedWithPrefix(t *testing.T) {
	store := newTestStore(t, map[string]string{
		"b.json":        `[]`,
		"a.json":        `[]`,
		"nested/c.json": `[]`,
	})
	infos, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	got := make([]string, 0, len(infos))
	for _, info := range infos {
		got = append(got, info.Name)
	}
	want := []string{"a.json", "b.json", "nested/c.json"}
	if len(got) != len(want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}

	infos, err = store.List(context.Background(), "nested/")
	if err != nil {
		t.Fatalf("list prefix: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "nested/c.json" {
		t.Fatalf("unexpected prefixed listing %+v", infos)
	}
}

func TestDriverIdentifier(t *testing.T) {
	store := newTestStore(t, nil)
	if store.Driver() != core.DriverFilesystem {
		t.Fatalf("unexpected driver %q", store.Driver())
	}
}
