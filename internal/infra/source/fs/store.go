// Package fs implements a filesystem-backed source store.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"persondir/pkg/source/core"
)

// Store implements core.Store using the local filesystem. Logical names are
// mapped to relative file paths under the root.
type Store struct {
	root string
}

// New returns a filesystem-backed source store rooted at path.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./sourcedata"
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat source root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}
	return &Store{root: root}, nil
}

func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// sanitizeName ensures a name doesn't escape root and forbids path traversal and absolute paths.
func sanitizeName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("empty source name")
	}
	if strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid source name contains '..'")
	}
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("invalid absolute source name")
	}
	// normalize separators
	clean := filepath.ToSlash(filepath.Clean(name))
	if strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid source name traversal")
	}
	return clean, nil
}

func (s *Store) pathFor(name string) (string, error) {
	n, err := sanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, n), nil
}

func (s *Store) Open(ctx context.Context, name string) (core.Info, io.ReadCloser, error) {
	path, err := s.pathFor(name)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return core.Info{}, nil, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, err
	}
	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, err
	}
	return infoFor(name, stat), file, nil
}

func (s *Store) Head(ctx context.Context, name string) (core.Info, error) {
	path, err := s.pathFor(name)
	if err != nil {
		return core.Info{}, err
	}
	stat, err := os.Stat(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return core.Info{}, fmt.Errorf("source %s: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, err
	}
	return infoFor(name, stat), nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			return nil
		}
		stat, err := d.Info()
		if err != nil {
			return err
		}
		infos = append(infos, infoFor(name, stat))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func infoFor(name string, stat iofs.FileInfo) core.Info {
	return core.Info{Name: name, Size: stat.Size(), LastModified: stat.ModTime().UTC()}
}
