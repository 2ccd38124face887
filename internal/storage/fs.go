package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FSStore keeps artifacts as files in a single directory.
type FSStore struct {
	root string
}

var _ Store = (*FSStore)(nil)

// NewFSStore creates a store rooted at dir. The directory is created on first write.
func NewFSStore(dir string) (*FSStore, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact dir: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Root returns the absolute directory the store writes into.
func (s *FSStore) Root() string {
	return s.root
}

// Put writes to a temporary file, syncs it and links it into place, so a
// partially written upload never becomes visible under its final name.
func (s *FSStore) Put(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", 0, fmt.Errorf("invalid artifact name %q", name)
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", 0, fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	size, err := io.Copy(tmp, &contextReader{ctx: ctx, r: r})
	if err != nil {
		_ = tmp.Close()
		return "", 0, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return "", 0, fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("close artifact: %w", err)
	}

	final := filepath.Join(s.root, name)
	if err := os.Link(tmpName, final); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", 0, ErrExist
		}
		return "", 0, fmt.Errorf("publish artifact: %w", err)
	}
	syncDir(s.root)

	return final, size, nil
}

// Open opens the file at path.
func (s *FSStore) Open(ctx context.Context, path string) (*Object, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, ErrNotExist
	}
	return &Object{ReadCloser: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Remove deletes the file at path.
func (s *FSStore) Remove(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// syncDir persists the directory entry of a freshly linked file. Errors are
// ignored because some filesystems do not support syncing directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// contextReader stops a copy once the request is gone.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
