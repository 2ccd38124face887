package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	// ErrNotExist is returned when the addressed object is absent.
	ErrNotExist = errors.New("artifact does not exist")
	// ErrExist is returned by Put when the generated name is already taken.
	ErrExist = errors.New("artifact already exists")
)

// Store keeps artifact bytes. Paths returned by Put are opaque to callers and are
// what the database rows record.
type Store interface {
	// Put durably writes r under name and returns the stored path and byte count.
	Put(ctx context.Context, name string, r io.Reader) (path string, size int64, err error)
	// Open returns a reader for the object at path.
	Open(ctx context.Context, path string) (*Object, error)
	// Remove deletes the object at path.
	Remove(ctx context.Context, path string) error
}

// Object is an open artifact. Callers must Close it.
type Object struct {
	io.ReadCloser
	Size    int64
	ModTime time.Time
}

// SanitizeName keeps only letters and digits of a human provided name.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// Extension returns the extension of an uploaded file name, dot included.
func Extension(originalName string) string {
	ext := filepath.Ext(filepath.Base(strings.ReplaceAll(originalName, "\\", "/")))
	if len(ext) <= 1 {
		return ""
	}
	for _, r := range ext[1:] {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return ""
		}
	}
	return ext
}

// GenerateName builds "<sanitized base>-<unix millis><ext>".
func GenerateName(base, originalName string, now time.Time) string {
	return SanitizeName(base) + "-" + strconv.FormatInt(now.UnixMilli(), 10) + Extension(originalName)
}
