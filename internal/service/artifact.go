package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"osfr/internal/storage"
)

// putAttempts bounds retries when a generated artifact name is already taken.
const putAttempts = 3

// Upload is a file received from a client.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Remover schedules best-effort deletion of stored artifacts.
type Remover interface {
	Remove(store storage.Store, path string)
}

// Download is an open artifact ready to be streamed to a client.
type Download struct {
	Filename    string
	ContentType string
	Object      *storage.Object
}

// putUnique writes r under a name produced by nameFn. When the store reports a
// name collision and r can be rewound, a fresh name is tried.
func putUnique(ctx context.Context, store storage.Store, r io.Reader, nameFn func(time.Time) string, now func() time.Time) (string, int64, error) {
	seeker, _ := r.(io.Seeker)
	var lastErr error
	for i := 0; i < putAttempts; i++ {
		if i > 0 {
			if seeker == nil {
				break
			}
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return "", 0, fmt.Errorf("rewind upload: %w", err)
			}
			time.Sleep(time.Millisecond)
		}
		path, size, err := store.Put(ctx, nameFn(now()), r)
		if err == nil {
			return path, size, nil
		}
		if !errors.Is(err, storage.ErrExist) {
			return "", 0, err
		}
		lastErr = err
	}
	return "", 0, fmt.Errorf("store artifact: %w", lastErr)
}
