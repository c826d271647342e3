package repository

import (
	"context"
	"errors"
	"testing"
)

var errWriteFailed = errors.New("disk full")

// countingBackend wraps a FileBackend and records writes. When failWrites is
// set every write fails without touching the file.
type countingBackend struct {
	*FileBackend
	writes     int
	failWrites bool
}

func newCountingBackend(t *testing.T) *countingBackend {
	t.Helper()
	return &countingBackend{FileBackend: NewFileBackend(t.TempDir())}
}

func (b *countingBackend) Write(ctx context.Context, name string, data []byte) error {
	if b.failWrites {
		return errWriteFailed
	}
	b.writes++
	return b.FileBackend.Write(ctx, name, data)
}

func (b *countingBackend) seed(t *testing.T, name, body string) {
	t.Helper()
	if err := b.FileBackend.Write(context.Background(), name, []byte(body)); err != nil {
		t.Fatalf("seeding %s: %v", name, err)
	}
}
