package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/staranysa/TheHappyHaul/internal/models"
	"github.com/staranysa/TheHappyHaul/internal/repository"
)

// stubImages records every lookup and answers from a fixed table.
type stubImages struct {
	mu      sync.Mutex
	results map[string]string
	calls   []string
}

func (s *stubImages) ExtractImage(_ context.Context, pageURL string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, pageURL)
	return s.results[pageURL]
}

type fixture struct {
	users    *UserService
	wishlist *WishlistService
	datasets *repository.DatasetRepository
	backend  *repository.FileBackend
	images   *stubImages
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := repository.NewFileBackend(t.TempDir())
	datasets := repository.NewDatasetRepository(backend)
	userRepo := repository.NewUserRepository(backend)
	images := &stubImages{results: map[string]string{}}

	f := &fixture{
		users:    NewUserService(userRepo, "test-secret", time.Hour),
		wishlist: NewWishlistService(datasets, userRepo, images),
		datasets: datasets,
		backend:  backend,
		images:   images,
		now:      time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC),
	}
	f.wishlist.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) kid(t *testing.T, owner, name string) *models.Kid {
	t.Helper()
	kid, err := f.wishlist.CreateChild(context.Background(), owner, name, nil)
	require.NoError(t, err)
	return kid
}

func (f *fixture) item(t *testing.T, owner, kidID string, in models.NewItem) *models.Item {
	t.Helper()
	item, err := f.wishlist.CreateItem(context.Background(), owner, kidID, in)
	require.NoError(t, err)
	return item
}

func (f *fixture) storedItem(t *testing.T, kidID, itemID string) models.Item {
	t.Helper()
	kid := f.datasets.Load(context.Background()).FindKid(kidID)
	require.NotNil(t, kid)
	item := kid.FindItem(itemID)
	require.NotNil(t, item)
	return *item
}

func ptr[T any](v T) *T { return &v }
