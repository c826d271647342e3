package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/models"
)

const (
	wishlistDocument = "wishlist"
	usersDocument    = "users"
)

// DatasetRepository loads and saves the whole wishlist document.
type DatasetRepository struct {
	backend DocumentBackend
}

func NewDatasetRepository(backend DocumentBackend) *DatasetRepository {
	return &DatasetRepository{backend: backend}
}

// ErrDocumentShape is returned when a stored document parses as JSON but
// does not decode into the expected model.
var ErrDocumentShape = errors.New("document does not match the expected shape")

// Load returns the current dataset. A missing or unreadable document yields
// an empty dataset rather than an error. Healing rules run on every load and
// a healed document is written back before returning.
func (r *DatasetRepository) Load(ctx context.Context) *models.Dataset {
	ds, err := r.LoadForUpdate(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Wishlist document does not match the dataset shape, using empty dataset")
		return &models.Dataset{Kids: []models.Kid{}}
	}
	return ds
}

// LoadForUpdate is Load for callers that will Save the result. A document
// that exists but cannot be decoded is reported as ErrDocumentShape so that
// it is never replaced by an empty dataset.
func (r *DatasetRepository) LoadForUpdate(ctx context.Context) (*models.Dataset, error) {
	raw, ok := loadHealed(ctx, r.backend, wishlistDocument, datasetHealing)
	if !ok {
		return &models.Dataset{Kids: []models.Kid{}}, nil
	}

	var ds models.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return nil, fmt.Errorf("%w: wishlist: %v", ErrDocumentShape, err)
	}
	normalizeDataset(&ds)
	return &ds, nil
}

// Save overwrites the wishlist document with ds. Concurrent savers are not
// coordinated; the last write wins.
func (r *DatasetRepository) Save(ctx context.Context, ds *models.Dataset) error {
	normalizeDataset(ds)
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := r.backend.Write(ctx, wishlistDocument, data); err != nil {
		logrus.WithError(err).Error("Failed to save wishlist document")
		return fmt.Errorf("failed to save dataset: %w", err)
	}
	return nil
}

func normalizeDataset(ds *models.Dataset) {
	if ds.Kids == nil {
		ds.Kids = []models.Kid{}
	}
	for i := range ds.Kids {
		if ds.Kids[i].Wishlist == nil {
			ds.Kids[i].Wishlist = []models.Item{}
		}
	}
}

// loadHealed reads the named document, applies steps and persists the result
// if any step fired. It returns the healed JSON, or false when the document
// is absent or is not a JSON object.
func loadHealed(ctx context.Context, backend DocumentBackend, name string, steps []healingStep) ([]byte, bool) {
	log := logrus.WithField("document", name)

	raw, err := backend.Read(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrDocumentNotFound) {
			log.WithError(err).Warn("Failed to read document, treating it as empty")
		}
		return nil, false
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil || doc == nil {
		log.WithError(err).Warn("Document is not a JSON object, treating it as empty")
		return nil, false
	}

	fired := heal(doc, steps)
	if len(fired) == 0 {
		return raw, true
	}

	healed, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.WithError(err).Warn("Failed to encode healed document")
		return nil, false
	}
	if err := backend.Write(ctx, name, healed); err != nil {
		log.WithError(err).Error("Failed to persist healed document")
	} else {
		log.WithField("steps", fired).Info("Healed document")
	}
	return healed, true
}
