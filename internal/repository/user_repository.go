package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/models"
)

// UserRepository handles persistence of the users document.
type UserRepository struct {
	backend DocumentBackend
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(backend DocumentBackend) *UserRepository {
	return &UserRepository{backend: backend}
}

// Load returns every stored user. Read failures and malformed documents
// yield an empty list.
func (r *UserRepository) Load(ctx context.Context) *models.UserDocument {
	doc, err := r.loadForUpdate(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Invalid users file structure, returning empty users")
		return &models.UserDocument{Users: []models.User{}}
	}
	return doc
}

func (r *UserRepository) loadForUpdate(ctx context.Context) (*models.UserDocument, error) {
	raw, ok := loadHealed(ctx, r.backend, usersDocument, userHealing)
	if !ok {
		return &models.UserDocument{Users: []models.User{}}, nil
	}

	var doc models.UserDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: users: %v", ErrDocumentShape, err)
	}
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	return &doc, nil
}

// Save overwrites the users document.
func (r *UserRepository) Save(ctx context.Context, doc *models.UserDocument) error {
	if doc.Users == nil {
		doc.Users = []models.User{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode users: %w", err)
	}
	if err := r.backend.Write(ctx, usersDocument, data); err != nil {
		logrus.WithError(err).Error("Failed to save users document")
		return fmt.Errorf("failed to save users: %w", err)
	}
	return nil
}

// GetUserByEmail matches case-insensitively. It returns nil when absent.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) *models.User {
	doc := r.Load(ctx)
	for i := range doc.Users {
		if strings.EqualFold(doc.Users[i].Email, email) {
			return &doc.Users[i]
		}
	}
	return nil
}

// GetUserByID returns nil when no user has id.
func (r *UserRepository) GetUserByID(ctx context.Context, id string) *models.User {
	doc := r.Load(ctx)
	for i := range doc.Users {
		if doc.Users[i].ID == id {
			return &doc.Users[i]
		}
	}
	return nil
}

// CreateUser appends user to the document and persists it.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	doc, err := r.loadForUpdate(ctx)
	if err != nil {
		return nil, err
	}
	doc.Users = append(doc.Users, *user)
	if err := r.Save(ctx, doc); err != nil {
		return nil, err
	}

	logrus.WithField("userID", user.ID).Info("User inserted successfully")
	return user, nil
}
