package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/staranysa/TheHappyHaul/internal/models"
	"github.com/staranysa/TheHappyHaul/internal/repository"
)

// ImageFinder looks up a representative image for a product page. It
// returns "" when nothing usable is found.
type ImageFinder interface {
	ExtractImage(ctx context.Context, pageURL string) string
}

// WishlistService owns kids, their items and share links. Every mutation
// loads the whole dataset, changes it and saves it back.
type WishlistService struct {
	datasets *repository.DatasetRepository
	users    *repository.UserRepository
	images   ImageFinder
	validate *validator.Validate
	now      func() time.Time
}

func NewWishlistService(datasets *repository.DatasetRepository, users *repository.UserRepository, images ImageFinder) *WishlistService {
	return &WishlistService{
		datasets: datasets,
		users:    users,
		images:   images,
		validate: validator.New(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ListChildrenForOwner returns the owner's kids. With no owner every kid is
// returned, stripped of purchaser emails.
func (s *WishlistService) ListChildrenForOwner(ctx context.Context, ownerID string) []models.Kid {
	ds := s.datasets.Load(ctx)

	kids := make([]models.Kid, 0, len(ds.Kids))
	for _, kid := range ds.Kids {
		switch {
		case ownerID == "":
			kids = append(kids, kid.Redacted())
		case kid.UserID == ownerID:
			kids = append(kids, kid)
		}
	}
	return kids
}

// CreateChild adds a kid with an empty wishlist and a fresh share token.
func (s *WishlistService) CreateChild(ctx context.Context, ownerID, name string, age *string) (*models.Kid, error) {
	if name == "" {
		return nil, validationError("Name is required")
	}
	if ownerID == "" {
		return nil, unauthorizedError("Authentication required")
	}
	if age != nil && *age == "" {
		age = nil
	}

	kid := models.Kid{
		ID:         uuid.NewString(),
		Name:       name,
		Age:        age,
		Wishlist:   []models.Item{},
		ShareToken: repository.GenerateShareToken(),
		UserID:     ownerID,
	}

	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add kid: %w", err)
	}
	ds.Kids = append(ds.Kids, kid)
	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to add kid: %w", err)
	}

	logrus.WithFields(logrus.Fields{"kidID": kid.ID, "userID": ownerID}).Info("Kid created")
	return &kid, nil
}

// DeleteChild removes the kid and all of its items.
func (s *WishlistService) DeleteChild(ctx context.Context, ownerID, kidID string) error {
	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete kid: %w", err)
	}
	kid := ds.FindKid(kidID)
	if kid == nil {
		return notFoundError("Kid not found")
	}
	if kid.UserID != ownerID {
		return forbiddenError("You do not have permission to delete this list")
	}

	kept := ds.Kids[:0]
	for _, k := range ds.Kids {
		if k.ID != kidID {
			kept = append(kept, k)
		}
	}
	ds.Kids = kept

	if err := s.datasets.Save(ctx, ds); err != nil {
		return fmt.Errorf("failed to delete kid: %w", err)
	}
	logrus.WithField("kidID", kidID).Info("Kid deleted")
	return nil
}

// CreateItem appends an item to the owner's kid. When no image is given but
// a product URL is, the image is looked up from the page.
func (s *WishlistService) CreateItem(ctx context.Context, ownerID, kidID string, in models.NewItem) (*models.Item, error) {
	if in.Name == "" {
		return nil, validationError("Item name is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if err := s.validatePriority(in.Priority); err != nil {
		return nil, err
	}

	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	kid := ds.FindKid(kidID)
	if kid == nil {
		return nil, notFoundError("Kid not found")
	}
	if kid.UserID != ownerID {
		return nil, forbiddenError("You do not have permission to edit this list")
	}

	imageURL := in.ImageURL
	if imageURL == "" && in.URL != "" {
		imageURL = s.images.ExtractImage(ctx, in.URL)
	}

	item := models.Item{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		URL:         in.URL,
		ImageURL:    imageURL,
		Priority:    in.Priority,
		AddedAt:     s.now(),
	}
	kid.Wishlist = append(kid.Wishlist, item)

	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	logrus.WithFields(logrus.Fields{"kidID": kidID, "itemID": item.ID}).Info("Item added")
	return &item, nil
}

// UpdateItem applies a mixed update on behalf of actorID, which is empty for
// anonymous share-link visitors. Content fields require the owner; purchase
// fields do not. An update with no purchase fields counts as a content edit.
// The returned item carries the purchaser email only for the owner.
func (s *WishlistService) UpdateItem(ctx context.Context, kidID, itemID string, upd models.ItemUpdate, actorID string) (*models.Item, error) {
	ds, kid, item, err := s.loadItem(ctx, kidID, itemID)
	if err != nil {
		return nil, err
	}

	if !upd.ItemContent.IsZero() || upd.PurchaseUpdate.IsZero() {
		if actorID == "" {
			return nil, unauthorizedError("Authentication required to edit items")
		}
		if err := s.applyContent(ctx, kid, item, actorID, upd.ItemContent); err != nil {
			return nil, err
		}
	}
	s.applyPurchase(item, upd.PurchaseUpdate)

	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	out := *item
	if actorID == "" || actorID != kid.UserID {
		out = out.Redacted()
	}
	return &out, nil
}

// UpdateItemContent edits the owner-controlled fields of an item.
func (s *WishlistService) UpdateItemContent(ctx context.Context, ownerID, kidID, itemID string, c models.ItemContent) (*models.Item, error) {
	ds, kid, item, err := s.loadItem(ctx, kidID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.applyContent(ctx, kid, item, ownerID, c); err != nil {
		return nil, err
	}
	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	out := *item
	return &out, nil
}

// UpdatePurchase marks or unmarks an item as purchased. No identity is
// required; holding the share link is enough.
func (s *WishlistService) UpdatePurchase(ctx context.Context, kidID, itemID string, p models.PurchaseUpdate) (*models.Item, error) {
	ds, _, item, err := s.loadItem(ctx, kidID, itemID)
	if err != nil {
		return nil, err
	}
	s.applyPurchase(item, p)
	if err := s.datasets.Save(ctx, ds); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	out := item.Redacted()
	return &out, nil
}

// DeleteItem removes one item from the owner's kid.
func (s *WishlistService) DeleteItem(ctx context.Context, ownerID, kidID, itemID string) error {
	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	kid := ds.FindKid(kidID)
	if kid == nil {
		return notFoundError("Kid not found")
	}
	if kid.UserID != ownerID {
		return forbiddenError("You do not have permission to delete items from this list")
	}
	if kid.FindItem(itemID) == nil {
		return notFoundError("Item not found")
	}

	kept := kid.Wishlist[:0]
	for _, item := range kid.Wishlist {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	kid.Wishlist = kept

	if err := s.datasets.Save(ctx, ds); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// GetSharedView returns the public view of the kid holding token. Purchaser
// emails are never included.
func (s *WishlistService) GetSharedView(ctx context.Context, token string) (*models.SharedWishlist, error) {
	kid := s.datasets.Load(ctx).FindKidByShareToken(token)
	if kid == nil {
		return nil, notFoundError("Wishlist not found")
	}

	redacted := kid.Redacted()
	return &models.SharedWishlist{
		ID:       redacted.ID,
		Name:     redacted.Name,
		Wishlist: redacted.Wishlist,
	}, nil
}

// RegenerateShareToken replaces the kid's share token, invalidating old links.
func (s *WishlistService) RegenerateShareToken(ctx context.Context, ownerID, kidID string) (string, error) {
	return s.rotateShareToken(ctx, kidID, func(kid *models.Kid) error {
		if kid.UserID != ownerID {
			return forbiddenError("You do not have permission to manage this list")
		}
		return nil
	})
}

// RotateShareToken replaces the kid's share token without an ownership check.
// It is meant for operators.
func (s *WishlistService) RotateShareToken(ctx context.Context, kidID string) (string, error) {
	return s.rotateShareToken(ctx, kidID, func(*models.Kid) error { return nil })
}

// SearchByEmailOrOwnerID lists the public summaries of one owner's kids. The
// owner is found by email when given, otherwise userID is used directly.
func (s *WishlistService) SearchByEmailOrOwnerID(ctx context.Context, email, userID string) ([]models.WishlistSummary, error) {
	if email == "" && userID == "" {
		return nil, validationError("Email or userId is required")
	}

	target := userID
	if email != "" {
		user := s.users.GetUserByEmail(ctx, email)
		if user == nil {
			return []models.WishlistSummary{}, nil
		}
		target = user.ID
	}

	summaries := []models.WishlistSummary{}
	for _, kid := range s.datasets.Load(ctx).Kids {
		if kid.UserID != target {
			continue
		}
		summaries = append(summaries, models.WishlistSummary{
			ID:         kid.ID,
			Name:       kid.Name,
			ShareToken: kid.ShareToken,
			ItemCount:  len(kid.Wishlist),
		})
	}
	return summaries, nil
}

// Stats counts users, kids and items.
func (s *WishlistService) Stats(ctx context.Context) models.Stats {
	ds := s.datasets.Load(ctx)
	stats := models.Stats{
		Users: len(s.users.Load(ctx).Users),
		Kids:  len(ds.Kids),
	}
	for _, kid := range ds.Kids {
		stats.Items += len(kid.Wishlist)
		for _, item := range kid.Wishlist {
			if item.Purchased {
				stats.PurchasedItems++
			}
		}
	}
	return stats
}

func (s *WishlistService) loadItem(ctx context.Context, kidID, itemID string) (*models.Dataset, *models.Kid, *models.Item, error) {
	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load wishlist: %w", err)
	}
	kid := ds.FindKid(kidID)
	if kid == nil {
		return nil, nil, nil, notFoundError("Kid not found")
	}
	item := kid.FindItem(itemID)
	if item == nil {
		return nil, nil, nil, notFoundError("Item not found")
	}
	return ds, kid, item, nil
}

func (s *WishlistService) applyContent(ctx context.Context, kid *models.Kid, item *models.Item, ownerID string, c models.ItemContent) error {
	if kid.UserID != ownerID {
		return forbiddenError("You do not have permission to edit this list")
	}
	if c.Name != nil && *c.Name == "" {
		return validationError("Item name is required")
	}
	if c.Priority != nil {
		if err := s.validatePriority(*c.Priority); err != nil {
			return err
		}
	}

	// A new product URL refreshes the image unless the caller picked one.
	if (c.ImageURL == nil || *c.ImageURL == "") && c.URL != nil && *c.URL != "" && *c.URL != item.URL {
		if found := s.images.ExtractImage(ctx, *c.URL); found != "" {
			c.ImageURL = &found
		}
	}

	if c.Name != nil {
		item.Name = *c.Name
	}
	if c.Description != nil {
		item.Description = *c.Description
	}
	if c.URL != nil {
		item.URL = *c.URL
	}
	if c.ImageURL != nil {
		item.ImageURL = *c.ImageURL
	}
	if c.Priority != nil {
		item.Priority = *c.Priority
	}
	return nil
}

// applyPurchase leaves an unpurchased item without purchaser details, whatever
// else the update carried.
func (s *WishlistService) applyPurchase(item *models.Item, p models.PurchaseUpdate) {
	if p.Purchased != nil {
		item.Purchased = *p.Purchased
	}
	if !item.Purchased {
		item.PurchasedBy = ""
		item.PurchasedByEmail = ""
		item.PurchasedAt = nil
		return
	}

	if p.PurchasedBy != nil {
		item.PurchasedBy = *p.PurchasedBy
	}
	if p.PurchasedByEmail != nil {
		item.PurchasedByEmail = *p.PurchasedByEmail
	}
	if p.Purchased != nil && item.PurchasedAt == nil {
		now := s.now()
		item.PurchasedAt = &now
	}
}

func (s *WishlistService) rotateShareToken(ctx context.Context, kidID string, authorize func(*models.Kid) error) (string, error) {
	ds, err := s.datasets.LoadForUpdate(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	kid := ds.FindKid(kidID)
	if kid == nil {
		return "", notFoundError("Kid not found")
	}
	if err := authorize(kid); err != nil {
		return "", err
	}

	kid.ShareToken = repository.GenerateShareToken()
	if err := s.datasets.Save(ctx, ds); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}

	logrus.WithField("kidID", kidID).Info("Share token regenerated")
	return kid.ShareToken, nil
}

func (s *WishlistService) validatePriority(p models.Priority) error {
	if err := s.validate.Var(string(p), "oneof=low medium high"); err != nil {
		return validationError("Priority must be one of low, medium, high")
	}
	return nil
}
