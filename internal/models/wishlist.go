package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// OwnerSentinel is assigned to kids that predate per-user ownership.
const OwnerSentinel = "default-user"

// Item is a single gift on a kid's wishlist.
type Item struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	URL              string     `json:"url"`
	ImageURL         string     `json:"imageUrl"`
	Priority         Priority   `json:"priority"`
	AddedAt          time.Time  `json:"addedAt"`
	Purchased        bool       `json:"purchased"`
	PurchasedBy      string     `json:"purchasedBy"`
	PurchasedByEmail string     `json:"purchasedByEmail,omitempty"`
	PurchasedAt      *time.Time `json:"purchasedAt"`
}

// Redacted returns a copy of the item without the purchaser's email.
func (i Item) Redacted() Item {
	i.PurchasedByEmail = ""
	return i
}

// Kid is a child with a wishlist, owned by one user.
type Kid struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Age        *string `json:"age"`
	Wishlist   []Item  `json:"wishlist"`
	ShareToken string  `json:"shareToken"`
	UserID     string  `json:"userId"`
}

// UnmarshalJSON accepts an age stored as a string or a number.
func (k *Kid) UnmarshalJSON(data []byte) error {
	type plain Kid
	aux := struct {
		*plain
		Age json.RawMessage `json:"age"`
	}{plain: (*plain)(k)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	k.Age = ParseAge(aux.Age)
	return nil
}

// ParseAge reads an age given as a JSON string or number. Null, blank
// strings and other JSON types yield nil.
func ParseAge(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return &s
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		s = n.String()
		return &s
	}
	return nil
}

// Redacted returns a copy of the kid whose items carry no purchaser emails.
func (k Kid) Redacted() Kid {
	items := make([]Item, len(k.Wishlist))
	for i, item := range k.Wishlist {
		items[i] = item.Redacted()
	}
	k.Wishlist = items
	return k
}

// FindItem returns a pointer into the wishlist, or nil.
func (k *Kid) FindItem(id string) *Item {
	for i := range k.Wishlist {
		if k.Wishlist[i].ID == id {
			return &k.Wishlist[i]
		}
	}
	return nil
}

// Dataset is the whole persisted wishlist document.
type Dataset struct {
	Kids     []Kid `json:"kids"`
	Migrated bool  `json:"migrated"`
}

// FindKid returns a pointer into the dataset, or nil.
func (d *Dataset) FindKid(id string) *Kid {
	for i := range d.Kids {
		if d.Kids[i].ID == id {
			return &d.Kids[i]
		}
	}
	return nil
}

// FindKidByShareToken returns the kid holding token, or nil.
func (d *Dataset) FindKidByShareToken(token string) *Kid {
	if token == "" {
		return nil
	}
	for i := range d.Kids {
		if d.Kids[i].ShareToken == token {
			return &d.Kids[i]
		}
	}
	return nil
}

// SharedWishlist is the public share-link view of a kid.
type SharedWishlist struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Wishlist []Item `json:"wishlist"`
}

// WishlistSummary is what search exposes about a kid.
type WishlistSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ShareToken string `json:"shareToken"`
	ItemCount  int    `json:"itemCount"`
}
