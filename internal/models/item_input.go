package models

// NewItem carries the client-supplied fields of an item being created.
type NewItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"imageUrl"`
	Priority    Priority `json:"priority"`
}

// ItemContent is a partial update of the owner-controlled item fields. Nil
// means "leave unchanged".
type ItemContent struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

// IsZero reports whether the update touches no content field.
func (c ItemContent) IsZero() bool {
	return c.Name == nil && c.Description == nil && c.URL == nil && c.ImageURL == nil && c.Priority == nil
}

// PurchaseUpdate is a partial update of the purchase fields, open to anyone
// holding the share link.
type PurchaseUpdate struct {
	Purchased        *bool   `json:"purchased,omitempty"`
	PurchasedBy      *string `json:"purchasedBy,omitempty"`
	PurchasedByEmail *string `json:"purchasedByEmail,omitempty"`
}

// IsZero reports whether the update touches no purchase field.
func (p PurchaseUpdate) IsZero() bool {
	return p.Purchased == nil && p.PurchasedBy == nil && p.PurchasedByEmail == nil
}

// ItemUpdate is the body of an item PUT: any mix of content and purchase
// fields.
type ItemUpdate struct {
	ItemContent
	PurchaseUpdate
}

// Stats summarises the stored data.
type Stats struct {
	Users          int `json:"users"`
	Kids           int `json:"kids"`
	Items          int `json:"items"`
	PurchasedItems int `json:"purchasedItems"`
}
