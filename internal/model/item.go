package model

import "time"

// Item is a single lost-or-found listing.
type Item struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	Type           string     `json:"type"`
	Block          string     `json:"block"`
	LocationDetail string     `json:"location_detail,omitempty"`
	PhotoMIME      string     `json:"photo_mime,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	OccurredAt     time.Time  `json:"occurred_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	OwnerID        int64      `json:"owner_id"`
	Status         string     `json:"status"`
	ResolvedBy     *int64     `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ContactPhone   string     `json:"contact_phone,omitempty"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	Views          int64      `json:"views"`
	Priority       bool       `json:"priority"`

	// Joined fields (not always populated).
	OwnerName string `json:"owner_name,omitempty"`
}

// Item types.
const (
	ItemTypeLost  = "lost"
	ItemTypeFound = "found"
)

// Item statuses.
const (
	ItemStatusActive   = "active"
	ItemStatusResolved = "resolved"
	ItemStatusSpam     = "spam"
	ItemStatusExpired  = "expired"
)

// StatusAll disables the status filter of a listing.
const StatusAll = "all"

// HasPhoto reports whether a photo was uploaded for the item.
func (it *Item) HasPhoto() bool { return it.PhotoMIME != "" }

// IsResolved reports whether the item was returned to its owner.
func (it *Item) IsResolved() bool { return it.Status == ItemStatusResolved }

// OwnedBy reports whether userID posted the item.
func (it *Item) OwnedBy(userID int64) bool { return userID != 0 && it.OwnerID == userID }

// ItemStats holds the counters shown above the listing.
type ItemStats struct {
	ActiveLost  int `json:"active_lost"`
	ActiveFound int `json:"active_found"`
	Resolved    int `json:"resolved"`
}

// OwnerStats holds the counters shown on the "my items" page.
type OwnerStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Resolved int `json:"resolved"`
}
