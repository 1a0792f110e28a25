package model

import "time"

// Comment is a public note left on an item.
type Comment struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields (not always populated).
	AuthorName string `json:"author_name,omitempty"`
}
