package model

import "time"

// Contact is a private message from an interested user to an item's owner.
type Contact struct {
	ID        int64     `json:"id"`
	ItemID    int64     `json:"item_id"`
	SenderID  int64     `json:"sender_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Viewed    bool      `json:"viewed"`

	// Joined fields (not always populated).
	SenderName string `json:"sender_name,omitempty"`
	ItemTitle  string `json:"item_title,omitempty"`
	ItemOwner  int64  `json:"item_owner_id,omitempty"`
}
