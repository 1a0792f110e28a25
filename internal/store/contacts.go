package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uft-palmas/achados/internal/model"
)

const contactSelect = `SELECT ct.id, ct.item_id, ct.sender_id, ct.message, ct.created_at, ct.viewed,
	        u.username, u.first_name, u.last_name, i.title, i.owner_id
	 FROM contacts ct
	 JOIN users u ON u.id = ct.sender_id
	 JOIN items i ON i.id = ct.item_id`

func scanContact(s scanner) (*model.Contact, error) {
	c := &model.Contact{}
	var username, first, last string
	err := s.Scan(&c.ID, &c.ItemID, &c.SenderID, &c.Message, &c.CreatedAt, &c.Viewed,
		&username, &first, &last, &c.ItemTitle, &c.ItemOwner)
	if err != nil {
		return nil, err
	}
	c.SenderName = model.DisplayName(first, last, username)
	return c, nil
}

func queryContacts(ctx context.Context, db *sql.DB, query string, args ...any) ([]model.Contact, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, *c)
	}
	return contacts, rows.Err()
}

// CreateContact records a message to an item's owner.
func CreateContact(ctx context.Context, db *sql.DB, c *model.Contact) (*model.Contact, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO contacts (item_id, sender_id, message, created_at, viewed) VALUES (?, ?, ?, ?, 0)`,
		c.ItemID, c.SenderID, c.Message, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating contact: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting contact id: %w", err)
	}

	return GetContact(ctx, db, id)
}

// GetContact returns a contact by ID, or nil if it does not exist.
func GetContact(ctx context.Context, db *sql.DB, id int64) (*model.Contact, error) {
	c, err := scanContact(db.QueryRowContext(ctx, contactSelect+` WHERE ct.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return c, nil
}

// ListItemContacts returns the contacts sent about one item, newest first.
func ListItemContacts(ctx context.Context, db *sql.DB, itemID int64) ([]model.Contact, error) {
	return queryContacts(ctx, db,
		contactSelect+` WHERE ct.item_id = ? ORDER BY ct.created_at DESC, ct.id DESC`, itemID)
}

// ListReceivedContacts returns the contacts about items owned by ownerID, newest first.
func ListReceivedContacts(ctx context.Context, db *sql.DB, ownerID int64) ([]model.Contact, error) {
	return queryContacts(ctx, db,
		contactSelect+` WHERE i.owner_id = ? ORDER BY ct.created_at DESC, ct.id DESC`, ownerID)
}

// ListSentContacts returns the contacts sent by senderID, newest first.
func ListSentContacts(ctx context.Context, db *sql.DB, senderID int64) ([]model.Contact, error) {
	return queryContacts(ctx, db,
		contactSelect+` WHERE ct.sender_id = ? ORDER BY ct.created_at DESC, ct.id DESC`, senderID)
}

// MarkContactViewed flags a contact as read. Marking it again is a no-op.
func MarkContactViewed(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `UPDATE contacts SET viewed = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking contact viewed: %w", err)
	}
	return nil
}

// CountUnreadContacts counts unviewed contacts on items owned by ownerID.
func CountUnreadContacts(ctx context.Context, db *sql.DB, ownerID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts ct JOIN items i ON i.id = ct.item_id
		 WHERE i.owner_id = ? AND ct.viewed = 0`, ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting unread contacts: %w", err)
	}
	return n, nil
}

// CountItemContacts counts the contacts sent about an item.
func CountItemContacts(ctx context.Context, db *sql.DB, itemID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE item_id = ?`, itemID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting item contacts: %w", err)
	}
	return n, nil
}

// CountReceivedContacts counts all contacts about items owned by ownerID.
func CountReceivedContacts(ctx context.Context, db *sql.DB, ownerID int64) (int, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts ct JOIN items i ON i.id = ct.item_id WHERE i.owner_id = ?`, ownerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting received contacts: %w", err)
	}
	return n, nil
}
