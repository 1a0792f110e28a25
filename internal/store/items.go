package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uft-palmas/achados/internal/model"
)

const itemColumns = `i.id, i.title, i.description, i.category, i.type, i.block, i.location_detail, i.photo_mime,
	i.created_at, i.occurred_at, i.updated_at, i.owner_id, i.status, i.resolved_by, i.resolved_at,
	i.contact_phone, i.contact_email, i.views, i.priority,
	u.username, u.first_name, u.last_name`

const itemFrom = ` FROM items i JOIN users u ON u.id = i.owner_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanItem(s scanner) (*model.Item, error) {
	it := &model.Item{}
	var location, photoMIME, phone, email sql.NullString
	var username, first, last string
	err := s.Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.Type, &it.Block, &location, &photoMIME,
		&it.CreatedAt, &it.OccurredAt, &it.UpdatedAt, &it.OwnerID, &it.Status, &it.ResolvedBy, &it.ResolvedAt,
		&phone, &email, &it.Views, &it.Priority,
		&username, &first, &last)
	if err != nil {
		return nil, err
	}
	it.LocationDetail = location.String
	it.PhotoMIME = photoMIME.String
	it.ContactPhone = phone.String
	it.ContactEmail = email.String
	it.OwnerName = model.DisplayName(first, last, username)
	return it, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// CreateItem inserts an item and returns it as stored.
func CreateItem(ctx context.Context, db *sql.DB, it *model.Item) (*model.Item, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (title, description, category, type, block, location_detail,
		                    created_at, occurred_at, updated_at, owner_id, status,
		                    contact_phone, contact_email, views, priority)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.Title, it.Description, it.Category, it.Type, it.Block, nullString(it.LocationDetail),
		it.CreatedAt, it.OccurredAt, it.UpdatedAt, it.OwnerID, it.Status,
		nullString(it.ContactPhone), nullString(it.ContactEmail), it.Views, it.Priority,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	it, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+itemFrom+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return it, nil
}

// ListItems returns the items matching f, ordered by its sort key.
func ListItems(ctx context.Context, db *sql.DB, f ItemFilter) ([]model.Item, error) {
	clauses, args := f.clauses()
	rows, err := db.QueryContext(ctx, `SELECT `+itemColumns+itemFrom+clauses, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// CountItems returns how many items match f, ignoring its limit and offset.
func CountItems(ctx context.Context, db *sql.DB, f ItemFilter) (int, error) {
	where, args := f.where()
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*)`+itemFrom+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// UpdateItem writes the user-editable fields of an item.
func UpdateItem(ctx context.Context, db *sql.DB, it *model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET title = ?, description = ?, category = ?, type = ?, block = ?,
		                  location_detail = ?, occurred_at = ?, contact_phone = ?, contact_email = ?,
		                  priority = ?, updated_at = ?
		 WHERE id = ?`,
		it.Title, it.Description, it.Category, it.Type, it.Block,
		nullString(it.LocationDetail), it.OccurredAt, nullString(it.ContactPhone), nullString(it.ContactEmail),
		it.Priority, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// SaveItemState writes the lifecycle fields of an item in a single statement,
// so status and resolution details are never stored apart.
func SaveItemState(ctx context.Context, db *sql.DB, it *model.Item) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, resolved_by = ?, resolved_at = ?, updated_at = ?
		 WHERE id = ?`,
		it.Status, it.ResolvedBy, it.ResolvedAt, it.UpdatedAt, it.ID,
	)
	if err != nil {
		return fmt.Errorf("saving item state: %w", err)
	}
	return nil
}

// SetItemPriority writes only the priority flag of an item.
func SetItemPriority(ctx context.Context, db *sql.DB, id int64, priority bool, now time.Time) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET priority = ?, updated_at = ? WHERE id = ?`,
		priority, now, id,
	)
	if err != nil {
		return fmt.Errorf("setting item priority: %w", err)
	}
	return nil
}

// IncrementViews bumps the view counter in place and returns the new value.
// Only the counter column is written.
func IncrementViews(ctx context.Context, db *sql.DB, id int64) (int64, error) {
	var views int64
	err := db.QueryRowContext(ctx,
		`UPDATE items SET views = views + 1 WHERE id = ? RETURNING views`, id,
	).Scan(&views)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("incrementing views: %w", err)
	}
	return views, nil
}

// DeleteItem removes an item together with its comments and contacts.
func DeleteItem(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemPhoto stores an item's photo.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo and its MIME type.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return photo, mime.String, nil
}

// GetItemStats counts active lost, active found and resolved items.
func GetItemStats(ctx context.Context, db *sql.DB) (model.ItemStats, error) {
	var s model.ItemStats
	err := db.QueryRowContext(ctx,
		`SELECT
		     COALESCE(SUM(CASE WHEN type = 'lost' AND status = 'active' THEN 1 ELSE 0 END), 0),
		     COALESCE(SUM(CASE WHEN type = 'found' AND status = 'active' THEN 1 ELSE 0 END), 0),
		     COALESCE(SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END), 0)
		 FROM items`,
	).Scan(&s.ActiveLost, &s.ActiveFound, &s.Resolved)
	if err != nil {
		return s, fmt.Errorf("counting items: %w", err)
	}
	return s, nil
}

// GetOwnerStats counts an owner's items by status.
func GetOwnerStats(ctx context.Context, db *sql.DB, ownerID int64) (model.OwnerStats, error) {
	var s model.OwnerStats
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		     COALESCE(SUM(CASE WHEN status = 'active' THEN 1 ELSE 0 END), 0),
		     COALESCE(SUM(CASE WHEN status = 'resolved' THEN 1 ELSE 0 END), 0)
		 FROM items WHERE owner_id = ?`, ownerID,
	).Scan(&s.Total, &s.Active, &s.Resolved)
	if err != nil {
		return s, fmt.Errorf("counting owner items: %w", err)
	}
	return s, nil
}
