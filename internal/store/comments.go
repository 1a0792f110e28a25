package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uft-palmas/achados/internal/model"
)

const commentSelect = `SELECT c.id, c.item_id, c.author_id, c.body, c.created_at,
	        u.username, u.first_name, u.last_name
	 FROM comments c JOIN users u ON u.id = c.author_id`

func scanComment(s scanner) (*model.Comment, error) {
	c := &model.Comment{}
	var username, first, last string
	if err := s.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Body, &c.CreatedAt, &username, &first, &last); err != nil {
		return nil, err
	}
	c.AuthorName = model.DisplayName(first, last, username)
	return c, nil
}

// CreateComment adds a comment to an item.
func CreateComment(ctx context.Context, db *sql.DB, c *model.Comment) (*model.Comment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO comments (item_id, author_id, body, created_at) VALUES (?, ?, ?, ?)`,
		c.ItemID, c.AuthorID, c.Body, c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting comment id: %w", err)
	}

	return GetComment(ctx, db, id)
}

// GetComment returns a comment by ID, or nil if it does not exist.
func GetComment(ctx context.Context, db *sql.DB, id int64) (*model.Comment, error) {
	c, err := scanComment(db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	return c, nil
}

// ListComments returns an item's comments, oldest first.
func ListComments(ctx context.Context, db *sql.DB, itemID int64) ([]model.Comment, error) {
	rows, err := db.QueryContext(ctx,
		commentSelect+` WHERE c.item_id = ? ORDER BY c.created_at ASC, c.id ASC`, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment.
func DeleteComment(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting comment: %w", err)
	}
	return nil
}
