package service

import (
	"context"
	"log/slog"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/store"
)

// CommentInput is a new comment.
type CommentInput struct {
	Body string `json:"body" validate:"required,min=10,max=500"`
}

// ListComments returns an item's comments, oldest first.
func (s *Service) ListComments(ctx context.Context, actor model.Actor, itemID int64) ([]model.Comment, error) {
	if _, err := s.GetItem(ctx, actor, itemID); err != nil {
		return nil, err
	}
	comments, err := store.ListComments(ctx, s.DB, itemID)
	if err != nil {
		return nil, err
	}
	return nonNil(comments), nil
}

// AddComment posts a comment on an item. Any logged-in user may comment.
func (s *Service) AddComment(ctx context.Context, actor model.Actor, itemID int64, in CommentInput) (*model.Comment, error) {
	if !policy.CanParticipate(actor) {
		return nil, apperr.Unauthenticated("login required")
	}
	if _, err := s.GetItem(ctx, actor, itemID); err != nil {
		return nil, err
	}

	in.Body = s.plain(in.Body)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c, err := store.CreateComment(ctx, s.DB, &model.Comment{
		ItemID:    itemID,
		AuthorID:  actor.UserID,
		Body:      in.Body,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("comment added", "user", actor.Username, "item", itemID, "comment", c.ID)
	return c, nil
}

// DeleteComment removes a comment. Only its author or staff may do so.
func (s *Service) DeleteComment(ctx context.Context, actor model.Actor, id int64) error {
	c, err := store.GetComment(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperr.NotFound("comment not found")
	}
	if !policy.CanDeleteComment(c, actor) {
		return apperr.Forbidden("only the author or staff can delete this comment")
	}
	if err := store.DeleteComment(ctx, s.DB, id); err != nil {
		return err
	}
	slog.Info("comment deleted", "user", actor.Username, "comment", id)
	return nil
}
