package service

import (
	"context"
	"log/slog"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/store"
)

// ContactInput is a message to an item's owner.
type ContactInput struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
}

// SendContact sends a private message to the owner of an item.
func (s *Service) SendContact(ctx context.Context, actor model.Actor, itemID int64, in ContactInput) (*model.Contact, error) {
	if !policy.CanParticipate(actor) {
		return nil, apperr.Unauthenticated("login required")
	}
	if _, err := s.GetItem(ctx, actor, itemID); err != nil {
		return nil, err
	}

	in.Message = s.plain(in.Message)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	c, err := store.CreateContact(ctx, s.DB, &model.Contact{
		ItemID:    itemID,
		SenderID:  actor.UserID,
		Message:   in.Message,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, err
	}

	slog.Info("contact sent", "user", actor.Username, "item", itemID, "contact", c.ID)
	return c, nil
}

// ItemContacts lists the contacts about an item. Only its owner may read
// them.
func (s *Service) ItemContacts(ctx context.Context, actor model.Actor, itemID int64) ([]model.Contact, error) {
	item, err := store.GetItem(ctx, s.DB, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	if !policy.CanViewContacts(item, actor) {
		return nil, apperr.Forbidden("only the owner can see contacts for this item")
	}
	contacts, err := store.ListItemContacts(ctx, s.DB, itemID)
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

// ReceivedContacts lists the contacts about actor's items, newest first.
func (s *Service) ReceivedContacts(ctx context.Context, actor model.Actor) ([]model.Contact, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	contacts, err := store.ListReceivedContacts(ctx, s.DB, actor.UserID)
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

// SentContacts lists the contacts actor sent, newest first.
func (s *Service) SentContacts(ctx context.Context, actor model.Actor) ([]model.Contact, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	contacts, err := store.ListSentContacts(ctx, s.DB, actor.UserID)
	if err != nil {
		return nil, err
	}
	return nonNil(contacts), nil
}

// MarkContactViewed flags a contact as read. Only the owner of the item it
// is about may do so; repeating it is harmless.
func (s *Service) MarkContactViewed(ctx context.Context, actor model.Actor, id int64) (*model.Contact, error) {
	c, err := store.GetContact(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperr.NotFound("contact not found")
	}
	if !actor.Authenticated() || c.ItemOwner != actor.UserID {
		return nil, apperr.Forbidden("only the item owner can mark this contact as viewed")
	}
	if c.Viewed {
		return c, nil
	}

	if err := store.MarkContactViewed(ctx, s.DB, id); err != nil {
		return nil, err
	}
	c.Viewed = true
	return c, nil
}

// UnreadCount counts the unviewed contacts about actor's items. Anonymous
// actors have none. The count is read fresh on every call.
func (s *Service) UnreadCount(ctx context.Context, actor model.Actor) (int, error) {
	if !actor.Authenticated() {
		return 0, nil
	}
	return store.CountUnreadContacts(ctx, s.DB, actor.UserID)
}
