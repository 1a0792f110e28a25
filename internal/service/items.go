package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/imaging"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/paging"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/store"
)

// Listing limits.
const (
	SimilarLimit       = 4
	DefaultRecentLimit = 10
	MaxRecentLimit     = 50
)

// ItemInput holds the user-editable fields of an item.
type ItemInput struct {
	Title          string     `json:"title" validate:"required,min=5,max=200"`
	Description    string     `json:"description" validate:"required,min=20,max=5000"`
	Category       string     `json:"category" validate:"required,category"`
	Type           string     `json:"type" validate:"required,itemtype"`
	Block          string     `json:"block" validate:"required,block"`
	LocationDetail string     `json:"location_detail" validate:"max=200"`
	OccurredAt     *time.Time `json:"occurred_at"`
	ContactPhone   string     `json:"contact_phone" validate:"max=20"`
	ContactEmail   string     `json:"contact_email" validate:"omitempty,email,max=254"`
	Priority       bool       `json:"priority"`
}

func (s *Service) normalizeItem(in ItemInput) (ItemInput, error) {
	in.Title = s.titleCase(in.Title)
	in.Description = s.plain(in.Description)
	in.LocationDetail = s.plain(in.LocationDetail)
	in.ContactPhone = s.plain(in.ContactPhone)
	in.ContactEmail = s.plain(in.ContactEmail)
	if in.Category == "" {
		in.Category = model.DefaultCategory
	}
	if err := validateStruct(in); err != nil {
		return in, err
	}
	return in, nil
}

// CreateItem posts a new active item owned by actor.
func (s *Service) CreateItem(ctx context.Context, actor model.Actor, in ItemInput) (*model.Item, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	in, err := s.normalizeItem(in)
	if err != nil {
		return nil, err
	}

	now := s.now()
	occurred := now
	if in.OccurredAt != nil {
		occurred = in.OccurredAt.UTC()
	}

	item, err := store.CreateItem(ctx, s.DB, &model.Item{
		Title:          in.Title,
		Description:    in.Description,
		Category:       in.Category,
		Type:           in.Type,
		Block:          in.Block,
		LocationDetail: in.LocationDetail,
		CreatedAt:      now,
		OccurredAt:     occurred,
		UpdatedAt:      now,
		OwnerID:        actor.UserID,
		Status:         model.ItemStatusActive,
		ContactPhone:   in.ContactPhone,
		ContactEmail:   in.ContactEmail,
		Priority:       in.Priority,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("item created", "user", actor.Username, "item", item.ID, "type", item.Type)
	return item, nil
}

// GetItem returns an item visible to actor. Spam items are hidden from
// everyone who cannot modify them.
func (s *Service) GetItem(ctx context.Context, actor model.Actor, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	if item.Status == model.ItemStatusSpam && !policy.CanModify(item, actor) {
		return nil, apperr.NotFound("item not found")
	}
	return item, nil
}

// ItemDetail is an item with everything its detail page shows.
type ItemDetail struct {
	Item            *model.Item     `json:"item"`
	Elapsed         string          `json:"elapsed"`
	Comments        []model.Comment `json:"comments"`
	ContactCount    int             `json:"contact_count"`
	Similar         []model.Item    `json:"similar"`
	CanModify       bool            `json:"can_modify"`
	CanViewContacts bool            `json:"can_view_contacts"`
}

// ViewItem counts a view and returns the item's detail.
func (s *Service) ViewItem(ctx context.Context, actor model.Actor, id int64) (*ItemDetail, error) {
	if _, err := s.GetItem(ctx, actor, id); err != nil {
		return nil, err
	}
	if _, err := store.IncrementViews(ctx, s.DB, id); err != nil {
		return nil, err
	}
	return s.Detail(ctx, actor, id)
}

// Detail returns the item's detail without counting a view.
func (s *Service) Detail(ctx context.Context, actor model.Actor, id int64) (*ItemDetail, error) {
	item, err := s.GetItem(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	comments, err := store.ListComments(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	contacts, err := store.CountItemContacts(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	similar, err := store.ListItems(ctx, s.DB, store.ItemFilter{
		Category:  item.Category,
		ExcludeID: item.ID,
		Limit:     SimilarLimit,
	})
	if err != nil {
		return nil, err
	}

	return &ItemDetail{
		Item:            item,
		Elapsed:         item.Elapsed(s.now()),
		Comments:        nonNil(comments),
		ContactCount:    contacts,
		Similar:         nonNil(similar),
		CanModify:       policy.CanModify(item, actor),
		CanViewContacts: policy.CanViewContacts(item, actor),
	}, nil
}

// editable loads an item actor may modify. Items actor may not modify are
// reported as missing.
func (s *Service) editable(ctx context.Context, actor model.Actor, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil || !policy.CanModify(item, actor) {
		return nil, apperr.NotFound("item not found")
	}
	return item, nil
}

// UpdateItem replaces the editable fields of an item.
func (s *Service) UpdateItem(ctx context.Context, actor model.Actor, id int64, in ItemInput) (*model.Item, error) {
	item, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in, err = s.normalizeItem(in)
	if err != nil {
		return nil, err
	}

	item.Title = in.Title
	item.Description = in.Description
	item.Category = in.Category
	item.Type = in.Type
	item.Block = in.Block
	item.LocationDetail = in.LocationDetail
	if in.OccurredAt != nil {
		item.OccurredAt = in.OccurredAt.UTC()
	}
	item.ContactPhone = in.ContactPhone
	item.ContactEmail = in.ContactEmail
	item.Priority = in.Priority
	item.UpdatedAt = s.now()

	if err := store.UpdateItem(ctx, s.DB, item); err != nil {
		return nil, err
	}

	slog.Info("item updated", "user", actor.Username, "item", id)
	return store.GetItem(ctx, s.DB, id)
}

// DeleteItem removes an item with its comments and contacts.
func (s *Service) DeleteItem(ctx context.Context, actor model.Actor, id int64) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}
	if err := store.DeleteItem(ctx, s.DB, id); err != nil {
		return err
	}
	slog.Info("item deleted", "user", actor.Username, "item", id)
	return nil
}

// ResolveItem marks an active item resolved, recording actor as the
// resolver.
func (s *Service) ResolveItem(ctx context.Context, actor model.Actor, id int64) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	if !policy.CanModify(item, actor) {
		return nil, apperr.Forbidden("only the owner or staff can resolve this item")
	}

	resolver := actor.UserID
	if err := item.MarkResolved(&resolver, s.now()); err != nil {
		return nil, err
	}
	if err := store.SaveItemState(ctx, s.DB, item); err != nil {
		return nil, err
	}

	slog.Info("item resolved", "user", actor.Username, "item", id)
	return item, nil
}

// SetItemPhoto normalises and stores an item's photo.
func (s *Service) SetItemPhoto(ctx context.Context, actor model.Actor, id int64, r io.Reader) error {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return err
	}

	photo, err := imaging.Process(r)
	if errors.Is(err, imaging.ErrTooLarge) || errors.Is(err, imaging.ErrUnsupported) {
		return apperr.FieldError("photo", err.Error())
	}
	if err != nil {
		return fmt.Errorf("processing photo: %w", err)
	}

	if err := store.SetItemPhoto(ctx, s.DB, id, photo.Data, photo.MIME); err != nil {
		return err
	}
	slog.Info("item photo uploaded", "user", actor.Username, "item", id, "bytes", len(photo.Data))
	return nil
}

// ItemPhoto returns an item's photo bytes and MIME type.
func (s *Service) ItemPhoto(ctx context.Context, actor model.Actor, id int64) ([]byte, string, error) {
	if _, err := s.GetItem(ctx, actor, id); err != nil {
		return nil, "", err
	}
	data, mime, err := store.GetItemPhoto(ctx, s.DB, id)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", apperr.NotFound("no photo")
	}
	return data, mime, nil
}

// ListItems returns the items matching f.
func (s *Service) ListItems(ctx context.Context, f store.ItemFilter) ([]model.Item, error) {
	items, err := store.ListItems(ctx, s.DB, f)
	if err != nil {
		return nil, err
	}
	return nonNil(items), nil
}

// ListPage returns page number of the items matching f, size to a page. The
// store does the counting and slicing.
func (s *Service) ListPage(ctx context.Context, f store.ItemFilter, number, size int) (paging.Page[model.Item], error) {
	if size <= 0 {
		size = paging.APIListSize
	}
	total, err := store.CountItems(ctx, s.DB, f)
	if err != nil {
		return paging.Page[model.Item]{}, err
	}
	number, f.Offset = paging.Bounds(number, size, total)
	f.Limit = size
	items, err := s.ListItems(ctx, f)
	if err != nil {
		return paging.Page[model.Item]{}, err
	}
	return paging.New(items, number, size, total), nil
}

// PublicItems pages through the public listing. Spam and expired items never
// appear there, even with status=all.
func (s *Service) PublicItems(ctx context.Context, f store.ItemFilter, number, size int) (paging.Page[model.Item], error) {
	f.ExcludeStatuses = []string{model.ItemStatusSpam, model.ItemStatusExpired}
	return s.ListPage(ctx, f, number, size)
}

// RecentItems returns the newest active items.
func (s *Service) RecentItems(ctx context.Context, limit int) ([]model.Item, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	limit = min(limit, MaxRecentLimit)
	return s.ListItems(ctx, store.ItemFilter{Limit: limit})
}

// MyItems pages through every item actor posted, newest first, with totals.
func (s *Service) MyItems(ctx context.Context, actor model.Actor, number, size int) (paging.Page[model.Item], model.OwnerStats, error) {
	if !actor.Authenticated() {
		return paging.Page[model.Item]{}, model.OwnerStats{}, apperr.Unauthenticated("login required")
	}
	page, err := s.ListPage(ctx, store.ItemFilter{OwnerID: actor.UserID, Status: model.StatusAll}, number, size)
	if err != nil {
		return paging.Page[model.Item]{}, model.OwnerStats{}, err
	}
	stats, err := store.GetOwnerStats(ctx, s.DB, actor.UserID)
	if err != nil {
		return paging.Page[model.Item]{}, model.OwnerStats{}, err
	}
	return page, stats, nil
}

// Stats returns the counters shown above the listing.
func (s *Service) Stats(ctx context.Context) (model.ItemStats, error) {
	return store.GetItemStats(ctx, s.DB)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
