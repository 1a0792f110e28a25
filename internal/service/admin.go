package service

import (
	"context"
	"log/slog"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/paging"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/store"
)

// BulkResult reports the outcome of an admin action over a selection.
type BulkResult struct {
	Action  model.Action     `json:"action"`
	Updated []int64          `json:"updated"`
	Missing []int64          `json:"missing,omitempty"`
	Refused map[int64]string `json:"refused,omitempty"`
}

// AdminItems pages through items for the back-office panel. Every status is
// visible; the status filter applies only when given.
func (s *Service) AdminItems(ctx context.Context, actor model.Actor, f store.ItemFilter, number, size int) (paging.Page[model.Item], error) {
	if !policy.CanModerate(actor) {
		return paging.Page[model.Item]{}, apperr.Forbidden("staff only")
	}
	if f.Status == "" {
		f.Status = model.StatusAll
	}
	return s.ListPage(ctx, f, number, size)
}

// ApplyAction runs action on every selected item. Items whose status does
// not allow the action are left untouched and reported as refused.
func (s *Service) ApplyAction(ctx context.Context, actor model.Actor, action model.Action, ids []int64) (*BulkResult, error) {
	if !policy.CanModerate(actor) {
		return nil, apperr.Forbidden("staff only")
	}
	if _, err := model.ParseAction(string(action)); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, apperr.FieldError("ids", "select at least one item")
	}

	res := &BulkResult{Action: action, Updated: []int64{}}
	now := s.now()
	for _, id := range ids {
		item, err := store.GetItem(ctx, s.DB, id)
		if err != nil {
			return nil, err
		}
		if item == nil {
			res.Missing = append(res.Missing, id)
			continue
		}

		next, err := action.Apply(*item, nil, now)
		if err != nil {
			if res.Refused == nil {
				res.Refused = map[int64]string{}
			}
			res.Refused[id] = err.Error()
			continue
		}
		switch action {
		case model.ActionPrioritize, model.ActionUnprioritize:
			err = store.SetItemPriority(ctx, s.DB, id, next.Priority, now)
		default:
			err = store.SaveItemState(ctx, s.DB, &next)
		}
		if err != nil {
			return nil, err
		}
		res.Updated = append(res.Updated, id)
	}

	slog.Info("admin action applied", "user", actor.Username, "action", action,
		"updated", len(res.Updated), "missing", len(res.Missing), "refused", len(res.Refused))
	return res, nil
}
