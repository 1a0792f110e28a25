package model

import (
	"fmt"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
)

// Action is a named command that moves an item through its lifecycle.
type Action string

// Lifecycle actions. Activate is the administrative override and is accepted
// from every status.
const (
	ActionResolve      Action = "resolve"
	ActionSpam         Action = "spam"
	ActionActivate     Action = "activate"
	ActionExpire       Action = "expire"
	ActionPrioritize   Action = "prioritize"
	ActionUnprioritize Action = "unprioritize"
)

// Actions lists the admin bulk actions with their labels.
var Actions = []Choice{
	{string(ActionResolve), "Marcar como resolvido"},
	{string(ActionSpam), "Marcar como spam"},
	{string(ActionActivate), "Marcar como ativo"},
	{string(ActionExpire), "Marcar como expirado"},
	{string(ActionPrioritize), "Marcar como prioritário"},
	{string(ActionUnprioritize), "Remover prioridade"},
}

// transitions maps action -> current status -> next status.
// Actions absent from the table leave the status untouched.
var transitions = map[Action]map[string]string{
	ActionResolve: {
		ItemStatusActive: ItemStatusResolved,
	},
	ActionSpam: {
		ItemStatusActive: ItemStatusSpam,
	},
	ActionExpire: {
		ItemStatusActive: ItemStatusExpired,
	},
	ActionActivate: {
		ItemStatusActive:   ItemStatusActive,
		ItemStatusResolved: ItemStatusActive,
		ItemStatusSpam:     ItemStatusActive,
		ItemStatusExpired:  ItemStatusActive,
	},
}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	if !Valid(Actions, s) {
		return "", apperr.FieldError("action", fmt.Sprintf("unknown action %q", s))
	}
	return Action(s), nil
}

// NextStatus returns the status an item in status current reaches through a.
func NextStatus(a Action, current string) (string, error) {
	table, ok := transitions[a]
	if !ok {
		return current, nil
	}
	next, ok := table[current]
	if !ok {
		return "", apperr.FieldError("status",
			fmt.Sprintf("cannot %s an item that is %s", a, current))
	}
	return next, nil
}

// Apply returns a copy of it with the action applied. resolver is recorded
// only by ActionResolve and may be nil.
func (a Action) Apply(it Item, resolver *int64, now time.Time) (Item, error) {
	next, err := NextStatus(a, it.Status)
	if err != nil {
		return it, err
	}

	switch a {
	case ActionResolve:
		at := now
		it.ResolvedAt = &at
		it.ResolvedBy = resolver
	case ActionPrioritize:
		it.Priority = true
	case ActionUnprioritize:
		it.Priority = false
	}

	// Resolution fields only describe a resolved item.
	if next != ItemStatusResolved {
		it.ResolvedAt = nil
		it.ResolvedBy = nil
	}
	it.Status = next
	it.UpdatedAt = now
	return it, nil
}

// MarkResolved sets the item resolved, stamping the resolution time and the
// helping user together. It performs no permission check.
func (it *Item) MarkResolved(resolver *int64, now time.Time) error {
	next, err := ActionResolve.Apply(*it, resolver, now)
	if err != nil {
		return err
	}
	*it = next
	return nil
}

// Elapsed describes the time since the item was posted.
func (it *Item) Elapsed(now time.Time) string {
	return ElapsedSince(it.CreatedAt, now)
}

// ElapsedSince renders now-since in days, hours or minutes (pt-BR).
func ElapsedSince(since, now time.Time) string {
	d := now.Sub(since)
	if d < 0 {
		d = 0
	}
	switch {
	case d >= 24*time.Hour:
		return plural(int(d/(24*time.Hour)), "dia", "dias")
	case d >= time.Hour:
		return plural(int(d/time.Hour), "hora", "horas")
	default:
		return plural(int(d/time.Minute), "minuto", "minutos")
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
