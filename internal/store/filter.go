package store

import (
	"strings"
	"time"

	"github.com/uft-palmas/achados/internal/model"
)

// Sort keys accepted by ListItems.
const (
	SortNewest = "-created"
	SortOldest = "created"
	SortTitle  = "title"
	SortViews  = "-views"
)

// DefaultSort orders listings newest first.
const DefaultSort = SortNewest

var sortClauses = map[string]string{
	SortNewest: "i.created_at DESC, i.id DESC",
	SortOldest: "i.created_at ASC, i.id ASC",
	SortTitle:  "i.title COLLATE NOCASE ASC, i.id ASC",
	SortViews:  "i.views DESC, i.created_at DESC, i.id DESC",
}

// SortKeys lists the accepted sort keys with their labels.
var SortKeys = []model.Choice{
	{Value: SortNewest, Label: "Mais recentes"},
	{Value: SortOldest, Label: "Mais antigos"},
	{Value: SortTitle, Label: "Título"},
	{Value: SortViews, Label: "Mais vistos"},
}

// ItemFilter describes a filtered, ordered view over items. Zero-valued
// fields do not constrain the result.
type ItemFilter struct {
	Search   string
	Type     string
	Category string
	Block    string
	// Status is matched exactly; model.StatusAll disables it and the empty
	// string means model.ItemStatusActive.
	Status   string
	Priority bool
	// DateFrom and DateTo bound the creation date, inclusive, by calendar day.
	DateFrom *time.Time
	DateTo   *time.Time
	Sort     string

	OwnerID         int64
	ExcludeID       int64
	ExcludeStatuses []string
	Limit           int
	Offset          int
}

// EffectiveStatus returns the status filter after defaulting.
func (f ItemFilter) EffectiveStatus() string {
	if f.Status == "" {
		return model.ItemStatusActive
	}
	return f.Status
}

// EffectiveSort returns the sort key, falling back to DefaultSort for
// unrecognised values.
func (f ItemFilter) EffectiveSort() string {
	if _, ok := sortClauses[f.Sort]; ok {
		return f.Sort
	}
	return DefaultSort
}

// where renders the WHERE part of the listing query.
func (f ItemFilter) where() (string, []any) {
	var conds []string
	var args []any

	if s := strings.TrimSpace(f.Search); s != "" {
		// fold is registered by the db package; both sides are lowered with
		// Portuguese rules so accented capitals match.
		pattern := "%" + escapeLike(s) + "%"
		conds = append(conds, `(fold(i.title) LIKE fold(?) ESCAPE '\'
			OR fold(i.description) LIKE fold(?) ESCAPE '\'
			OR fold(IFNULL(i.location_detail, '')) LIKE fold(?) ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if f.Type != "" {
		conds = append(conds, "i.type = ?")
		args = append(args, f.Type)
	}
	if f.Category != "" {
		conds = append(conds, "i.category = ?")
		args = append(args, f.Category)
	}
	if f.Block != "" {
		conds = append(conds, "i.block = ?")
		args = append(args, f.Block)
	}
	if status := f.EffectiveStatus(); status != model.StatusAll {
		conds = append(conds, "i.status = ?")
		args = append(args, status)
	}
	for _, s := range f.ExcludeStatuses {
		conds = append(conds, "i.status <> ?")
		args = append(args, s)
	}
	if f.Priority {
		conds = append(conds, "i.priority = 1")
	}
	if f.DateFrom != nil {
		conds = append(conds, "date(i.created_at) >= ?")
		args = append(args, f.DateFrom.Format(time.DateOnly))
	}
	if f.DateTo != nil {
		conds = append(conds, "date(i.created_at) <= ?")
		args = append(args, f.DateTo.Format(time.DateOnly))
	}
	if f.OwnerID != 0 {
		conds = append(conds, "i.owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.ExcludeID != 0 {
		conds = append(conds, "i.id <> ?")
		args = append(args, f.ExcludeID)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// clauses renders the WHERE, ORDER BY and LIMIT parts of the listing query.
func (f ItemFilter) clauses() (string, []any) {
	where, args := f.where()

	var b strings.Builder
	b.WriteString(where)
	b.WriteString(" ORDER BY ")
	b.WriteString(sortClauses[f.EffectiveSort()])
	switch {
	case f.Limit > 0:
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, f.Limit, max(f.Offset, 0))
	case f.Offset > 0:
		b.WriteString(" LIMIT -1 OFFSET ?")
		args = append(args, f.Offset)
	}
	return b.String(), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
