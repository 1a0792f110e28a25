package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/store"
)

// ParseItemFilter reads listing filters from query parameters. Unknown sort
// keys fall back to the default order; malformed dates are rejected.
func ParseItemFilter(q url.Values) (store.ItemFilter, error) {
	f := store.ItemFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Type:     q.Get("type"),
		Category: q.Get("category"),
		Block:    q.Get("block"),
		Status:   q.Get("status"),
		Priority: parseBool(q.Get("priority")),
		Sort:     q.Get("sort"),
	}

	fields := map[string]string{}
	for _, p := range []struct {
		key string
		dst **time.Time
	}{
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	} {
		v := strings.TrimSpace(q.Get(p.key))
		if v == "" {
			continue
		}
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			fields[p.key] = "date must be formatted as YYYY-MM-DD"
			continue
		}
		*p.dst = &d
	}
	if len(fields) > 0 {
		return f, apperr.Validation("invalid filter", fields)
	}

	f.Sort = f.EffectiveSort()
	return f, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
