package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/paging"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/service"
	"github.com/uft-palmas/achados/internal/store"
)

// adminPageSize is the admin list page size.
const adminPageSize = 50

type adminData struct {
	listData
	Actions []model.Choice
}

func (s *Server) renderAdmin(w http.ResponseWriter, r *http.Request, q url.Values, pd PageData) {
	actor := webActor(r)
	if !policy.CanModerate(actor) {
		s.renderError(w, r, apperr.Forbidden("staff only"))
		return
	}

	status := http.StatusOK
	page := paging.New[model.Item](nil, 1, adminPageSize, 0)
	f, err := service.ParseItemFilter(q)
	if fields, msg, ok := fieldErrors(err); ok {
		pd.Error, pd.Fields = msg, fields
		status = http.StatusBadRequest
	} else {
		page, err = s.Service.AdminItems(r.Context(), actor, f, paging.ParseNumber(q.Get("page")), adminPageSize)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	s.Templates.RenderStatus(w, status, "admin_items.html", &adminData{
		listData: listData{
			PageData: pd,
			Page:     page,
			Query:    q,
			Sorts:    store.SortKeys,
			Choices:  formChoices,
			basePath: "/admin/items",
		},
		Actions: model.Actions,
	})
}

// AdminItemsPage handles GET /admin/items.
func (s *Server) AdminItemsPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdmin(w, r, r.URL.Query(), s.page(r, "Administração de itens"))
}

// AdminItemsSubmit handles POST /admin/items: a bulk action over the
// selected ids.
func (s *Server) AdminItemsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, apperr.FieldError("ids", "invalid form"))
		return
	}

	var ids []int64
	for _, v := range r.PostForm["ids"] {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	pd := s.page(r, "Administração de itens")
	res, err := s.Service.ApplyAction(r.Context(), webActor(r), model.Action(r.PostFormValue("action")), ids)
	if fields, msg, ok := fieldErrors(err); ok {
		pd.Error, pd.Fields = msg, fields
	} else if err != nil {
		s.renderError(w, r, err)
		return
	} else {
		pd.Success = bulkSummary(res)
	}
	s.renderAdmin(w, r, r.URL.Query(), pd)
}

func bulkSummary(res *service.BulkResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d item(ns) atualizado(s).", len(res.Updated))
	if n := len(res.Refused); n > 0 {
		fmt.Fprintf(&b, " %d ignorado(s) pelo status atual.", n)
	}
	if n := len(res.Missing); n > 0 {
		fmt.Fprintf(&b, " %d não encontrado(s).", n)
	}
	return b.String()
}
