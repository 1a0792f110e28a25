package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/imaging"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/paging"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/service"
	"github.com/uft-palmas/achados/internal/store"
)

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.NotFound("invalid id")
	}
	return id, nil
}

type listData struct {
	PageData
	Page     paging.Page[model.Item]
	Stats    model.ItemStats
	Query    url.Values
	Sorts    []model.Choice
	Choices  choices
	basePath string
}

// PageURL returns the listing URL for page n, keeping the active filters.
func (d *listData) PageURL(n int) template.URL {
	q := url.Values{}
	for k, v := range d.Query {
		if k != "page" {
			q[k] = v
		}
	}
	q.Set("page", strconv.Itoa(n))
	return template.URL(d.basePath + "?" + q.Encode())
}

type choices struct {
	Categories []model.Choice
	Blocks     []model.Choice
	Types      []model.Choice
	Statuses   []model.Choice
}

var formChoices = choices{
	Categories: model.Categories,
	Blocks:     model.Blocks,
	Types:      model.ItemTypes,
	Statuses:   model.ItemStatuses,
}

// ItemsPage handles GET / and GET /items.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pd := s.page(r, "Achados e Perdidos")

	status := http.StatusOK
	page := paging.New[model.Item](nil, 1, paging.WebListSize, 0)
	f, err := service.ParseItemFilter(q)
	if fields, msg, ok := fieldErrors(err); ok {
		pd.Error, pd.Fields = msg, fields
		status = http.StatusBadRequest
	} else {
		page, err = s.Service.PublicItems(r.Context(), f, paging.ParseNumber(q.Get("page")), paging.WebListSize)
		if err != nil {
			s.renderError(w, r, err)
			return
		}
	}

	stats, err := s.Service.Stats(r.Context())
	if err != nil {
		slog.Error("failed to load listing stats", "error", err)
	}

	s.Templates.RenderStatus(w, status, "items.html", &listData{
		PageData: pd,
		Page:     page,
		Stats:    stats,
		Query:    q,
		Sorts:    store.SortKeys,
		Choices:  formChoices,
		basePath: "/items",
	})
}

type detailData struct {
	PageData
	*service.ItemDetail
	Comment string
	Contact string
}

func (s *Server) renderDetail(w http.ResponseWriter, r *http.Request, status int, d *detailData) {
	d.PageData.Title = d.Item.Title
	s.Templates.RenderStatus(w, status, "item_detail.html", d)
}

// ItemDetailPage handles GET /items/{id}. Every visit counts a view.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	detail, err := s.Service.ViewItem(r.Context(), webActor(r), id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderDetail(w, r, http.StatusOK, &detailData{PageData: s.page(r, ""), ItemDetail: detail})
}

type formData struct {
	PageData
	Item     *model.Item
	Form     service.ItemInput
	Occurred string
	Choices  choices
}

// itemInput reads the item form. A malformed date is reported as a field
// error.
func itemInput(r *http.Request) (service.ItemInput, string, error) {
	in := service.ItemInput{
		Title:          r.FormValue("title"),
		Description:    r.FormValue("description"),
		Category:       r.FormValue("category"),
		Type:           r.FormValue("type"),
		Block:          r.FormValue("block"),
		LocationDetail: r.FormValue("location_detail"),
		ContactPhone:   r.FormValue("contact_phone"),
		ContactEmail:   r.FormValue("contact_email"),
		Priority:       r.FormValue("priority") != "",
	}

	raw := strings.TrimSpace(r.FormValue("occurred_at"))
	if raw == "" {
		return in, raw, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04", raw, time.Local)
	if err != nil {
		return in, raw, apperr.FieldError("occurred_at", "data inválida")
	}
	in.OccurredAt = &t
	return in, raw, nil
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, item *model.Item, in service.ItemInput, occurred string, err error) {
	pd := s.page(r, title)
	if err != nil {
		fields, msg, _ := fieldErrors(err)
		pd.Error, pd.Fields = msg, fields
	}
	s.Templates.RenderStatus(w, status, "item_form.html", &formData{
		PageData: pd,
		Item:     item,
		Form:     in,
		Occurred: occurred,
		Choices:  formChoices,
	})
}

// ItemNewPage handles GET /items/new.
func (s *Server) ItemNewPage(w http.ResponseWriter, r *http.Request) {
	in := service.ItemInput{Type: r.URL.Query().Get("type"), Category: model.DefaultCategory}
	s.renderForm(w, r, http.StatusOK, "Novo item", nil, in, "", nil)
}

// ItemCreateSubmit handles POST /items/new.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in, occurred, err := itemInput(r)
	if err == nil {
		var item *model.Item
		item, err = s.Service.CreateItem(r.Context(), webActor(r), in)
		if err == nil {
			http.Redirect(w, r, fmt.Sprintf("/items/%d", item.ID), http.StatusSeeOther)
			return
		}
	}
	if _, _, ok := fieldErrors(err); !ok {
		s.renderError(w, r, err)
		return
	}
	s.renderForm(w, r, http.StatusBadRequest, "Novo item", nil, in, occurred, err)
}

// ownItem loads an item the current user may modify. Others get not found.
func (s *Server) ownItem(r *http.Request) (*model.Item, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	actor := webActor(r)
	item, err := s.Service.GetItem(r.Context(), actor, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(item, actor) {
		return nil, apperr.NotFound("item not found")
	}
	return item, nil
}

// ItemEditPage handles GET /items/{id}/edit.
func (s *Server) ItemEditPage(w http.ResponseWriter, r *http.Request) {
	item, err := s.ownItem(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	in, occurred := formFromItem(item)
	s.renderForm(w, r, http.StatusOK, "Editar item", item, in, occurred, nil)
}

func formFromItem(item *model.Item) (service.ItemInput, string) {
	return service.ItemInput{
		Title:          item.Title,
		Description:    item.Description,
		Category:       item.Category,
		Type:           item.Type,
		Block:          item.Block,
		LocationDetail: item.LocationDetail,
		ContactPhone:   item.ContactPhone,
		ContactEmail:   item.ContactEmail,
		Priority:       item.Priority,
	}, item.OccurredAt.Local().Format("2006-01-02T15:04")
}

// ItemEditSubmit handles POST /items/{id}/edit.
func (s *Server) ItemEditSubmit(w http.ResponseWriter, r *http.Request) {
	item, err := s.ownItem(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	in, occurred, err := itemInput(r)
	if err == nil {
		_, err = s.Service.UpdateItem(r.Context(), webActor(r), item.ID, in)
		if err == nil {
			http.Redirect(w, r, fmt.Sprintf("/items/%d", item.ID), http.StatusSeeOther)
			return
		}
	}
	if _, _, ok := fieldErrors(err); !ok {
		s.renderError(w, r, err)
		return
	}
	s.renderForm(w, r, http.StatusBadRequest, "Editar item", item, in, occurred, err)
}

// ItemDeletePage handles GET /items/{id}/delete (confirmation).
func (s *Server) ItemDeletePage(w http.ResponseWriter, r *http.Request) {
	item, err := s.ownItem(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.Templates.Render(w, "item_delete.html", &struct {
		PageData
		Item *model.Item
	}{PageData: s.page(r, "Excluir item"), Item: item})
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if err := s.Service.DeleteItem(r.Context(), webActor(r), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, "/my/items", http.StatusSeeOther)
}

// ItemResolveSubmit handles POST /items/{id}/resolve.
func (s *Server) ItemResolveSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if _, err := s.Service.ResolveItem(r.Context(), webActor(r), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemPhotoSubmit handles POST /items/{id}/photo.
func (s *Server) ItemPhotoSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+1<<20)
	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			err = apperr.FieldError("photo", imaging.ErrTooLarge.Error())
		} else {
			err = apperr.FieldError("photo", "selecione uma imagem")
		}
	} else {
		defer file.Close()
		err = s.Service.SetItemPhoto(r.Context(), webActor(r), id, file)
	}

	if _, _, ok := fieldErrors(err); ok {
		item, lerr := s.ownItem(r)
		if lerr != nil {
			s.renderError(w, r, lerr)
			return
		}
		in, occurred := formFromItem(item)
		s.renderForm(w, r, http.StatusBadRequest, "Editar item", item, in, occurred, err)
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/items/%d", id), http.StatusSeeOther)
}

// ItemPhotoGet handles GET /items/{id}/photo.
func (s *Server) ItemPhotoGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	data, mime, err := s.Service.ItemPhoto(r.Context(), webActor(r), id)
	if apperr.Is(err, apperr.KindNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to get photo", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write photo response", "error", err)
	}
}

// CommentSubmit handles POST /items/{id}/comments.
func (s *Server) CommentSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	body := r.FormValue("body")
	_, err = s.Service.AddComment(r.Context(), webActor(r), id, service.CommentInput{Body: body})
	if err == nil {
		http.Redirect(w, r, fmt.Sprintf("/items/%d#comments", id), http.StatusSeeOther)
		return
	}
	s.detailWithError(w, r, id, err, &detailData{Comment: body})
}

// CommentDeleteSubmit handles POST /comments/{id}/delete.
func (s *Server) CommentDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	itemID, _ := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err := s.Service.DeleteComment(r.Context(), webActor(r), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	if itemID > 0 {
		http.Redirect(w, r, fmt.Sprintf("/items/%d#comments", itemID), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// detailWithError re-renders the detail page with a form error. Errors that
// are not validation failures go to the error page.
func (s *Server) detailWithError(w http.ResponseWriter, r *http.Request, id int64, err error, d *detailData) {
	fields, msg, ok := fieldErrors(err)
	if !ok {
		s.renderError(w, r, err)
		return
	}
	detail, derr := s.Service.Detail(r.Context(), webActor(r), id)
	if derr != nil {
		s.renderError(w, r, derr)
		return
	}
	d.PageData = s.page(r, "")
	d.PageData.Error, d.PageData.Fields = msg, fields
	d.ItemDetail = detail
	s.renderDetail(w, r, http.StatusBadRequest, d)
}

// MyItemsPage handles GET /my/items.
func (s *Server) MyItemsPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, stats, err := s.Service.MyItems(r.Context(), webActor(r), paging.ParseNumber(q.Get("page")), paging.MyItemsSize)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.Templates.Render(w, "my_items.html", &struct {
		listData
		Owner model.OwnerStats
	}{
		listData: listData{
			PageData: s.page(r, "Meus itens"),
			Page:     page,
			Query:    q,
			basePath: "/my/items",
		},
		Owner: stats,
	})
}
