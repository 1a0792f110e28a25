package api

import (
	"net/http"
	"strconv"

	"github.com/uft-palmas/achados/internal/imaging"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/paging"
	"github.com/uft-palmas/achados/internal/policy"
	"github.com/uft-palmas/achados/internal/service"
)

// ItemsHandler handles item endpoints.
type ItemsHandler struct {
	Service *service.Service
}

type myItemsResponse struct {
	paging.Page[model.Item]
	Stats model.OwnerStats `json:"stats"`
}

// List handles GET /api/items. Spam and expired items are listed for staff
// only.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := service.ParseItemFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	number := paging.ParseNumber(r.URL.Query().Get("page"))
	var page paging.Page[model.Item]
	if policy.CanModerate(actor(r)) {
		page, err = h.Service.ListPage(r.Context(), f, number, paging.APIListSize)
	} else {
		page, err = h.Service.PublicItems(r.Context(), f, number, paging.APIListSize)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	jsonResponse(w, http.StatusOK, page)
}

// Mine handles GET /api/items/mine.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	number := paging.ParseNumber(r.URL.Query().Get("page"))
	page, stats, err := h.Service.MyItems(r.Context(), actor(r), number, paging.MyItemsSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, myItemsResponse{
		Page:  page,
		Stats: stats,
	})
}

// Recent handles GET /api/items/recent.
func (h *ItemsHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}

	items, err := h.Service.RecentItems(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.CreateItem(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}. Every call counts as a view.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	detail, err := h.Service.ViewItem(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, detail)
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req service.ItemInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Service.UpdateItem(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.Service.DeleteItem(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resolve handles POST /api/items/{id}/resolve.
func (h *ItemsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Service.ResolveItem(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// UploadPhoto handles PUT /api/items/{id}/photo (multipart field "photo").
func (h *ItemsHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Leave room for the multipart envelope around a maximum-size photo.
	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "photo file required")
		return
	}
	defer file.Close()

	if err := h.Service.SetItemPhoto(r.Context(), actor(r), id, file); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "photo uploaded"})
}

// GetPhoto handles GET /api/items/{id}/photo.
func (h *ItemsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := h.Service.ItemPhoto(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(data)
}
