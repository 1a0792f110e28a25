package api

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/service"
)

// CommentsHandler handles comment endpoints.
type CommentsHandler struct {
	Service *service.Service
}

// List handles GET /api/items/{id}/comments.
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	comments, err := h.Service.ListComments(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, comments)
}

// Create handles POST /api/items/{id}/comments.
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req service.CommentInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.Service.AddComment(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, comment)
}

// Delete handles DELETE /api/comments/{id}.
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := h.Service.DeleteComment(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
