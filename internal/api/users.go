package api

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/service"
)

// UsersHandler handles account endpoints.
type UsersHandler struct {
	Service *service.Service
}

// Register handles POST /api/users.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.Service.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, user)
}

// Me handles GET /api/users/me.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Service.Profile(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// UpdateMe handles PATCH /api/users/me. Omitted fields keep their value.
func (h *UsersHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	current, err := h.Service.Profile(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	req := service.ProfileInput{
		Email:     current.Email,
		FirstName: current.FirstName,
		LastName:  current.LastName,
	}
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), actor(r), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, profile)
}

// CatalogHandler serves the enumerations used by item forms.
type CatalogHandler struct{}

// Categories handles GET /api/categories.
func (CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Categories)
}

// Blocks handles GET /api/blocks.
func (CatalogHandler) Blocks(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, model.Blocks)
}
