package api

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/service"
)

// ContactsHandler handles contact endpoints.
type ContactsHandler struct {
	Service *service.Service
}

// ListForItem handles GET /api/items/{id}/contacts.
func (h *ContactsHandler) ListForItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	contacts, err := h.Service.ItemContacts(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, contacts)
}

// Create handles POST /api/items/{id}/contacts.
func (h *ContactsHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req service.ContactInput
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contact, err := h.Service.SendContact(r.Context(), actor(r), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, contact)
}

// Received handles GET /api/contacts/received.
func (h *ContactsHandler) Received(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Service.ReceivedContacts(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, contacts)
}

// Sent handles GET /api/contacts/sent.
func (h *ContactsHandler) Sent(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.Service.SentContacts(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, contacts)
}

// MarkViewed handles POST /api/contacts/{id}/viewed.
func (h *ContactsHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		jsonError(w, http.StatusBadRequest, "invalid contact id")
		return
	}

	contact, err := h.Service.MarkContactViewed(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, contact)
}

// UnreadCount handles GET /api/contacts/unread-count.
func (h *ContactsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.UnreadCount(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int{"unread": n})
}
