package web

import (
	"fmt"
	"net/http"

	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/service"
)

// ContactSubmit handles POST /items/{id}/contacts.
func (s *Server) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	msg := r.FormValue("message")
	_, err = s.Service.SendContact(r.Context(), webActor(r), id, service.ContactInput{Message: msg})
	if err == nil {
		http.Redirect(w, r, fmt.Sprintf("/items/%d#contact", id), http.StatusSeeOther)
		return
	}
	s.detailWithError(w, r, id, err, &detailData{Contact: msg})
}

// ItemContactsPage handles GET /items/{id}/contacts. Only the item's owner
// may read them.
func (s *Server) ItemContactsPage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	actor := webActor(r)
	contacts, err := s.Service.ItemContacts(r.Context(), actor, id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	item, err := s.Service.GetItem(r.Context(), actor, id)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.Templates.Render(w, "item_contacts.html", &struct {
		PageData
		Item     *model.Item
		Contacts []model.Contact
	}{
		PageData: s.page(r, "Contatos: "+item.Title),
		Item:     item,
		Contacts: contacts,
	})
}

// MyContactsPage handles GET /my/contacts.
func (s *Server) MyContactsPage(w http.ResponseWriter, r *http.Request) {
	actor := webActor(r)
	received, err := s.Service.ReceivedContacts(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	sent, err := s.Service.SentContacts(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	s.Templates.Render(w, "my_contacts.html", &struct {
		PageData
		Received []model.Contact
		Sent     []model.Contact
	}{
		PageData: s.page(r, "Meus contatos"),
		Received: received,
		Sent:     sent,
	})
}

// ContactViewedSubmit handles POST /contacts/{id}/viewed.
func (s *Server) ContactViewedSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	if _, err := s.Service.MarkContactViewed(r.Context(), webActor(r), id); err != nil {
		s.renderError(w, r, err)
		return
	}
	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusSeeOther)
}
