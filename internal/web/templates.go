package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/uft-palmas/achados/internal/auth"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/service"
	webembed "github.com/uft-palmas/achados/web"
)

// Templates holds parsed HTML templates.
type Templates struct {
	templates map[string]*template.Template
}

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"categoryName": func(v string) string { return model.Label(model.Categories, v) },
		"blockName":    func(v string) string { return model.Label(model.Blocks, v) },
		"typeName":     func(v string) string { return model.Label(model.ItemTypes, v) },
		"statusName":   func(v string) string { return model.Label(model.ItemStatuses, v) },
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Local().Format("02/01/2006 15:04")
		},
		"elapsed": func(t time.Time) string { return model.ElapsedSince(t, time.Now()) },
	}
}

// LoadTemplates parses all page templates with the layout.
func LoadTemplates() (*Templates, error) {
	tfs := webembed.TemplatesFS()

	// Read layout.
	layoutBytes, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	pages := []string{
		"login.html",
		"register.html",
		"items.html",
		"item_detail.html",
		"item_form.html",
		"item_delete.html",
		"item_contacts.html",
		"my_items.html",
		"my_contacts.html",
		"settings.html",
		"admin_items.html",
		"error.html",
	}

	ts := &Templates{templates: make(map[string]*template.Template)}

	for _, page := range pages {
		pageBytes, err := fs.ReadFile(tfs, page)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", page, err)
		}

		tmpl := template.New(page).Funcs(FuncMap())
		tmpl, err = tmpl.Parse(string(layoutBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", page, err)
		}
		tmpl, err = tmpl.Parse(string(pageBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}

		ts.templates[page] = tmpl
	}

	return ts, nil
}

// Render renders a template with the given data and a 200 status.
func (ts *Templates) Render(w http.ResponseWriter, name string, data any) {
	ts.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (ts *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data any) {
	tmpl, ok := ts.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err)
	}
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title          string
	User           *auth.Claims
	UnreadContacts int
	Error          string
	Success        string
	Fields         map[string]string
}

// Server holds all dependencies for page handlers.
type Server struct {
	Service       *service.Service
	Templates     *Templates
	SecureCookies bool
}

// page builds the base page data for r. The unread contact count is read on
// every call so the badge is never stale.
func (s *Server) page(r *http.Request, title string) PageData {
	pd := PageData{Title: title, User: GetWebClaims(r.Context())}
	if pd.User == nil {
		return pd
	}

	n, err := s.Service.UnreadCount(r.Context(), webActor(r))
	if err != nil {
		slog.Error("failed to count unread contacts", "error", err)
	}
	pd.UnreadContacts = n
	return pd
}
