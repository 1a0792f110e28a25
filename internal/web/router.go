package web

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/service"
	webembed "github.com/uft-palmas/achados/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(svc *service.Service, secureCookies bool) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Service:       svc,
		Templates:     templates,
		SecureCookies: secureCookies,
	}

	mux := http.NewServeMux()
	cookieAuth := CookieAuthMiddleware(svc, secureCookies)
	optional := OptionalCookieAuth(svc, secureCookies)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.Handle("GET /login", optional(http.HandlerFunc(s.LoginPage)))
	mux.Handle("POST /login", optional(http.HandlerFunc(s.LoginSubmit)))
	mux.Handle("POST /logout", optional(http.HandlerFunc(s.Logout)))
	mux.Handle("GET /register", optional(http.HandlerFunc(s.RegisterPage)))
	mux.Handle("POST /register", optional(http.HandlerFunc(s.RegisterSubmit)))

	mux.Handle("GET /{$}", optional(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("GET /items", optional(http.HandlerFunc(s.ItemsPage)))
	mux.Handle("GET /items/{id}", optional(http.HandlerFunc(s.ItemDetailPage)))
	mux.Handle("GET /items/{id}/photo", optional(http.HandlerFunc(s.ItemPhotoGet)))

	// Authenticated routes.
	mux.Handle("GET /items/new", cookieAuth(http.HandlerFunc(s.ItemNewPage)))
	mux.Handle("POST /items/new", cookieAuth(http.HandlerFunc(s.ItemCreateSubmit)))
	mux.Handle("GET /items/{id}/edit", cookieAuth(http.HandlerFunc(s.ItemEditPage)))
	mux.Handle("POST /items/{id}/edit", cookieAuth(http.HandlerFunc(s.ItemEditSubmit)))
	mux.Handle("GET /items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeletePage)))
	mux.Handle("POST /items/{id}/delete", cookieAuth(http.HandlerFunc(s.ItemDeleteSubmit)))
	mux.Handle("POST /items/{id}/resolve", cookieAuth(http.HandlerFunc(s.ItemResolveSubmit)))
	mux.Handle("POST /items/{id}/photo", cookieAuth(http.HandlerFunc(s.ItemPhotoSubmit)))
	mux.Handle("POST /items/{id}/comments", cookieAuth(http.HandlerFunc(s.CommentSubmit)))
	mux.Handle("POST /comments/{id}/delete", cookieAuth(http.HandlerFunc(s.CommentDeleteSubmit)))
	mux.Handle("GET /items/{id}/contacts", cookieAuth(http.HandlerFunc(s.ItemContactsPage)))
	mux.Handle("POST /items/{id}/contacts", cookieAuth(http.HandlerFunc(s.ContactSubmit)))

	mux.Handle("GET /my/items", cookieAuth(http.HandlerFunc(s.MyItemsPage)))
	mux.Handle("GET /my/contacts", cookieAuth(http.HandlerFunc(s.MyContactsPage)))
	mux.Handle("POST /contacts/{id}/viewed", cookieAuth(http.HandlerFunc(s.ContactViewedSubmit)))

	mux.Handle("GET /settings", cookieAuth(http.HandlerFunc(s.SettingsPage)))
	mux.Handle("POST /settings/profile", cookieAuth(http.HandlerFunc(s.ProfileSubmit)))
	mux.Handle("POST /settings/password", cookieAuth(http.HandlerFunc(s.PasswordSubmit)))
	mux.Handle("POST /settings/sessions/revoke", cookieAuth(http.HandlerFunc(s.SessionsRevokeSubmit)))

	mux.Handle("GET /admin/items", cookieAuth(http.HandlerFunc(s.AdminItemsPage)))
	mux.Handle("POST /admin/items", cookieAuth(http.HandlerFunc(s.AdminItemsSubmit)))

	return mux, nil
}
