package api

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *service.Service) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{Service: svc}
	usersHandler := &UsersHandler{Service: svc}
	itemsHandler := &ItemsHandler{Service: svc}
	commentsHandler := &CommentsHandler{Service: svc}
	contactsHandler := &ContactsHandler{Service: svc}
	catalog := CatalogHandler{}

	authMW := AuthMiddleware(svc)
	optional := OptionalAuth(svc)

	// Public.
	mux.HandleFunc("POST /api/auth/token", authHandler.Token)
	mux.HandleFunc("POST /api/users", usersHandler.Register)
	mux.HandleFunc("GET /api/categories", catalog.Categories)
	mux.HandleFunc("GET /api/blocks", catalog.Blocks)

	// Session and account.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/auth/tokens", authMW(http.HandlerFunc(authHandler.Tokens)))
	mux.Handle("POST /api/auth/tokens/{jti}/revoke", authMW(http.HandlerFunc(authHandler.RevokeToken)))
	mux.Handle("POST /api/auth/tokens/revoke-all", authMW(http.HandlerFunc(authHandler.RevokeAll)))
	mux.Handle("GET /api/users/me", authMW(http.HandlerFunc(usersHandler.Me)))
	mux.Handle("PATCH /api/users/me", authMW(http.HandlerFunc(usersHandler.UpdateMe)))

	// Items: reading is open, writing needs a login.
	mux.Handle("GET /api/items", optional(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/mine", authMW(http.HandlerFunc(itemsHandler.Mine)))
	mux.Handle("GET /api/items/recent", optional(http.HandlerFunc(itemsHandler.Recent)))
	mux.Handle("GET /api/items/{id}", optional(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/{id}/resolve", authMW(http.HandlerFunc(itemsHandler.Resolve)))
	mux.Handle("PUT /api/items/{id}/photo", authMW(http.HandlerFunc(itemsHandler.UploadPhoto)))
	mux.Handle("GET /api/items/{id}/photo", optional(http.HandlerFunc(itemsHandler.GetPhoto)))

	// Comments.
	mux.Handle("GET /api/items/{id}/comments", optional(http.HandlerFunc(commentsHandler.List)))
	mux.Handle("POST /api/items/{id}/comments", authMW(http.HandlerFunc(commentsHandler.Create)))
	mux.Handle("DELETE /api/comments/{id}", authMW(http.HandlerFunc(commentsHandler.Delete)))

	// Contacts.
	mux.Handle("GET /api/items/{id}/contacts", authMW(http.HandlerFunc(contactsHandler.ListForItem)))
	mux.Handle("POST /api/items/{id}/contacts", authMW(http.HandlerFunc(contactsHandler.Create)))
	mux.Handle("GET /api/contacts/received", authMW(http.HandlerFunc(contactsHandler.Received)))
	mux.Handle("GET /api/contacts/sent", authMW(http.HandlerFunc(contactsHandler.Sent)))
	mux.Handle("POST /api/contacts/{id}/viewed", authMW(http.HandlerFunc(contactsHandler.MarkViewed)))
	mux.Handle("GET /api/contacts/unread-count", authMW(http.HandlerFunc(contactsHandler.UnreadCount)))

	return mux
}
