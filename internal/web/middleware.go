package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/auth"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/service"
)

type webContextKey string

const webClaimsKey webContextKey = "webclaims"

const tokenCookie = "token"

// claimsFromCookie validates the token cookie, including revocation. A
// missing cookie yields nil claims and no error.
func claimsFromCookie(r *http.Request, svc *service.Service) (*auth.Claims, error) {
	cookie, err := r.Cookie(tokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return svc.VerifyToken(r.Context(), cookie.Value)
}

// CookieAuthMiddleware validates the JWT cookie and adds claims to context.
// Anonymous visitors are sent to the login page.
func CookieAuthMiddleware(svc *service.Service, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromCookie(r, svc)
			if err != nil {
				clearAuthCookie(w, secure)
			}
			if claims == nil {
				http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCookieAuth adds claims to context when a valid cookie is present.
// An invalid or revoked cookie is cleared and the request continues
// anonymously.
func OptionalCookieAuth(svc *service.Service, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromCookie(r, svc)
			if err != nil {
				clearAuthCookie(w, secure)
			}
			if claims != nil {
				r = r.WithContext(context.WithValue(r.Context(), webClaimsKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func setAuthCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie clears the authentication cookie with consistent attributes.
func clearAuthCookie(w http.ResponseWriter, secure bool) {
	setAuthCookie(w, "", -1, secure)
}

// GetWebClaims retrieves the JWT claims from web context.
func GetWebClaims(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(webClaimsKey).(*auth.Claims)
	return claims
}

func webActor(r *http.Request) model.Actor {
	return GetWebClaims(r.Context()).Actor()
}

// renderError renders an error page matching err's kind. Unknown errors are
// logged and shown as internal errors.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Ocorreu um erro inesperado."

	var e *apperr.Error
	if errors.As(err, &e) {
		status = e.Status()
		switch e.Kind {
		case apperr.KindNotFound:
			message = "Página não encontrada."
		case apperr.KindAuthorization:
			message = "Você não tem permissão para realizar esta ação."
		case apperr.KindUnauthenticated:
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
			return
		default:
			message = e.Message
		}
	} else {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	pd := s.page(r, "Erro")
	pd.Error = message
	s.Templates.RenderStatus(w, status, "error.html", &pd)
}

// fieldErrors extracts per-field messages from a validation error. Other
// errors return false.
func fieldErrors(err error) (map[string]string, string, bool) {
	e, ok := apperr.As(err)
	if !ok || (e.Kind != apperr.KindValidation && e.Kind != apperr.KindConflict) {
		return nil, "", false
	}
	return e.Fields, e.Message, true
}
