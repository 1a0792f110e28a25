package web

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/service"
)

// safeNext returns next if it is a local path, or "/" otherwise.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// startSession sets the auth cookie for session.
func (s *Server) startSession(w http.ResponseWriter, session *service.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	setAuthCookie(w, session.Token, maxAge, s.SecureCookies)
}

type loginData struct {
	PageData
	Next     string
	Username string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &loginData{
		PageData: s.page(r, "Entrar"),
		Next:     r.URL.Query().Get("next"),
	})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	fail := func(status int, msg string) {
		pd := s.page(r, "Entrar")
		pd.Error = msg
		s.Templates.RenderStatus(w, status, "login.html", &loginData{PageData: pd, Next: next, Username: username})
	}

	if username == "" || password == "" {
		fail(http.StatusBadRequest, "Informe usuário e senha.")
		return
	}

	session, err := s.Service.Login(r.Context(), username, password)
	if apperr.Is(err, apperr.KindUnauthenticated) {
		fail(http.StatusUnauthorized, "Usuário ou senha inválidos.")
		return
	}
	if err != nil {
		slog.Error("login failed", "error", err)
		fail(http.StatusInternalServerError, "Erro ao entrar.")
		return
	}

	s.startSession(w, session)
	http.Redirect(w, r, safeNext(next), http.StatusSeeOther)
}

// Logout handles POST /logout. The token is revoked so the cookie cannot be
// replayed.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := GetWebClaims(r.Context()); claims != nil {
		if err := s.Service.Logout(r.Context(), claims); err != nil {
			slog.Error("failed to revoke token on logout", "error", err)
		}
	}
	clearAuthCookie(w, s.SecureCookies)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RegisterPage handles GET /register.
func (s *Server) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if GetWebClaims(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "register.html", &struct {
		PageData
		Form service.RegisterInput
	}{PageData: s.page(r, "Criar conta")})
}

// RegisterSubmit handles POST /register. A successful registration logs the
// new user in.
func (s *Server) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	in := service.RegisterInput{
		Username:        r.FormValue("username"),
		Email:           r.FormValue("email"),
		FirstName:       r.FormValue("first_name"),
		LastName:        r.FormValue("last_name"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}

	user, err := s.Service.Register(r.Context(), in)
	if fields, msg, ok := fieldErrors(err); ok {
		pd := s.page(r, "Criar conta")
		pd.Error, pd.Fields = msg, fields
		in.Password, in.PasswordConfirm = "", ""
		s.Templates.RenderStatus(w, http.StatusBadRequest, "register.html", &struct {
			PageData
			Form service.RegisterInput
		}{PageData: pd, Form: in})
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	session, err := s.Service.IssueToken(r.Context(), user)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.startSession(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
