package web

import (
	"net/http"

	"github.com/uft-palmas/achados/internal/service"
	"github.com/uft-palmas/achados/internal/store"
)

type settingsData struct {
	PageData
	Profile *service.Profile
	Tokens  []store.IssuedToken
	Current string
}

func (s *Server) renderSettings(w http.ResponseWriter, r *http.Request, status int, pd PageData) {
	actor := webActor(r)
	profile, err := s.Service.Profile(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	tokens, err := s.Service.Tokens(r.Context(), actor)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.Templates.RenderStatus(w, status, "settings.html", &settingsData{
		PageData: pd,
		Profile:  profile,
		Tokens:   tokens,
		Current:  GetWebClaims(r.Context()).ID,
	})
}

// SettingsPage handles GET /settings.
func (s *Server) SettingsPage(w http.ResponseWriter, r *http.Request) {
	s.renderSettings(w, r, http.StatusOK, s.page(r, "Minha conta"))
}

// ProfileSubmit handles POST /settings/profile.
func (s *Server) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	_, err := s.Service.UpdateProfile(r.Context(), webActor(r), service.ProfileInput{
		Email:     r.FormValue("email"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
	})
	s.settingsResult(w, r, err, "Perfil atualizado.")
}

// PasswordSubmit handles POST /settings/password (change own password).
func (s *Server) PasswordSubmit(w http.ResponseWriter, r *http.Request) {
	err := s.Service.ChangePassword(r.Context(), webActor(r),
		r.FormValue("current_password"), r.FormValue("new_password"))
	s.settingsResult(w, r, err, "Senha alterada com sucesso.")
}

// SessionsRevokeSubmit handles POST /settings/sessions/revoke. Every other
// session of the user is ended.
func (s *Server) SessionsRevokeSubmit(w http.ResponseWriter, r *http.Request) {
	_, err := s.Service.RevokeOtherTokens(r.Context(), webActor(r), GetWebClaims(r.Context()).ID)
	s.settingsResult(w, r, err, "Outras sessões encerradas.")
}

func (s *Server) settingsResult(w http.ResponseWriter, r *http.Request, err error, success string) {
	pd := s.page(r, "Minha conta")
	if fields, msg, ok := fieldErrors(err); ok {
		pd.Error, pd.Fields = msg, fields
		s.renderSettings(w, r, http.StatusBadRequest, pd)
		return
	}
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	pd.Success = success
	s.renderSettings(w, r, http.StatusOK, pd)
}
