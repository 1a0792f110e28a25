package api

import (
	"net/http"
	"time"

	"github.com/uft-palmas/achados/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Service *service.Service
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type tokenResponse struct {
	JTI       string     `json:"jti"`
	Preview   string     `json:"preview"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	Revoked   bool       `json:"revoked"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	Current   bool       `json:"current"`
}

// Token handles POST /api/auth/token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.Service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, session)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Logout(r.Context(), GetClaims(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := h.Service.ChangePassword(r.Context(), actor(r), req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}

// Tokens handles GET /api/auth/tokens.
func (h *AuthHandler) Tokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.Service.Tokens(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	current := GetClaims(r.Context()).ID
	resp := make([]tokenResponse, 0, len(tokens))
	for _, t := range tokens {
		preview := t.JTI
		if len(preview) > 8 {
			preview = preview[:8] + "..."
		}
		resp = append(resp, tokenResponse{
			JTI:       t.JTI,
			Preview:   preview,
			CreatedAt: t.CreatedAt,
			ExpiresAt: t.ExpiresAt,
			Revoked:   t.Revoked(),
			RevokedAt: t.RevokedAt,
			Current:   t.JTI == current,
		})
	}
	jsonResponse(w, http.StatusOK, resp)
}

// RevokeToken handles POST /api/auth/tokens/{jti}/revoke.
func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.RevokeToken(r.Context(), actor(r), r.PathValue("jti")); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "token revoked"})
}

// RevokeAll handles POST /api/auth/tokens/revoke-all. The token used for
// the request stays valid.
func (h *AuthHandler) RevokeAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.Service.RevokeOtherTokens(r.Context(), actor(r), GetClaims(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]int64{"revoked": n})
}
