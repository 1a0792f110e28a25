package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/auth"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/store"
)

// RegisterInput is a sign-up request.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=150,username"`
	Email           string `json:"email" validate:"required,email,max=254"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
	Password        string `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// ProfileInput holds the fields a user may change on their own account.
type ProfileInput struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

// Profile is the current user's account with activity counters.
type Profile struct {
	*model.User
	Name             string `json:"name"`
	ItemsPosted      int    `json:"items_posted"`
	ContactsReceived int    `json:"contacts_received"`
}

// Session is an issued login token.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	IsStaff   bool      `json:"is_staff"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Register creates a regular user account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = s.plain(in.FirstName)
	in.LastName = s.plain(in.LastName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	existing, err := store.GetUserByUsername(ctx, s.DB, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username", "username already taken")
	}
	taken, err := store.EmailInUse(ctx, s.DB, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("email", "email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := store.CreateUser(ctx, s.DB, &model.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user", user.Username)
	return user, nil
}

// Authenticate checks a username and password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password required", map[string]string{
			"username": "required",
			"password": "required",
		})
	}

	user, err := store.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		slog.Warn("login failed", "username", username)
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	return user, nil
}

// Login authenticates a user and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	session, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}
	slog.Info("user logged in", "user", user.Username, "staff", user.IsStaff)
	return session, nil
}

// IssueToken signs and records a token for user.
func (s *Service) IssueToken(ctx context.Context, user *model.User) (*Session, error) {
	token, claims, err := auth.GenerateToken(s.JWTSecret, s.TokenTTL, user)
	if err != nil {
		return nil, err
	}
	err = store.RecordToken(ctx, s.DB, claims.ID, user.ID, claims.IssuedAt.Time.UTC(), claims.ExpiresAt.Time.UTC())
	if err != nil {
		return nil, err
	}
	return &Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		Name:      user.DisplayName(),
		IsStaff:   user.IsStaff,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// VerifyToken validates a token and rejects revoked ones and tokens of
// deleted users.
func (s *Service) VerifyToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ValidateToken(s.JWTSecret, token)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	revoked, err := store.IsTokenRevoked(ctx, s.DB, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperr.Unauthenticated("token has been revoked")
	}
	user, err := store.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.DeletedAt != nil {
		return nil, apperr.Unauthenticated("account no longer exists")
	}
	// Staff status may have changed since the token was issued.
	claims.IsStaff = user.IsStaff
	return claims, nil
}

// Logout revokes the token described by claims.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if _, err := store.RevokeToken(ctx, s.DB, claims.ID, claims.UserID, s.now()); err != nil {
		return err
	}
	slog.Info("user logged out", "user", claims.Username)
	return nil
}

// ChangePassword replaces actor's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, actor model.Actor, current, next string) error {
	if !actor.Authenticated() {
		return apperr.Unauthenticated("login required")
	}
	if current == "" || next == "" {
		return apperr.Validation("current and new password required", map[string]string{
			"current_password": "required",
			"new_password":     "required",
		})
	}
	if err := model.ValidatePassword(next); err != nil {
		return apperr.FieldError("new_password", err.Error())
	}

	user, err := store.GetUser(ctx, s.DB, actor.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.Unauthenticated("account no longer exists")
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperr.FieldError("current_password", "current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	if err := store.UpdateUserPassword(ctx, s.DB, actor.UserID, hash); err != nil {
		return err
	}

	slog.Info("user changed own password", "user", actor.Username)
	return nil
}

// Profile returns actor's account with activity counters.
func (s *Service) Profile(ctx context.Context, actor model.Actor) (*Profile, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	user, err := store.GetUser(ctx, s.DB, actor.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	stats, err := store.GetOwnerStats(ctx, s.DB, user.ID)
	if err != nil {
		return nil, err
	}
	received, err := store.CountReceivedContacts(ctx, s.DB, user.ID)
	if err != nil {
		return nil, err
	}
	return &Profile{
		User:             user,
		Name:             user.DisplayName(),
		ItemsPosted:      stats.Total,
		ContactsReceived: received,
	}, nil
}

// UpdateProfile changes actor's names and email.
func (s *Service) UpdateProfile(ctx context.Context, actor model.Actor, in ProfileInput) (*Profile, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	in.Email = strings.TrimSpace(in.Email)
	in.FirstName = s.plain(in.FirstName)
	in.LastName = s.plain(in.LastName)
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	taken, err := store.EmailInUse(ctx, s.DB, in.Email, actor.UserID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("email", "email already registered")
	}

	err = store.UpdateUserProfile(ctx, s.DB, &model.User{
		ID:        actor.UserID,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, actor)
}

// Tokens lists actor's unexpired tokens.
func (s *Service) Tokens(ctx context.Context, actor model.Actor) ([]store.IssuedToken, error) {
	if !actor.Authenticated() {
		return nil, apperr.Unauthenticated("login required")
	}
	tokens, err := store.ListTokens(ctx, s.DB, actor.UserID)
	if err != nil {
		return nil, err
	}
	return nonNil(tokens), nil
}

// RevokeToken revokes one of actor's tokens.
func (s *Service) RevokeToken(ctx context.Context, actor model.Actor, jti string) error {
	if !actor.Authenticated() {
		return apperr.Unauthenticated("login required")
	}
	ok, err := store.RevokeToken(ctx, s.DB, jti, actor.UserID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NotFound("token not found")
	}
	slog.Info("token revoked", "user", actor.Username, "jti", jti)
	return nil
}

// RevokeOtherTokens revokes all of actor's tokens except keepJTI.
func (s *Service) RevokeOtherTokens(ctx context.Context, actor model.Actor, keepJTI string) (int64, error) {
	if !actor.Authenticated() {
		return 0, apperr.Unauthenticated("login required")
	}
	n, err := store.RevokeAllTokens(ctx, s.DB, actor.UserID, keepJTI, s.now())
	if err != nil {
		return 0, err
	}
	slog.Info("tokens revoked", "user", actor.Username, "count", n)
	return n, nil
}

// CreateStaffUser creates a staff account with the given password. It is
// used to bootstrap a new database.
func (s *Service) CreateStaffUser(ctx context.Context, username, password string) (*model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return store.CreateUser(ctx, s.DB, &model.User{
		Username:     username,
		PasswordHash: hash,
		IsStaff:      true,
	})
}
