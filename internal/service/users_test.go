package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/store"
)

func register(t *testing.T, svc *Service, username string) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           username + "@uft.edu.br",
		FirstName:       "Joana",
		LastName:        "Silva",
		Password:        "senha-forte",
		PasswordConfirm: "senha-forte",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := register(t, svc, "joana")
	assert.False(t, u.IsStaff)

	session, err := svc.Login(ctx, "joana", "senha-forte")
	require.NoError(t, err)
	assert.Equal(t, u.ID, session.UserID)
	assert.Equal(t, "Joana Silva", session.Name)
	assert.NotEmpty(t, session.Token)

	claims, err := svc.VerifyToken(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = svc.Login(ctx, "joana", "errada")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = svc.Login(ctx, "ninguem", "senha-forte")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, "joana")

	_, err := svc.Register(ctx, RegisterInput{
		Username: "joana", Email: "outra@uft.edu.br", Password: "senha-forte", PasswordConfirm: "senha-forte",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Register(ctx, RegisterInput{
		Username: "maria", Email: "JOANA@uft.edu.br", Password: "senha-forte", PasswordConfirm: "senha-forte",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.Register(ctx, RegisterInput{
		Username: "maria souza", Email: "x", Password: "curta", PasswordConfirm: "outra",
	})
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	for _, field := range []string{"username", "email", "password", "password_confirm"} {
		assert.Contains(t, appErr.Fields, field)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, "joana")

	session, err := svc.Login(ctx, "joana", "senha-forte")
	require.NoError(t, err)
	claims, err := svc.VerifyToken(ctx, session.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.VerifyToken(ctx, session.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestRevokeOtherTokens(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u := register(t, svc, "joana")
	actor := model.Actor{UserID: u.ID, Username: u.Username}

	keep, err := svc.Login(ctx, "joana", "senha-forte")
	require.NoError(t, err)
	drop, err := svc.Login(ctx, "joana", "senha-forte")
	require.NoError(t, err)

	keepClaims, err := svc.VerifyToken(ctx, keep.Token)
	require.NoError(t, err)

	n, err := svc.RevokeOtherTokens(ctx, actor, keepClaims.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = svc.VerifyToken(ctx, keep.Token)
	assert.NoError(t, err)
	_, err = svc.VerifyToken(ctx, drop.Token)
	assert.Error(t, err)

	tokens, err := svc.Tokens(ctx, actor)
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	err = svc.RevokeToken(ctx, actor, "does-not-exist")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	require.NoError(t, svc.RevokeToken(ctx, actor, keepClaims.ID))
}

func TestVerifyTokenRejectsDeletedUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u := register(t, svc, "joana")

	session, err := svc.Login(ctx, "joana", "senha-forte")
	require.NoError(t, err)
	require.NoError(t, store.DeleteUser(ctx, svc.DB, u.ID))

	_, err = svc.VerifyToken(ctx, session.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u := register(t, svc, "joana")
	actor := model.Actor{UserID: u.ID, Username: u.Username}

	err := svc.ChangePassword(ctx, actor, "errada", "nova-senha-123")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	err = svc.ChangePassword(ctx, actor, "senha-forte", "curta")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, svc.ChangePassword(ctx, actor, "senha-forte", "nova-senha-123"))
	_, err = svc.Login(ctx, "joana", "nova-senha-123")
	assert.NoError(t, err)
}

func TestProfile(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	u := register(t, svc, "joana")
	actor := model.Actor{UserID: u.ID, Username: u.Username}
	other := newActor(t, svc, "other", false)

	item := mustCreate(t, svc, actor, validItem("Agenda Vermelha"))
	_, err := svc.SendContact(ctx, other, item.ID, ContactInput{Message: "está comigo"})
	require.NoError(t, err)

	p, err := svc.Profile(ctx, actor)
	require.NoError(t, err)
	assert.Equal(t, "Joana Silva", p.Name)
	assert.Equal(t, 1, p.ItemsPosted)
	assert.Equal(t, 1, p.ContactsReceived)

	p, err = svc.UpdateProfile(ctx, actor, ProfileInput{Email: "joana.s@uft.edu.br", FirstName: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, "Jo", p.Name)
	assert.Equal(t, "joana.s@uft.edu.br", p.Email)

	_, err = svc.UpdateProfile(ctx, actor, ProfileInput{Email: "other@uft.edu.br"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}
