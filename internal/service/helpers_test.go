package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uft-palmas/achados/internal/db"
	"github.com/uft-palmas/achados/internal/model"
	"github.com/uft-palmas/achados/internal/store"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	svc := New(db.NewTestDB(t), "test-secret", time.Hour)
	svc.Now = clock.Now
	return svc, clock
}

func newActor(t *testing.T, svc *Service, username string, staff bool) model.Actor {
	t.Helper()
	u, err := store.CreateUser(context.Background(), svc.DB, &model.User{
		Username:     username,
		Email:        username + "@uft.edu.br",
		PasswordHash: "unused",
		IsStaff:      staff,
	})
	require.NoError(t, err)
	return model.Actor{UserID: u.ID, Username: u.Username, IsStaff: u.IsStaff}
}

func validItem(title string) ItemInput {
	return ItemInput{
		Title:       title,
		Description: "Perdido no corredor do bloco, capa azul",
		Category:    "electronics",
		Type:        model.ItemTypeLost,
		Block:       "block_1",
	}
}

func mustCreate(t *testing.T, svc *Service, actor model.Actor, in ItemInput) *model.Item {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), actor, in)
	require.NoError(t, err)
	return item
}
