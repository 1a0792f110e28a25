package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/uft-palmas/achados/internal/model"
)

var baseTime = time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

func mustUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func newItem(ownerID int64, title string, created time.Time) *model.Item {
	return &model.Item{
		Title:       title,
		Description: "Descrição com detalhes suficientes do objeto",
		Category:    "electronics",
		Type:        model.ItemTypeLost,
		Block:       "library",
		CreatedAt:   created,
		OccurredAt:  created,
		UpdatedAt:   created,
		OwnerID:     ownerID,
		Status:      model.ItemStatusActive,
	}
}

func mustItem(t *testing.T, database *sql.DB, it *model.Item) *model.Item {
	t.Helper()
	got, err := CreateItem(context.Background(), database, it)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return got
}

func titles(items []model.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Title
	}
	return out
}
