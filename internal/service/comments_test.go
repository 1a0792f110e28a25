package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uft-palmas/achados/internal/apperr"
	"github.com/uft-palmas/achados/internal/model"
)

func TestCommentsLifecycle(t *testing.T) {
	svc, clock := newTestService(t)
	ctx := context.Background()
	owner := newActor(t, svc, "owner", false)
	author := newActor(t, svc, "author", false)
	other := newActor(t, svc, "other", false)
	staff := newActor(t, svc, "staff", true)
	item := mustCreate(t, svc, owner, validItem("Jaqueta Jeans"))

	_, err := svc.AddComment(ctx, author, item.ID, CommentInput{Body: "  curto  "})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "body under 10 chars after trim")

	_, err = svc.AddComment(ctx, model.Actor{}, item.ID, CommentInput{Body: "comentário anônimo"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	first, err := svc.AddComment(ctx, author, item.ID, CommentInput{Body: "Vi uma igual no RU ontem"})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := svc.AddComment(ctx, owner, item.ID, CommentInput{Body: "Obrigado, vou passar lá"})
	require.NoError(t, err)

	comments, err := svc.ListComments(ctx, model.Actor{}, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)

	err = svc.DeleteComment(ctx, other, first.ID)
	assert.True(t, apperr.Is(err, apperr.KindAuthorization))
	require.NoError(t, svc.DeleteComment(ctx, author, first.ID))
	require.NoError(t, svc.DeleteComment(ctx, staff, second.ID))

	err = svc.DeleteComment(ctx, author, first.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
