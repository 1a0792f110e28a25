package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uft-palmas/achados/internal/model"
)

func TestCanModify(t *testing.T) {
	item := &model.Item{ID: 1, OwnerID: 10}

	tests := []struct {
		name  string
		actor model.Actor
		want  bool
	}{
		{"owner", model.Actor{UserID: 10}, true},
		{"staff", model.Actor{UserID: 20, IsStaff: true}, true},
		{"other user", model.Actor{UserID: 20}, false},
		{"anonymous", model.Actor{}, false},
		{"anonymous staff flag", model.Actor{IsStaff: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanModify(item, tt.actor))
		})
	}
}

func TestCanViewContacts(t *testing.T) {
	item := &model.Item{ID: 1, OwnerID: 10}

	assert.True(t, CanViewContacts(item, model.Actor{UserID: 10}))
	assert.False(t, CanViewContacts(item, model.Actor{UserID: 20, IsStaff: true}), "staff is not the owner")
	assert.False(t, CanViewContacts(item, model.Actor{}))
}

func TestCanParticipate(t *testing.T) {
	assert.True(t, CanParticipate(model.Actor{UserID: 3}))
	assert.False(t, CanParticipate(model.Actor{}))
}

func TestCanDeleteComment(t *testing.T) {
	c := &model.Comment{ID: 1, AuthorID: 5}

	assert.True(t, CanDeleteComment(c, model.Actor{UserID: 5}))
	assert.True(t, CanDeleteComment(c, model.Actor{UserID: 9, IsStaff: true}))
	assert.False(t, CanDeleteComment(c, model.Actor{UserID: 9}))
}

func TestCanModerate(t *testing.T) {
	assert.True(t, CanModerate(model.Actor{UserID: 1, IsStaff: true}))
	assert.False(t, CanModerate(model.Actor{UserID: 1}))
}
