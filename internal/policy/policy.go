// Package policy holds the ownership and staff rules that gate item,
// comment and contact operations.
package policy

import "github.com/uft-palmas/achados/internal/model"

// CanModify reports whether actor may edit, delete or resolve item.
func CanModify(item *model.Item, actor model.Actor) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.IsStaff || item.OwnedBy(actor.UserID)
}

// CanViewContacts reports whether actor may read an item's contacts and
// mark them viewed. Staff get no exemption.
func CanViewContacts(item *model.Item, actor model.Actor) bool {
	return item.OwnedBy(actor.UserID)
}

// CanParticipate reports whether actor may comment on items and contact
// their owners.
func CanParticipate(actor model.Actor) bool {
	return actor.Authenticated()
}

// CanDeleteComment reports whether actor may remove comment.
func CanDeleteComment(comment *model.Comment, actor model.Actor) bool {
	if !actor.Authenticated() {
		return false
	}
	return actor.IsStaff || comment.AuthorID == actor.UserID
}

// CanModerate reports whether actor may use the back-office panel.
func CanModerate(actor model.Actor) bool {
	return actor.Authenticated() && actor.IsStaff
}
