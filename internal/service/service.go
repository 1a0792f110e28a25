// Package service implements the lost-and-found operations on top of the
// store: item lifecycle, ownership checks, listing filters, comments,
// contacts and accounts. HTTP handlers in api and web are thin wrappers.
package service

import (
	"database/sql"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/uft-palmas/achados/internal/auth"
)

// Service holds the dependencies shared by every operation.
type Service struct {
	DB        *sql.DB
	JWTSecret string
	TokenTTL  time.Duration

	// Now returns the current time. Tests replace it.
	Now func() time.Time

	strip *bluemonday.Policy
}

// New creates a Service over db.
func New(db *sql.DB, jwtSecret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &Service{
		DB:        db,
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		Now:       time.Now,
		strip:     bluemonday.StrictPolicy(),
	}
}

func (s *Service) now() time.Time {
	return s.Now().UTC()
}

// plain removes any markup from user text and trims it.
func (s *Service) plain(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.strip.Sanitize(text)))
}

// titleCase normalises an item title: markup removed, inner whitespace
// collapsed, each word capitalised.
func (s *Service) titleCase(text string) string {
	// A Caser keeps state, so each call gets its own.
	caser := cases.Title(language.BrazilianPortuguese)
	return caser.String(strings.Join(strings.Fields(s.plain(text)), " "))
}
