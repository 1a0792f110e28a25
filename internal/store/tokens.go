package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// IssuedToken is a login token recorded at issue time.
type IssuedToken struct {
	JTI       string     `json:"jti"`
	UserID    int64      `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// Revoked reports whether the token was revoked.
func (t *IssuedToken) Revoked() bool { return t.RevokedAt != nil }

// RecordToken stores a newly issued token and prunes expired ones.
func RecordToken(ctx context.Context, db *sql.DB, jti string, userID int64, createdAt, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO issued_tokens (jti, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`,
		jti, userID, createdAt, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("recording token: %w", err)
	}

	// Opportunistically clean up expired tokens.
	_, _ = db.ExecContext(ctx,
		`DELETE FROM issued_tokens WHERE expires_at < ?`, time.Now().UTC(),
	)

	return nil
}

// RevokeToken revokes one of userID's tokens. It reports false if the token
// does not exist or belongs to someone else.
func RevokeToken(ctx context.Context, db *sql.DB, jti string, userID int64, at time.Time) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issued_tokens WHERE jti = ? AND user_id = ?`, jti, userID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("looking up token: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	_, err = db.ExecContext(ctx,
		`UPDATE issued_tokens SET revoked_at = ? WHERE jti = ? AND revoked_at IS NULL`, at, jti,
	)
	if err != nil {
		return false, fmt.Errorf("revoking token: %w", err)
	}
	return true, nil
}

// RevokeAllTokens revokes every live token of userID except keepJTI and
// returns how many were revoked.
func RevokeAllTokens(ctx context.Context, db *sql.DB, userID int64, keepJTI string, at time.Time) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE issued_tokens SET revoked_at = ?
		 WHERE user_id = ? AND jti <> ? AND revoked_at IS NULL`,
		at, userID, keepJTI,
	)
	if err != nil {
		return 0, fmt.Errorf("revoking tokens: %w", err)
	}
	return result.RowsAffected()
}

// IsTokenRevoked checks if a token's JTI has been revoked.
func IsTokenRevoked(ctx context.Context, db *sql.DB, jti string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM issued_tokens WHERE jti = ? AND revoked_at IS NOT NULL`, jti,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking token revocation: %w", err)
	}
	return count > 0, nil
}

// ListTokens returns userID's unexpired tokens, newest first.
func ListTokens(ctx context.Context, db *sql.DB, userID int64) ([]IssuedToken, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT jti, user_id, created_at, expires_at, revoked_at FROM issued_tokens
		 WHERE user_id = ? AND expires_at >= ? ORDER BY created_at DESC`,
		userID, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing tokens: %w", err)
	}
	defer rows.Close()

	var tokens []IssuedToken
	for rows.Next() {
		var t IssuedToken
		if err := rows.Scan(&t.JTI, &t.UserID, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt); err != nil {
			return nil, fmt.Errorf("scanning token: %w", err)
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
