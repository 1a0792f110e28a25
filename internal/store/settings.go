package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
)

// Keys in the settings table.
const (
	SettingJWTSecret = "jwt_secret"
)

// GetSetting returns the value stored under key. ok is false when the key
// has never been set.
func GetSetting(ctx context.Context, db *sql.DB, key string) (value string, ok bool, err error) {
	err = db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, true, nil
}

// PutSetting stores value under key, replacing what was there.
func PutSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %s: %w", key, err)
	}
	return nil
}

// initSetting stores value under key only if the key is unset and returns
// whichever value ends up stored. Two processes starting against a fresh
// database agree on the first insert.
func initSetting(ctx context.Context, db *sql.DB, key, value string) (string, error) {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO NOTHING`,
		key, value,
	)
	if err != nil {
		return "", fmt.Errorf("initialising setting %s: %w", key, err)
	}
	stored, ok, err := GetSetting(ctx, db, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("setting %s vanished after insert", key)
	}
	return stored, nil
}

// GetJWTSecret returns the token signing secret, creating a random one the
// first time it is asked for.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	return initSetting(ctx, db, SettingJWTSecret, hex.EncodeToString(buf))
}

// SetJWTSecret stores an explicitly configured token signing secret.
func SetJWTSecret(ctx context.Context, db *sql.DB, secret string) error {
	return PutSetting(ctx, db, SettingJWTSecret, secret)
}
