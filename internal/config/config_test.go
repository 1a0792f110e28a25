package config

import (
	"bytes"
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "achados.sqlite3", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "admin", cfg.AdminUser)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.SecureCookies)
}

func TestLoadEnvironmentAndFlags(t *testing.T) {
	t.Setenv("ACHADOS_DB", "/tmp/env.sqlite3")
	t.Setenv("ACHADOS_ADDR", ":9000")
	t.Setenv("ACHADOS_TOKEN_TTL", "2h")
	t.Setenv("ACHADOS_SECURE_COOKIES", "true")

	cfg, err := Load([]string{"-a", ":9999", "-log-format", "json"}, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.sqlite3", cfg.DBPath)
	assert.Equal(t, ":9999", cfg.Addr, "flag overrides environment")
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.SecureCookies)
}

func TestLoadRejectsExtraArguments(t *testing.T) {
	_, err := Load([]string{"serve"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument")
}

func TestLoadHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := Load([]string{"-h"}, &out)
	require.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, out.String(), "Usage: achados")
}

func TestValidate(t *testing.T) {
	valid := Config{DBPath: "x.db", AdminUser: "admin", LogLevel: "info", LogFormat: "text", TokenTTL: time.Hour}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.LogFormat = "xml"
	bad.LogLevel = "loud"
	bad.TokenTTL = 0
	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown log format "xml"`)
	assert.Contains(t, err.Error(), `unknown log level "loud"`)
	assert.Contains(t, err.Error(), "token ttl must be positive")
}
