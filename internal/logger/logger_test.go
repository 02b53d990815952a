package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]interface{}{"dsn", "postgres://u:p@h/db", "table", "users", "password_hash", "x", "dangling"})
	assert.Equal(t, []interface{}{"dsn", "[REDACTED]", "table", "users", "password_hash", "[REDACTED]", "dangling"}, got)
}

func TestNew(t *testing.T) {
	log, err := New("development", "debug")
	require.NoError(t, err)
	log.Debug("hello", "k", "v")

	_, err = New("production", "loud")
	assert.Error(t, err)
}
