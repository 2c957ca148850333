package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsCredentialKeys(t *testing.T) {
	got := sanitizeKVs([]interface{}{"store_id", "s1", "db_password", "hunter2", "session_token", "abc"})

	assert.Equal(t, []interface{}{"store_id", "s1", "db_password", "[REDACTED]", "session_token", "[REDACTED]"}, got)
}

func TestSanitizeKVsKeepsDanglingKey(t *testing.T) {
	got := sanitizeKVs([]interface{}{"a", 1, "orphan"})

	assert.Equal(t, []interface{}{"a", 1, "orphan"}, got)
}
