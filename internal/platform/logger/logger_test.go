package logger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"user_id", "6f1c5d3e-1111-2222-3333-444455556666",
		"section", "warmup",
		"dangling",
	})

	assert.Equal(t, "[REDACTED]", out[1])
	assert.True(t, strings.HasPrefix(out[3].(string), "hash:"))
	assert.Equal(t, "warmup", out[5])
	assert.Equal(t, "dangling", out[6])
}

func TestSanitizeValueJWTLikeString(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.sig"
	assert.Equal(t, "[REDACTED]", sanitizeValue("note", jwtish))
	assert.Equal(t, "plain", sanitizeValue("note", "plain"))
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "test", "development"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.With("component", "test").Debug("hello")
	}
}
