package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []interface{}
	}{
		{"empty", nil, nil},
		{"plain", []interface{}{"screen", "quiz"}, []interface{}{"screen", "quiz"}},
		{"email redacted", []interface{}{"user_email", "ana.perez@gmail.com"}, []interface{}{"user_email", "[REDACTED]"}},
		{"api key redacted", []interface{}{"API_KEY", "sk-123"}, []interface{}{"API_KEY", "[REDACTED]"}},
		{"dangling key kept", []interface{}{"a", 1, "b"}, []interface{}{"a", 1, "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeKVs(tt.in))
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "codiz.log")
	l, err := New("dev", path)
	require.NoError(t, err)

	l.Info("gate opened", "screen", "quiz", "email", "x@y.z")
	l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gate opened")
	assert.Contains(t, string(data), "[REDACTED]")
	assert.NotContains(t, string(data), "x@y.z")
}

func TestNopAndOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := Nop()
	assert.Same(t, l, OrNop(l))
	l.With("k", "v").Debug("discarded")
}
