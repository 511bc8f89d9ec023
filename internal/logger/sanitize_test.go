package logger

import (
	"strings"
	"testing"

	"github.com/benvon/healthcheck-api/internal/cors"
)

func TestSanitizeString(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"empty", "", 10, ""},
		{"plain", "/api/v1/health", 100, "/api/v1/health"},
		{"control chars stripped", "/health\n\x1b[31mforged", 100, "/health[31mforged"},
		{"truncated", "abcdefghij", 4, "abcd..."},
		{"invalid utf8", "ok\xffok", 100, "okok"},
		{"default max", strings.Repeat("a", MaxGeneralStringLength+1), 0, strings.Repeat("a", MaxGeneralStringLength) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeString(tt.in, tt.max); got != tt.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()
	for _, env := range []cors.Environment{cors.Development, cors.Production, "preview"} {
		l, err := New(env, true)
		if err != nil {
			t.Fatalf("New(%s) error = %v", env, err)
		}
		if !l.Core().Enabled(-1) {
			t.Errorf("New(%s, debug) should enable debug level", env)
		}
		_ = Sync(l)
	}
	if err := Sync(nil); err != nil {
		t.Errorf("Sync(nil) = %v", err)
	}
}
