package files

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestSecureJoin(t *testing.T) {
	root := filepath.FromSlash("/srv/data")
	tests := []struct {
		user string
		want string
		err  error
	}{
		{"", "/srv/data", nil},
		{"reports", "/srv/data/reports", nil},
		{"a/../b", "/srv/data/b", nil},
		{"/etc/passwd", "/srv/data/etc/passwd", nil},
		{"..", "", ErrOutsideRoot},
		{"../secrets", "", ErrOutsideRoot},
		{"a/../../x", "", ErrOutsideRoot},
	}
	for _, tt := range tests {
		got, err := SecureJoin(root, tt.user)
		if tt.err != nil {
			if !errors.Is(err, tt.err) {
				t.Errorf("SecureJoin(%q) error = %v, want %v", tt.user, err, tt.err)
			}
			continue
		}
		if err != nil || got != filepath.FromSlash(tt.want) {
			t.Errorf("SecureJoin(%q) = %q, %v, want %q", tt.user, got, err, tt.want)
		}
	}

	if _, err := SecureJoin(" ", "x"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("SecureJoin(empty root) error = %v", err)
	}
}

func TestWithin(t *testing.T) {
	base := filepath.FromSlash("/a/b")
	if !within(base, base) || !within(base, filepath.FromSlash("/a/b/c")) {
		t.Error("within should accept base and descendants")
	}
	if within(base, filepath.FromSlash("/a/bc")) || within(base, filepath.FromSlash("/a")) {
		t.Error("within should reject siblings and parents")
	}
}
