package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SecureJoin joins root and userPath, ensuring the result stays within
// root. An empty userPath yields root. Absolute user paths are made
// relative to root. The check is lexical; symlinks are not followed.
func SecureJoin(root, userPath string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: root required", ErrInvalidArgument)
	}
	cleanRoot := filepath.Clean(root)
	if strings.TrimSpace(userPath) == "" {
		return cleanRoot, nil
	}
	up := filepath.Clean(userPath)
	if filepath.IsAbs(up) {
		up = strings.TrimPrefix(up, string(filepath.Separator))
	}
	candidate := filepath.Join(cleanRoot, up)
	rel, err := filepath.Rel(cleanRoot, candidate)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, userPath)
	}
	return candidate, nil
}

// within reports whether p is base or below it.
func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func statDir(p, userPath string) error {
	info, err := os.Stat(p)
	if err != nil {
		return notFound(err, userPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %q", ErrNotDir, userPath)
	}
	return nil
}

func notFound(err error, userPath string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, userPath)
	}
	return err
}
