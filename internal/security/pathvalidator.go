package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscapes = errors.New("path escapes vault directory")
	ErrEmptyPath   = errors.New("empty path not allowed")
)

// PathValidator confines keystore export writes to the vault's directory
// using Go 1.24's os.Root API. Exported envelopes are ciphertext, but a
// crafted destination must still not be able to clobber files elsewhere.
type PathValidator struct {
	root     *os.Root
	rootPath string
}

// New creates a PathValidator rooted at the vault's directory.
func New(rootPath string) (*PathValidator, error) {
	absPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	root, err := os.OpenRoot(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault directory: %w", err)
	}

	return &PathValidator{
		root:     root,
		rootPath: absPath,
	}, nil
}

// Close releases resources held by the PathValidator
func (pv *PathValidator) Close() error {
	if pv.root != nil {
		return pv.root.Close()
	}
	return nil
}

// ValidateAndNormalize validates a user-provided destination and returns
// a normalized relative path suitable for storage in the index. Absolute
// paths are accepted when they resolve inside the root; everything that
// escapes the root (using .. or otherwise) is rejected.
func (pv *PathValidator) ValidateAndNormalize(userPath string) (string, error) {
	if userPath == "" {
		return "", ErrEmptyPath
	}

	path := userPath
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(pv.rootPath, path)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
		}
		path = rel
	}

	// filepath.IsLocal rejects escaping paths, reserved names, etc.
	if !filepath.IsLocal(path) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	cleanPath := filepath.Clean(path)
	if !filepath.IsLocal(cleanPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	// Containment double-check via filepath.Rel
	relPath, err := filepath.Rel(pv.rootPath, filepath.Join(pv.rootPath, cleanPath))
	if err != nil {
		return "", fmt.Errorf("failed to compute relative path: %w", err)
	}
	if strings.HasPrefix(relPath, "..") || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %s", ErrPathEscapes, userPath)
	}

	// Forward slashes for storage (platform-independent)
	return filepath.ToSlash(relPath), nil
}

// WriteFileInRoot validates path and writes data through os.Root, so the
// write cannot land outside the vault directory even through symlinks.
// Parent directories are created as needed.
func (pv *PathValidator) WriteFileInRoot(path string, data []byte, perm os.FileMode) error {
	normalized, err := pv.ValidateAndNormalize(path)
	if err != nil {
		return err
	}
	platformPath := filepath.FromSlash(normalized)

	if dir := filepath.Dir(platformPath); dir != "." {
		if err := pv.root.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	return pv.root.WriteFile(platformPath, data, perm)
}
