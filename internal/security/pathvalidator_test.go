package security

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPathValidator_ValidateAndNormalize(t *testing.T) {
	tmpDir := t.TempDir()

	validator, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	tests := []struct {
		name      string
		input     string
		want      string
		shouldErr bool
		errType   error
	}{
		// Valid destinations
		{"simple file", "backup.json", "backup.json", false, nil},
		{"file in subdirectory", "exports/backup.json", "exports/backup.json", false, nil},
		{"hidden file", ".backup.json", ".backup.json", false, nil},
		{"dot slash", "./backup.json", "backup.json", false, nil},
		{"dot segments", "a/./b/backup.json", "a/b/backup.json", false, nil},

		// Absolute path inside the root normalizes to relative
		{"absolute inside root", filepath.Join(tmpDir, "backup.json"), "backup.json", false, nil},

		// Escapes
		{"parent directory", "../backup.json", "", true, ErrPathEscapes},
		{"nested parent", "a/../../backup.json", "", true, ErrPathEscapes},
		{"multiple parents", "../../etc/passwd", "", true, ErrPathEscapes},
		{"absolute outside root", "/etc/passwd", "", true, ErrPathEscapes},
		{"absolute sibling", filepath.Join(filepath.Dir(tmpDir), "other", "x.json"), "", true, ErrPathEscapes},

		// Empty path
		{"empty path", "", "", true, ErrEmptyPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validator.ValidateAndNormalize(tt.input)
			if tt.shouldErr {
				if err == nil {
					t.Fatalf("Expected error for %q, got %q", tt.input, got)
				}
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("Expected %v, got %v", tt.errType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalized %q: got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPathValidator_WriteFileInRoot(t *testing.T) {
	tmpDir := t.TempDir()

	validator, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create validator: %v", err)
	}
	defer validator.Close()

	if err := validator.WriteFileInRoot("exports/backup.json", []byte("{}"), 0600); err != nil {
		t.Fatalf("WriteFileInRoot failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "exports", "backup.json"))
	if err != nil {
		t.Fatalf("Failed to read written file: %v", err)
	}
	if string(data) != "{}" {
		t.Errorf("Unexpected content: %q", data)
	}

	// Escaping write must be refused
	if err := validator.WriteFileInRoot("../escape.json", []byte("{}"), 0600); !errors.Is(err, ErrPathEscapes) {
		t.Errorf("Expected ErrPathEscapes, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(tmpDir), "escape.json")); err == nil {
		t.Error("Escaping file should not exist")
	}
}
