package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/illarion/keyvault/internal/keystore"
)

func writeKeystoreFile(t *testing.T, dir, name string, ks *keystore.Keystore) string {
	t.Helper()
	raw, err := ks.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, raw, 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestCompareKeystoreFiles(t *testing.T) {
	dir := t.TempDir()
	secret := testKey(t, strings.Repeat("ab", 32))
	opts := &keystore.Options{N: 256}

	first, err := keystore.Create(secret, []byte("pw"), opts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := keystore.Create(secret, []byte("pw"), opts)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	pathA := writeKeystoreFile(t, dir, "a.json", first)
	pathB := writeKeystoreFile(t, dir, "b.json", second)

	// Same file compares equal
	diff, err := CompareKeystoreFiles(pathA, pathA)
	if err != nil {
		t.Fatalf("CompareKeystoreFiles failed: %v", err)
	}
	if diff != "" {
		t.Errorf("Expected empty diff for identical files, got:\n%s", diff)
	}

	// Different salt/iv/id produce a diff with file headers
	diff, err = CompareKeystoreFiles(pathA, pathB)
	if err != nil {
		t.Fatalf("CompareKeystoreFiles failed: %v", err)
	}
	if diff == "" {
		t.Fatal("Expected non-empty diff for differing envelopes")
	}
	if !strings.Contains(diff, "--- a/"+pathA) || !strings.Contains(diff, "+++ b/"+pathB) {
		t.Errorf("Diff missing file headers:\n%s", diff)
	}
}

func TestCompareKeystoreFilesRejectsJunk(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.json")
	if err := os.WriteFile(junk, []byte("{not json"), 0600); err != nil {
		t.Fatalf("Failed to write junk file: %v", err)
	}

	if _, err := CompareKeystoreFiles(junk, junk); err == nil {
		t.Error("Expected error for invalid keystore file")
	}
	if _, err := CompareKeystoreFiles(filepath.Join(dir, "missing.json"), junk); err == nil {
		t.Error("Expected error for missing file")
	}
}
