package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/illarion/keyvault/internal/keystore"
)

func testKey(t *testing.T, hexStr string) *keystore.ExtendedPrivateKey {
	t.Helper()
	key, err := keystore.ParseExtendedPrivateKey(hexStr)
	if err != nil {
		t.Fatalf("ParseExtendedPrivateKey failed: %v", err)
	}
	return key
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	vault := New(dir)

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Init again (should fail)
	if err := vault.Init(); err != ErrAlreadyExists {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	// Check file exists
	if _, err := os.Stat(filepath.Join(dir, VaultFile)); err != nil {
		t.Errorf("Vault file should exist: %v", err)
	}

	// Vault id assigned at init
	id, err := vault.GetVaultID()
	if err != nil {
		t.Fatalf("GetVaultID failed: %v", err)
	}
	if id == "" {
		t.Error("Vault id should not be empty")
	}
}

func TestNotInitialized(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()

	if _, err := vault.List(ctx); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if _, err := vault.Reveal(ctx, "any", []byte("pw")); err != ErrNotInitialized {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestImportRevealRoundTrip(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()
	password := []byte("test123")
	keyHex := strings.Repeat("ab", 64)

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	ks, err := vault.Import(ctx, "primary", testKey(t, keyHex), password)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if ks.Version != 3 {
		t.Errorf("Stored keystore version mismatch: got %d", ks.Version)
	}

	// Listed without a password
	entries, err := vault.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "primary" {
		t.Fatalf("Expected one entry named primary, got %+v", entries)
	}
	if entries[0].ID != ks.ID {
		t.Errorf("Index id mismatch: got %s, want %s", entries[0].ID, ks.ID)
	}

	key, err := vault.Reveal(ctx, "primary", password)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if key.Serialize() != keyHex {
		t.Errorf("Revealed key mismatch: got %s", key.Serialize())
	}
}

func TestWrongPassword(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vault.Import(ctx, "primary", testKey(t, strings.Repeat("cd", 32)), []byte("right")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if _, err := vault.Reveal(ctx, "primary", []byte("wrong")); err != keystore.ErrIncorrectPassword {
		t.Errorf("Expected ErrIncorrectPassword, got %v", err)
	}

	ok, err := vault.Check(ctx, "primary", []byte("wrong"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if ok {
		t.Error("Check should reject the wrong password")
	}

	ok, err = vault.Check(ctx, "primary", []byte("right"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !ok {
		t.Error("Check should accept the correct password")
	}
}

func TestDuplicateName(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()
	password := []byte("pw")

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vault.Import(ctx, "primary", testKey(t, "0011"), password); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if _, err := vault.Import(ctx, "primary", testKey(t, "2233"), password); err != ErrKeystoreExists {
		t.Errorf("Expected ErrKeystoreExists, got %v", err)
	}
}

func TestInvalidName(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, name := range []string{"", "a/b", `a\b`} {
		if _, err := vault.Import(ctx, name, testKey(t, "0011"), []byte("pw")); err == nil {
			t.Errorf("Import should reject name %q", name)
		}
	}
}

func TestRemove(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()
	password := []byte("pw")

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vault.Import(ctx, "first", testKey(t, "0011"), password); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if _, err := vault.Import(ctx, "second", testKey(t, "2233"), password); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	removed, err := vault.Remove(ctx, []string{"first", "absent"})
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}

	entries, err := vault.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "second" {
		t.Errorf("Expected only second to remain, got %+v", entries)
	}

	if _, err := vault.Reveal(ctx, "first", password); err != ErrKeystoreNotFound {
		t.Errorf("Expected ErrKeystoreNotFound, got %v", err)
	}
}

func TestImportKeystore(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()
	password := []byte("foreign pw")
	keyHex := strings.Repeat("ef", 48)

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	// Envelope built outside the vault
	ks, err := keystore.Create(testKey(t, keyHex), password, nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	raw, err := ks.Serialize()
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if _, err := vault.ImportKeystore(ctx, "adopted", raw); err != nil {
		t.Fatalf("ImportKeystore failed: %v", err)
	}

	key, err := vault.Reveal(ctx, "adopted", password)
	if err != nil {
		t.Fatalf("Reveal failed: %v", err)
	}
	if key.Serialize() != keyHex {
		t.Errorf("Revealed key mismatch: got %s", key.Serialize())
	}

	// Junk must be rejected before anything is stored
	if _, err := vault.ImportKeystore(ctx, "junk", []byte("{not json")); err != keystore.ErrInvalidKeystore {
		t.Errorf("Expected ErrInvalidKeystore, got %v", err)
	}
	if _, err := vault.ImportKeystore(ctx, "junk", []byte("{}")); err != keystore.ErrInvalidKeystore {
		t.Errorf("Expected ErrInvalidKeystore, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()
	oldPassword := []byte("oldpass")
	newPassword := []byte("newpass")
	keyHex := strings.Repeat("aa", 64)

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	before, err := vault.Import(ctx, "primary", testKey(t, keyHex), oldPassword)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	// Wrong current password must not rewrite anything
	if err := vault.ChangePassword(ctx, "primary", []byte("bogus"), newPassword); err != keystore.ErrIncorrectPassword {
		t.Errorf("Expected ErrIncorrectPassword, got %v", err)
	}

	if err := vault.ChangePassword(ctx, "primary", oldPassword, newPassword); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := vault.Reveal(ctx, "primary", oldPassword); err != keystore.ErrIncorrectPassword {
		t.Errorf("Expected ErrIncorrectPassword with old password, got %v", err)
	}

	key, err := vault.Reveal(ctx, "primary", newPassword)
	if err != nil {
		t.Fatalf("Reveal with new password failed: %v", err)
	}
	if key.Serialize() != keyHex {
		t.Errorf("Key mismatch after password change: got %s", key.Serialize())
	}

	// Fresh salt/iv mean a fresh envelope id in the index
	entries, err := vault.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if entries[0].ID == before.ID {
		t.Error("ChangePassword should rotate the envelope id")
	}
}

func TestExportRecordsPath(t *testing.T) {
	dir := t.TempDir()
	vault := New(dir)
	ctx := context.Background()
	password := []byte("pw")

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vault.Import(ctx, "primary", testKey(t, strings.Repeat("bb", 32)), password); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	dest := filepath.Join(dir, "primary.json")
	if err := vault.Export(ctx, "primary", dest); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Failed to read exported file: %v", err)
	}
	ks, err := keystore.Parse(data)
	if err != nil {
		t.Fatalf("Exported file is not a valid keystore: %v", err)
	}
	if !ks.CheckPassword(password) {
		t.Error("Exported keystore should open with the original password")
	}

	// Recorded as the normalized relative path
	entries, err := vault.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries[0].Exports) != 1 || entries[0].Exports[0] != "primary.json" {
		t.Errorf("Export path not recorded: got %v", entries[0].Exports)
	}

	// Exporting twice to the same path records it once
	if err := vault.Export(ctx, "primary", dest); err != nil {
		t.Fatalf("Second export failed: %v", err)
	}
	entries, _ = vault.List(ctx)
	if len(entries[0].Exports) != 1 {
		t.Errorf("Expected one recorded export, got %v", entries[0].Exports)
	}

	if err := vault.Export(ctx, "absent", dest); err != ErrKeystoreNotFound {
		t.Errorf("Expected ErrKeystoreNotFound, got %v", err)
	}

	// Destinations outside the vault directory are refused
	if err := vault.Export(ctx, "primary", "../escape.json"); err == nil {
		t.Error("Export should refuse a destination outside the vault directory")
	}
}

func TestStatus(t *testing.T) {
	vault := New(t.TempDir())
	ctx := context.Background()

	if err := vault.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := vault.Import(ctx, "primary", testKey(t, "00ff"), []byte("pw")); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	status, err := vault.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Count != 1 {
		t.Errorf("Expected count 1, got %d", status.Count)
	}
	if status.VaultID == "" {
		t.Error("Status should report the vault id")
	}
	if status.LastModified.IsZero() {
		t.Error("Status should report a modification time")
	}
}
