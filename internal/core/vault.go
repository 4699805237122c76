package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/illarion/keyvault/internal/git"
	"github.com/illarion/keyvault/internal/keystore"
	"github.com/illarion/keyvault/internal/security"
	"github.com/illarion/keyvault/internal/storage"
)

const (
	VaultFile      = ".keyvault"
	FilePermSecure = 0600 // File: owner rw only
)

var (
	ErrNotInitialized   = errors.New("keyvault not initialized")
	ErrAlreadyExists    = errors.New("keyvault already exists")
	ErrKeystoreExists   = errors.New("keystore name already in use")
	ErrKeystoreNotFound = errors.New("keystore not found")
)

// Vault manages named keystore records in a .keyvault database.
// Each record protects itself: the vault stores envelopes as-is and never
// holds a master key.
type Vault struct {
	path string
}

// New creates a new Vault instance rooted at dir
func New(dir string) *Vault {
	return &Vault{path: filepath.Join(dir, VaultFile)}
}

// Path returns the vault database path
func (v *Vault) Path() string {
	return v.path
}

// Init creates a new .keyvault file
func (v *Vault) Init() error {
	if _, err := os.Stat(v.path); err == nil {
		return ErrAlreadyExists
	}

	db, err := storage.Open(v.path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Assign the vault id up front; it keys OS-keyring entries
	if _, err := db.GetOrCreateVaultID(); err != nil {
		return fmt.Errorf("failed to assign vault id: %w", err)
	}

	return nil
}

// open opens the vault database, failing if the vault does not exist
func (v *Vault) open() (*storage.Storage, error) {
	if _, err := os.Stat(v.path); err != nil {
		return nil, ErrNotInitialized
	}
	db, err := storage.Open(v.path)
	if err != nil {
		return nil, ErrNotInitialized
	}
	return db, nil
}

// validateName rejects names that cannot serve as record keys or keyring
// account components.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("keystore name is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("keystore name %q contains path separators", name)
	}
	return nil
}

// Import encrypts secret under password and stores it as a named keystore.
// The returned keystore is the stored envelope.
func (v *Vault) Import(ctx context.Context, name string, secret *keystore.ExtendedPrivateKey, password []byte) (*keystore.Keystore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	ks, err := keystore.Create(secret, password, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create keystore: %w", err)
	}

	if err := v.store(name, ks, nil); err != nil {
		return nil, err
	}
	return ks, nil
}

// ImportKeystore stores a keystore produced by another implementation.
// The envelope is validated for shape and stored byte-for-byte unchanged;
// no password is required (cryptographic checks happen on reveal).
func (v *Vault) ImportKeystore(ctx context.Context, name string, raw []byte) (*keystore.Keystore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	ks, err := keystore.Parse(raw)
	if err != nil {
		return nil, err
	}

	if err := v.storeRaw(name, ks, raw, nil); err != nil {
		return nil, err
	}
	return ks, nil
}

// Reveal decrypts the named keystore and returns the extended private key.
// The caller should Wipe the key after use.
func (v *Vault) Reveal(ctx context.Context, name string, password []byte) (*keystore.ExtendedPrivateKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ks, err := v.load(db, name)
	if err != nil {
		return nil, err
	}

	return ks.ExtendedPrivateKey(password)
}

// Check reports whether password opens the named keystore. The plaintext
// is never produced.
func (v *Vault) Check(ctx context.Context, name string, password []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	db, err := v.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	ks, err := v.load(db, name)
	if err != nil {
		return false, err
	}

	return ks.CheckPassword(password), nil
}

// Export writes the named keystore's JSON to destPath and records the
// export in the index so status can run git-hygiene checks on it.
// The destination is confined to the vault's directory; the recorded
// path is the normalized relative form.
func (v *Vault) Export(ctx context.Context, name, destPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := db.GetKeystore(name)
	if err != nil {
		return ErrKeystoreNotFound
	}

	validator, err := security.New(filepath.Dir(v.path))
	if err != nil {
		return err
	}
	defer validator.Close()

	normalized, err := validator.ValidateAndNormalize(destPath)
	if err != nil {
		return err
	}
	if err := validator.WriteFileInRoot(normalized, append(raw, '\n'), FilePermSecure); err != nil {
		return fmt.Errorf("failed to write %s: %w", normalized, err)
	}

	entry, err := db.GetIndexEntry(name)
	if err != nil || entry == nil {
		// Envelope exists without an index entry; nothing to record
		return nil
	}
	for _, p := range entry.Exports {
		if p == normalized {
			return nil
		}
	}
	entry.Exports = append(entry.Exports, normalized)
	if err := db.UpdateIndex(*entry); err != nil {
		return fmt.Errorf("failed to record export: %w", err)
	}
	return db.UpdateModified()
}

// Remove deletes named keystores from the vault. Returns how many were
// actually removed.
func (v *Vault) Remove(ctx context.Context, names []string) (int, error) {
	db, err := v.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	removed := 0
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return removed, err
		}

		entry, err := db.GetIndexEntry(name)
		if err != nil {
			return removed, fmt.Errorf("failed to read index: %w", err)
		}
		if entry == nil {
			fmt.Printf("warning: no keystore named %s\n", name)
			continue
		}

		if err := db.RemoveKeystore(name); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		if err := db.RemoveFromIndex(name); err != nil {
			return removed, fmt.Errorf("failed to remove %s from index: %w", name, err)
		}
		removed++
		fmt.Printf("removed: %s\n", name)
	}

	if removed > 0 {
		if err := db.UpdateModified(); err != nil {
			fmt.Printf("warning: failed to update modification time: %v\n", err)
		}
	}
	return removed, nil
}

// List returns the public index (no password required)
func (v *Vault) List(ctx context.Context) ([]storage.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return db.GetIndex()
}

// StatusInfo contains status information
type StatusInfo struct {
	VaultID      string
	LastModified time.Time
	Count        int
	Entries      []storage.IndexEntry
	GitStatus    *git.GitStatus
}

// Status returns the current vault state (no password required)
func (v *Vault) Status(ctx context.Context) (*StatusInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	db, err := v.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	status := &StatusInfo{}

	if id, err := db.GetVaultID(); err == nil {
		status.VaultID = id
	}
	if modified, err := db.GetModified(); err == nil {
		status.LastModified = modified
	}

	entries, err := db.GetIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	status.Entries = entries
	status.Count = len(entries)

	// Collect recorded export paths for git-hygiene checks
	var exports []string
	for _, entry := range entries {
		exports = append(exports, entry.Exports...)
	}

	workDir := filepath.Dir(v.path)
	gitStatus, err := git.CheckGitIntegration(workDir, exports)
	if err == nil && gitStatus.IsRepo {
		status.GitStatus = gitStatus
	}

	return status, nil
}

// ChangePassword re-encrypts the named keystore under a new password.
// The envelope is rebuilt with a fresh salt, iv and id.
func (v *Vault) ChangePassword(ctx context.Context, name string, currentPassword, newPassword []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ks, err := v.load(db, name)
	if err != nil {
		return err
	}

	plain, err := ks.Decrypt(currentPassword)
	if err != nil {
		return err
	}
	secret := keystore.NewExtendedPrivateKey(plain)
	defer secret.Wipe()

	fresh, err := keystore.Create(secret, newPassword, nil)
	if err != nil {
		return fmt.Errorf("failed to re-encrypt keystore: %w", err)
	}

	raw, err := fresh.Serialize()
	if err != nil {
		return err
	}
	if err := db.PutKeystore(name, raw); err != nil {
		return fmt.Errorf("failed to store re-encrypted keystore: %w", err)
	}

	// Keep the original creation time, refresh the envelope metadata
	entry, err := db.GetIndexEntry(name)
	if err != nil || entry == nil {
		entry = &storage.IndexEntry{Name: name, CreatedAt: time.Now()}
	}
	entry.ID = fresh.ID
	entry.Cipher = fresh.Crypto.Cipher
	entry.KDF = fresh.Crypto.KDF
	entry.N = fresh.Crypto.KDFParams.N
	if err := db.UpdateIndex(*entry); err != nil {
		return fmt.Errorf("failed to update index: %w", err)
	}

	return db.UpdateModified()
}

// Compact compacts the database to reclaim unused space
func (v *Vault) Compact() error {
	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Compact()
}

// GetVaultID retrieves the vault ID from storage
func (v *Vault) GetVaultID() (string, error) {
	db, err := v.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetVaultID()
}

// GetOrCreateVaultID retrieves existing vault ID or generates a new one
func (v *Vault) GetOrCreateVaultID() (string, error) {
	db, err := v.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	return db.GetOrCreateVaultID()
}

// load reads and parses the named keystore envelope
func (v *Vault) load(db *storage.Storage, name string) (*keystore.Keystore, error) {
	raw, err := db.GetKeystore(name)
	if err != nil {
		return nil, ErrKeystoreNotFound
	}
	return keystore.Parse(raw)
}

// store serializes ks and writes envelope plus index entry
func (v *Vault) store(name string, ks *keystore.Keystore, exports []string) error {
	raw, err := ks.Serialize()
	if err != nil {
		return err
	}
	return v.storeRaw(name, ks, raw, exports)
}

// storeRaw writes the envelope bytes and index entry for a new record
func (v *Vault) storeRaw(name string, ks *keystore.Keystore, raw []byte, exports []string) error {
	db, err := v.open()
	if err != nil {
		return err
	}
	defer db.Close()

	existing, err := db.GetIndexEntry(name)
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}
	if existing != nil {
		return ErrKeystoreExists
	}

	if err := db.PutKeystore(name, raw); err != nil {
		return fmt.Errorf("failed to store keystore: %w", err)
	}

	entry := storage.IndexEntry{
		Name:      name,
		ID:        ks.ID,
		Cipher:    ks.Crypto.Cipher,
		KDF:       ks.Crypto.KDF,
		N:         ks.Crypto.KDFParams.N,
		CreatedAt: time.Now(),
		Exports:   exports,
	}
	if err := db.UpdateIndex(entry); err != nil {
		return fmt.Errorf("failed to update index: %w", err)
	}

	return db.UpdateModified()
}
