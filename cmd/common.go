package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keyring"
	"github.com/illarion/keyvault/internal/keystore"
)

// GetPassword retrieves a password from the environment or prompts the user.
// The caller is responsible for calling keystore.ClearBytes on the result.
func GetPassword(prompt string) ([]byte, error) {
	// Try environment variable first
	password := core.GetPasswordFromEnv()
	if password != nil {
		return password, nil
	}

	// Prompt user
	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// GetPasswordOrExit is like GetPassword but exits on error
func GetPasswordOrExit(prompt string) []byte {
	password, err := GetPassword(prompt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return password
}

// GetPasswordWithRetry retrieves the password for a named keystore.
// Order: KEYVAULT_PASSWORD environment variable, OS keyring (keyed by
// vault id and keystore name), interactive prompt. A keyring entry that
// fails verify is deleted as stale and the user is prompted instead.
func GetPasswordWithRetry(prompt, vaultID, name string, verify func([]byte) bool) ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if vaultID != "" {
		if stored, err := keyring.GetPassword(vaultID, name); err == nil {
			password := []byte(stored)
			if verify == nil || verify(password) {
				return password, nil
			}
			keystore.ClearBytes(password)
			_ = keyring.DeletePassword(vaultID, name)
			fmt.Fprintln(os.Stderr, "Stored keyring password is stale, removed")
		}
	}

	password, err := core.ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// GetPasswordForImport retrieves the password for a new keystore.
// Checks the environment variable first, then prompts with confirmation.
func GetPasswordForImport() ([]byte, error) {
	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}
	return core.ReadPasswordConfirm()
}

// checkVerifier builds a verify callback backed by Vault.Check
func checkVerifier(ctx context.Context, vault *core.Vault, name string) func([]byte) bool {
	return func(password []byte) bool {
		ok, err := vault.Check(ctx, name, password)
		return err == nil && ok
	}
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch err {
	case core.ErrNotInitialized:
		fmt.Fprintf(os.Stderr, "Error: keyvault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'keyvault init' first\n")
	case core.ErrAlreadyExists:
		fmt.Fprintf(os.Stderr, "Error: .keyvault already exists in this directory\n")
		fmt.Fprintf(os.Stderr, "Use 'keyvault status' to see current state\n")
	case core.ErrKeystoreExists:
		fmt.Fprintf(os.Stderr, "Error: keystore name already in use\n")
		fmt.Fprintf(os.Stderr, "Use 'keyvault ls' to see stored keystores\n")
	case core.ErrKeystoreNotFound:
		fmt.Fprintf(os.Stderr, "Error: keystore not found\n")
		fmt.Fprintf(os.Stderr, "Use 'keyvault ls' to see stored keystores\n")
	case keystore.ErrIncorrectPassword:
		fmt.Fprintf(os.Stderr, "Error: incorrect password\n")
	case keystore.ErrInvalidKeystore:
		fmt.Fprintf(os.Stderr, "Error: invalid keystore\n")
	case keystore.ErrUnsupportedCipher:
		fmt.Fprintf(os.Stderr, "Error: unsupported cipher\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
