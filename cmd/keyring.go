package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keyring"
	"github.com/illarion/keyvault/internal/keystore"
)

// KeyringSave stores the password for a named keystore in the OS keyring
func KeyringSave(ctx context.Context, name string) {
	vault := core.New(".")

	password, err := core.ReadPassword("Enter password: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer keystore.ClearBytes(password)

	// Verify before caching; a wrong password in the keyring is worse
	// than no entry at all
	ok, err := vault.Check(ctx, name, password)
	if err != nil {
		HandleError(err)
	}
	if !ok {
		HandleError(keystore.ErrIncorrectPassword)
	}

	vaultID, err := vault.GetOrCreateVaultID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassword(vaultID, name, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Printf("Password for %s saved to keyring\n", name)
}

// KeyringDelete removes a keystore's password from the OS keyring
func KeyringDelete(name string) {
	vault := core.New(".")

	vaultID, err := vault.GetVaultID()
	if err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	if err := keyring.DeletePassword(vaultID, name); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Printf("Password for %s removed from keyring\n", name)
}

// KeyringStatus reports whether a keystore's password is in the keyring
func KeyringStatus(name string) {
	vault := core.New(".")

	vaultID, err := vault.GetVaultID()
	if err != nil {
		fmt.Println("Password: not stored")
		return
	}

	if keyring.HasPassword(vaultID, name) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
