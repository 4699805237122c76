package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keystore"
)

// Import encrypts an extended private key into a named keystore.
// The key is read without echo; the password is confirmed unless it
// comes from the environment.
func Import(ctx context.Context, name string) {
	vault := core.New(".")

	keyInput, err := core.ReadPassword("Extended private key (hex): ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer keystore.ClearBytes(keyInput)

	secret, err := keystore.ParseExtendedPrivateKey(string(keyInput))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer secret.Wipe()

	password, err := GetPasswordForImport()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer keystore.ClearBytes(password)

	ks, err := vault.Import(ctx, name, secret, password)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Imported %s (id %s)\n", name, ks.ID)
}

// ImportFile adopts a keystore JSON file produced by another
// implementation. No password is needed; the envelope is stored as-is.
func ImportFile(ctx context.Context, name, path string) {
	vault := core.New(".")

	raw, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", path, err)
		os.Exit(1)
	}

	ks, err := vault.ImportKeystore(ctx, name, raw)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Imported %s from %s (id %s)\n", name, path, ks.ID)
}
