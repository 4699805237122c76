package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keystore"
)

// Reveal decrypts the named keystore and prints the extended private key.
// The key goes to stdout only; everything else goes to stderr so the
// output can be piped.
func Reveal(ctx context.Context, name string) {
	vault := core.New(".")

	vaultID, err := vault.GetVaultID()
	if err != nil {
		HandleError(err)
	}

	password, err := GetPasswordWithRetry("Enter password: ", vaultID, name, checkVerifier(ctx, vault, name))
	if err != nil {
		HandleError(err)
	}
	defer keystore.ClearBytes(password)

	key, err := vault.Reveal(ctx, name, password)
	if err != nil {
		HandleError(err)
	}
	defer key.Wipe()

	fmt.Println(key.Serialize())
}
