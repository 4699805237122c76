package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keyring"
	"github.com/illarion/keyvault/internal/keystore"
)

// Passwd changes the password of a named keystore. The envelope is
// rebuilt with a fresh salt, iv and id.
func Passwd(ctx context.Context, name string) {
	vault := core.New(".")

	vaultID, err := vault.GetVaultID()
	if err != nil {
		HandleError(err)
	}

	currentPassword, err := GetPasswordWithRetry("Enter current password: ", vaultID, name, checkVerifier(ctx, vault, name))
	if err != nil {
		HandleError(err)
	}
	defer keystore.ClearBytes(currentPassword)

	newPassword, err := core.ReadPasswordConfirm()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer keystore.ClearBytes(newPassword)

	if err := vault.ChangePassword(ctx, name, currentPassword, newPassword); err != nil {
		HandleError(err)
	}

	// Refresh a stored keyring entry so it keeps working
	if vaultID != "" && keyring.HasPassword(vaultID, name) {
		if err := keyring.SavePassword(vaultID, name, string(newPassword)); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	// The rewrite leaves the old envelope's pages behind
	if err := vault.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}

	fmt.Printf("✓ Password changed for %s\n", name)
}
