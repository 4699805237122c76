package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/keystore"
)

// Check verifies a password against the named keystore without
// producing the plaintext. Exits non-zero on mismatch.
func Check(ctx context.Context, name string) {
	vault := core.New(".")

	password := GetPasswordOrExit("Enter password: ")
	defer keystore.ClearBytes(password)

	ok, err := vault.Check(ctx, name, password)
	if err != nil {
		HandleError(err)
	}

	if !ok {
		fmt.Fprintln(os.Stderr, "incorrect password")
		os.Exit(1)
	}
	fmt.Println("✓ password correct")
}
