package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/keyvault/internal/core"
)

// Ls shows keystores stored in .keyvault (no password required)
func Ls(ctx context.Context) {
	vault := core.New(".")

	entries, err := vault.List(ctx)
	if err != nil {
		HandleError(err)
	}

	if len(entries) == 0 {
		fmt.Println("No keystores in .keyvault")
		return
	}

	fmt.Println("Keystores in .keyvault:")
	for _, entry := range entries {
		fmt.Printf("  %s (%s/%s, n=%d)\n", entry.Name, entry.Cipher, entry.KDF, entry.N)
	}
}
