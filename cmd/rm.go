package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
)

// Remove deletes named keystores from the vault
func Remove(ctx context.Context, names []string) {
	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "Error: rm requires at least one keystore name\n")
		fmt.Fprintf(os.Stderr, "Usage: keyvault rm <name> [name...]\n")
		os.Exit(1)
	}

	vault := core.New(".")

	removed, err := vault.Remove(ctx, names)
	if err != nil {
		HandleError(err)
	}

	if removed == 0 {
		return
	}

	// Reclaim the space the deleted envelopes occupied
	if err := vault.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: compaction failed: %s\n", err)
	}
}
