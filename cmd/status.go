package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/git"
)

// Status shows the current state of the vault (no password required)
func Status(ctx context.Context) {
	vault := core.New(".")

	// Check if .keyvault exists
	if _, err := os.Stat(core.VaultFile); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No .keyvault file found in current directory")
			fmt.Println("Run 'keyvault init' to create one")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
		return
	}

	status, err := vault.Status(ctx)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault: %s\n", status.VaultID)
	if !status.LastModified.IsZero() {
		fmt.Printf("Last modified: %s\n", status.LastModified.Format(time.RFC3339))
	}
	fmt.Println()

	fmt.Printf("Keystores (%d):\n", status.Count)
	if status.Count == 0 {
		fmt.Println("  (none)")
	}
	for _, entry := range status.Entries {
		fmt.Printf("  %s\n", entry.Name)
		fmt.Printf("    id: %s\n", entry.ID)
		fmt.Printf("    cipher: %s, kdf: %s (n=%d)\n", entry.Cipher, entry.KDF, entry.N)
		fmt.Printf("    created: %s\n", entry.CreatedAt.Format(time.RFC3339))
		for _, path := range entry.Exports {
			fmt.Printf("    exported: %s\n", path)
		}
	}

	if status.GitStatus != nil {
		fmt.Println()
		fmt.Print(git.FormatGitStatus(status.GitStatus))
	}
}
