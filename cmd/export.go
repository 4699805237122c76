package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
	"github.com/illarion/keyvault/internal/git"
)

// Export writes the named keystore's JSON to a file. No password is
// needed; the envelope protects itself. Warns when the destination is
// not git-ignored.
func Export(ctx context.Context, name, dest string) {
	vault := core.New(".")

	if err := vault.Export(ctx, name, dest); err != nil {
		HandleError(err)
	}

	fmt.Printf("✓ Exported %s to %s\n", name, dest)

	if git.IsGitRepo(".") && !git.IsIgnored(".", dest) {
		fmt.Fprintf(os.Stderr, "warning: %s is not git-ignored\n", dest)
		fmt.Fprintf(os.Stderr, "Add it to .gitignore to keep the keystore out of history\n")
	}
}
