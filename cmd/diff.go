package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
)

// Diff compares two keystore JSON files field by field
func Diff(ctx context.Context, pathA, pathB string) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	diff, err := core.CompareKeystoreFiles(pathA, pathB)
	if err != nil {
		HandleError(err)
	}

	if diff == "" {
		fmt.Println("Keystores are identical")
		return
	}

	fmt.Print(diff)
	os.Exit(1)
}
