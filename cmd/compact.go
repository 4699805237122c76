package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
)

// Compact compacts the .keyvault database to reclaim unused space
func Compact(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	vault := core.New(".")

	// Get file size before
	info, err := os.Stat(core.VaultFile)
	if err != nil {
		HandleError(err)
	}
	sizeBefore := info.Size()

	if err := vault.Compact(); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err = os.Stat(core.VaultFile)
	if err != nil {
		HandleError(err)
	}
	sizeAfter := info.Size()

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(sizeAfter))
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
