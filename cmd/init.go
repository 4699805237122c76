package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/illarion/keyvault/internal/core"
)

// Init creates a new .keyvault file
func Init() {
	vault := core.New(".")

	if err := vault.Init(); err != nil {
		if errors.Is(err, core.ErrAlreadyExists) {
			fmt.Fprintf(os.Stderr, "Error: .keyvault already exists in this directory\n")
			fmt.Fprintf(os.Stderr, "Use 'keyvault status' to see current state\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}

	fmt.Println("✓ Initialized .keyvault")
	fmt.Println("Each keystore gets its own password on import.")
}
