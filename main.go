package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/keyvault/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		runInit(ctx, os.Args[2:])
	case "import":
		runImport(ctx, os.Args[2:])
	case "reveal":
		runReveal(ctx, os.Args[2:])
	case "check":
		runCheck(ctx, os.Args[2:])
	case "export":
		runExport(ctx, os.Args[2:])
	case "rm":
		runRm(ctx, os.Args[2:])
	case "ls":
		runLs(ctx, os.Args[2:])
	case "status":
		runStatus(ctx, os.Args[2:])
	case "passwd":
		runPasswd(ctx, os.Args[2:])
	case "diff":
		runDiff(ctx, os.Args[2:])
	case "compact":
		runCompact(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runInit(_ context.Context, args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Init()
}

func runImport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	fileShort := fs.String("f", "", "Import a keystore JSON file instead of a raw key")
	fileLong := fs.String("file", "", "Import a keystore JSON file instead of a raw key")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault import [-f <file>] <name>")
		os.Exit(1)
	}
	name := fs.Args()[0]

	file := *fileShort
	if file == "" {
		file = *fileLong
	}

	if file != "" {
		cmd.ImportFile(ctx, name, file)
		return
	}
	cmd.Import(ctx, name)
}

func runReveal(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("reveal", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault reveal <name>")
		os.Exit(1)
	}
	cmd.Reveal(ctx, fs.Args()[0])
}

func runCheck(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault check <name>")
		os.Exit(1)
	}
	cmd.Check(ctx, fs.Args()[0])
}

func runExport(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault export <name> <file>")
		os.Exit(1)
	}
	cmd.Export(ctx, fs.Args()[0], fs.Args()[1])
}

func runRm(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("rm", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Remove(ctx, fs.Args())
}

func runLs(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("ls", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Ls(ctx)
}

func runStatus(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Status(ctx)
}

func runPasswd(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("passwd", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault passwd <name>")
		os.Exit(1)
	}
	cmd.Passwd(ctx, fs.Args()[0])
}

func runDiff(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	if len(fs.Args()) != 2 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault diff <fileA> <fileB>")
		os.Exit(1)
	}
	cmd.Diff(ctx, fs.Args()[0], fs.Args()[1])
}

func runCompact(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("compact", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cmd.Compact(ctx)
}

func runKeyring(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault keyring <save|delete|status> <name>")
		os.Exit(1)
	}

	switch args[0] {
	case "save":
		cmd.KeyringSave(ctx, args[1])
	case "delete", "rm":
		cmd.KeyringDelete(args[1])
	case "status":
		cmd.KeyringStatus(args[1])
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring action: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: keyvault keyring <save|delete|status> <name>")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: keyvault completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("keyvault - Encrypted storage for extended private keys")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  keyvault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init        Create a .keyvault vault in current directory")
	fmt.Println("  import      Encrypt a key into a named keystore")
	fmt.Println("  reveal      Decrypt a keystore and print the key")
	fmt.Println("  check       Verify a password without revealing the key")
	fmt.Println("  export      Write a keystore's JSON to a file")
	fmt.Println("  rm          Remove keystores from the vault")
	fmt.Println("  ls          List stored keystores")
	fmt.Println("  status      Show comprehensive vault status")
	fmt.Println("  passwd      Change a keystore password")
	fmt.Println("  diff        Compare two keystore files")
	fmt.Println("  compact     Compact vault to reclaim disk space")
	fmt.Println("  keyring     Manage passwords in the OS keyring")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  keyvault init                   # Create new vault")
	fmt.Println("  keyvault import primary         # Encrypt a key as 'primary'")
	fmt.Println("  keyvault reveal primary         # Print the decrypted key")
	fmt.Println("  keyvault status                 # Check vault status")
	fmt.Println()
	fmt.Println("Use 'keyvault help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "init":
		fmt.Println("keyvault init")
		fmt.Println()
		fmt.Println("Creates a .keyvault vault file in the current directory.")
		fmt.Println("The vault holds named keystores; each keystore is encrypted")
		fmt.Println("under its own password chosen at import time.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  keyvault init                    # Create new vault")
	case "import":
		fmt.Println("keyvault import [-f <file>] <name>")
		fmt.Println()
		fmt.Println("Encrypts an extended private key into a named keystore.")
		fmt.Println("The key is entered in hex without echo, and the password is")
		fmt.Println("confirmed. With -f, adopts an existing keystore JSON file")
		fmt.Println("instead; no password is needed because the file protects itself.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -f, --file    Import a keystore JSON file")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  keyvault import primary          # Encrypt a key as 'primary'")
		fmt.Println("  keyvault import -f old.json cold # Adopt an existing keystore")
	case "reveal":
		fmt.Println("keyvault reveal <name>")
		fmt.Println()
		fmt.Println("Decrypts the named keystore and prints the extended private key")
		fmt.Println("in hex on stdout. The password comes from KEYVAULT_PASSWORD,")
		fmt.Println("the OS keyring, or an interactive prompt, in that order.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  keyvault reveal primary")
		fmt.Println("  keyvault reveal primary | wc -c")
	case "check":
		fmt.Println("keyvault check <name>")
		fmt.Println()
		fmt.Println("Verifies a password against the named keystore without")
		fmt.Println("decrypting the key. Exits 0 when correct, 1 otherwise.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault check primary")
	case "export":
		fmt.Println("keyvault export <name> <file>")
		fmt.Println()
		fmt.Println("Writes the named keystore's JSON to a file. The file stays")
		fmt.Println("encrypted and opens with the same password. Exported paths are")
		fmt.Println("remembered so 'status' can warn when git would commit them.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault export primary backup.json")
	case "rm":
		fmt.Println("keyvault rm <name> [name...]")
		fmt.Println()
		fmt.Println("Removes keystores from the vault. No password is required;")
		fmt.Println("removal destroys the ciphertext, not the plaintext.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  keyvault rm primary")
		fmt.Println("  keyvault rm old1 old2")
	case "ls":
		fmt.Println("keyvault ls")
		fmt.Println()
		fmt.Println("Lists stored keystores with their cipher and KDF parameters.")
		fmt.Println("Does not require a password.")
	case "status":
		fmt.Println("keyvault status")
		fmt.Println()
		fmt.Println("Shows comprehensive vault status including:")
		fmt.Println("  - Vault id and last modification time")
		fmt.Println("  - Stored keystores with envelope metadata")
		fmt.Println("  - Recorded export paths")
		fmt.Println("  - Git hygiene for the vault file and exports")
		fmt.Println()
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault status")
	case "passwd":
		fmt.Println("keyvault passwd <name>")
		fmt.Println()
		fmt.Println("Changes the password of a named keystore.")
		fmt.Println("Requires the current password, then re-encrypts the key with")
		fmt.Println("a fresh salt, iv and id under the new password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault passwd primary")
	case "diff":
		fmt.Println("keyvault diff <fileA> <fileB>")
		fmt.Println()
		fmt.Println("Compares two keystore JSON files field by field after")
		fmt.Println("normalizing formatting. Exits 0 when equal, 1 when different.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault diff backup.json exported.json")
	case "compact":
		fmt.Println("keyvault compact")
		fmt.Println()
		fmt.Println("Compacts the .keyvault database to reclaim unused disk space.")
		fmt.Println("This is automatically done after 'rm' and 'passwd' commands,")
		fmt.Println("but can be run manually if needed.")
		fmt.Println()
		fmt.Println("Does not require a password.")
		fmt.Println()
		fmt.Println("Example:")
		fmt.Println("  keyvault compact")
	case "keyring":
		fmt.Println("keyvault keyring <save|delete|status> <name>")
		fmt.Println()
		fmt.Println("Manages keystore passwords in the OS keyring.")
		fmt.Println("Saved passwords are verified first and picked up automatically")
		fmt.Println("by 'reveal' and 'passwd'.")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  keyvault keyring save primary")
		fmt.Println("  keyvault keyring status primary")
		fmt.Println("  keyvault keyring delete primary")
	case "completion":
		fmt.Println("keyvault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(keyvault completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(keyvault completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  keyvault completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
