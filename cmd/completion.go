package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_keyvault() {
    local cur prev words cword
    _init_completion || return

    local commands="init import reveal check export rm ls status passwd diff compact keyring help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        reveal|check|passwd|export|rm)
            # Complete with keystore names from the vault
            local names
            names=$(keyvault ls 2>/dev/null | sed -n 's/^  \([^ ]*\) .*/\1/p')
            COMPREPLY=($(compgen -W "$names" -- "$cur"))
            ;;
        import)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "-f --file" -- "$cur"))
            fi
            ;;
        diff)
            _filedir
            ;;
        keyring)
            COMPREPLY=($(compgen -W "save delete status" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _keyvault keyvault
`

const zshCompletion = `#compdef keyvault

_keyvault() {
    local -a commands
    commands=(
        'init:Create a .keyvault vault in current directory'
        'import:Encrypt a key into a named keystore'
        'reveal:Decrypt a keystore and print the key'
        'check:Verify a password without revealing the key'
        'export:Write a keystore JSON to a file'
        'rm:Remove keystores from the vault'
        'ls:List stored keystores'
        'status:Show comprehensive vault status'
        'passwd:Change a keystore password'
        'diff:Compare two keystore files'
        'compact:Compact vault to reclaim disk space'
        'keyring:Manage passwords in the OS keyring'
        'completion:Generate shell completions'
        'help:Show help for a command'
    )

    if (( CURRENT == 2 )); then
        _describe 'command' commands
        return
    fi

    case "$words[2]" in
        reveal|check|passwd|export|rm)
            local -a names
            names=(${(f)"$(keyvault ls 2>/dev/null | sed -n 's/^  \([^ ]*\) .*/\1/p')"})
            _describe 'keystore' names
            ;;
        diff)
            _files
            ;;
        keyring)
            _values 'action' save delete status
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
    esac
}

_keyvault
`

const fishCompletion = `complete -c keyvault -f

complete -c keyvault -n '__fish_use_subcommand' -a init -d 'Create a .keyvault vault in current directory'
complete -c keyvault -n '__fish_use_subcommand' -a import -d 'Encrypt a key into a named keystore'
complete -c keyvault -n '__fish_use_subcommand' -a reveal -d 'Decrypt a keystore and print the key'
complete -c keyvault -n '__fish_use_subcommand' -a check -d 'Verify a password without revealing the key'
complete -c keyvault -n '__fish_use_subcommand' -a export -d 'Write a keystore JSON to a file'
complete -c keyvault -n '__fish_use_subcommand' -a rm -d 'Remove keystores from the vault'
complete -c keyvault -n '__fish_use_subcommand' -a ls -d 'List stored keystores'
complete -c keyvault -n '__fish_use_subcommand' -a status -d 'Show comprehensive vault status'
complete -c keyvault -n '__fish_use_subcommand' -a passwd -d 'Change a keystore password'
complete -c keyvault -n '__fish_use_subcommand' -a diff -d 'Compare two keystore files'
complete -c keyvault -n '__fish_use_subcommand' -a compact -d 'Compact vault to reclaim disk space'
complete -c keyvault -n '__fish_use_subcommand' -a keyring -d 'Manage passwords in the OS keyring'
complete -c keyvault -n '__fish_use_subcommand' -a completion -d 'Generate shell completions'
complete -c keyvault -n '__fish_use_subcommand' -a help -d 'Show help for a command'

complete -c keyvault -n '__fish_seen_subcommand_from reveal check passwd export rm' -a '(keyvault ls 2>/dev/null | sed -n "s/^  \([^ ]*\) .*/\1/p")'
complete -c keyvault -n '__fish_seen_subcommand_from diff' -F
complete -c keyvault -n '__fish_seen_subcommand_from keyring' -a 'save delete status'
complete -c keyvault -n '__fish_seen_subcommand_from completion' -a 'bash zsh fish'
`
