package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitStatus contains git integration status information
type GitStatus struct {
	IsRepo            bool
	VaultTracked      bool
	TrackedExports    []string // exported keystore files tracked by git (bad)
	UntrackedExports  []string // exported keystore files not tracked by git (good)
	IgnoredExports    []string // exported keystore files in .gitignore (good)
	UnignoredExports  []string // exported keystore files not in .gitignore (warning)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckGitIntegration checks git integration status for keyvault.
// exportedFiles are the paths recorded by keyvault export.
func CheckGitIntegration(workDir string, exportedFiles []string) (*GitStatus, error) {
	status := &GitStatus{}

	if !IsGitRepo(workDir) {
		status.IsRepo = false
		return status, nil
	}
	status.IsRepo = true

	// The vault itself is encrypted at rest and safe to commit
	status.VaultTracked = IsTracked(workDir, ".keyvault")

	for _, file := range exportedFiles {
		tracked := IsTracked(workDir, file)
		ignored := IsIgnored(workDir, file)

		if tracked {
			status.TrackedExports = append(status.TrackedExports, file)
		} else {
			status.UntrackedExports = append(status.UntrackedExports, file)
		}

		if ignored {
			status.IgnoredExports = append(status.IgnoredExports, file)
		} else {
			status.UnignoredExports = append(status.UnignoredExports, file)
		}
	}

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.VaultTracked {
		result.WriteString("   ok: .keyvault is tracked by git\n")
	} else {
		result.WriteString("   note: .keyvault not tracked (run: git add .keyvault)\n")
	}

	// Exported keystore files carry their own protection but still do not
	// belong in history: old passwords stay attackable forever once pushed.
	if len(status.TrackedExports) > 0 {
		result.WriteString(fmt.Sprintf("   error: %d exported keystore file(s) tracked by git:\n", len(status.TrackedExports)))
		for _, file := range status.TrackedExports {
			result.WriteString(fmt.Sprintf("      - %s (run: git rm --cached %s)\n", file, file))
		}
	} else if len(status.UntrackedExports) > 0 {
		result.WriteString("   ok: no exported keystore files tracked by git\n")
	}

	if len(status.UnignoredExports) > 0 {
		trackedSet := make(map[string]bool, len(status.TrackedExports))
		for _, f := range status.TrackedExports {
			trackedSet[f] = true
		}

		for _, file := range status.UnignoredExports {
			// Only show warning if file is not already flagged as tracked
			if !trackedSet[file] {
				result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", file))
			}
		}
	} else if len(status.IgnoredExports) > 0 {
		result.WriteString(fmt.Sprintf("   ok: %d exported keystore file(s) in .gitignore\n", len(status.IgnoredExports)))
	}

	return result.String()
}
