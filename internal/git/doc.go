// Package git provides git integration status checks for keyvault.
//
// Checks performed:
//   - Whether .keyvault is tracked by git (encrypted at rest, safe to commit)
//   - Whether exported keystore files are tracked by git (should not be)
//   - Whether exported keystore files are in .gitignore (should be)
//
// These checks help users avoid leaving password-guessable keystore exports
// in version-control history.
package git
