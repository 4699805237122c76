// Package core provides the main keyvault operations.
//
// Core operations include:
//   - Init: Create a new .keyvault database with a vault id
//   - Import/ImportKeystore: Encrypt a key into a named keystore, or adopt
//     a keystore produced by another implementation
//   - Reveal: Decrypt a keystore back into its extended private key
//   - Check: Verify a password without exposing the secret
//   - Export: Write a keystore's JSON to a file and track it for git checks
//   - ChangePassword: Re-encrypt a keystore under a new password
//   - Remove/List/Status/Compact: Record management
//
// Every keystore record is self-protecting; the vault never derives or
// holds a master key, so List and Status work without any password.
package core
