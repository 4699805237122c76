// Package storage provides the BBolt database interface for keyvault.
//
// Database structure uses three buckets:
//   - config: format version, timestamps, vault id (unencrypted)
//   - index: keystore names and envelope metadata (unencrypted, for ls/status)
//   - keystores: serialized keystore envelopes
//
// Keystore envelopes are stored exactly as serialized; the envelope's own
// scrypt/AES/MAC composition is the protection, so the vault adds no second
// encryption layer. The unencrypted index bucket enables keyvault ls and
// keyvault status to work without requiring a password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
