// Package keystore implements the encrypted envelope protecting an extended
// private key at rest, structured after the Ethereum Web3 Secret Storage
// format (version 3).
//
// Composition is derive-then-encrypt-then-MAC:
//   - scrypt derives 32 bytes from the password (n=8192, r=8, p=1, 32-byte salt)
//   - AES-128-CTR encrypts the secret with derivedKey[0:16] and a 16-byte IV
//   - Keccak-256 over derivedKey[16:32] || ciphertext authenticates the result
//
// Decryption verifies the MAC before running the cipher, so a wrong password
// is rejected without ever producing unauthenticated plaintext.
//
// The JSON wire format is fixed and reproducible across implementations:
// given the same salt, iv, password and secret, every conforming
// implementation produces the same ciphertext and mac.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Decrypt hands buffer ownership to the caller
package keystore
