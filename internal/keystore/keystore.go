package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/scrypt"
	"golang.org/x/crypto/sha3"
)

// Format version 3 constants. Changing any of these requires a version bump;
// stored envelopes always carry their own KDF parameters.
const (
	Version = 3

	CipherAES128CTR = "aes-128-ctr"
	KDFScrypt       = "scrypt"

	SaltSize = 32 // scrypt salt size in bytes
	IVSize   = 16 // AES-CTR initialization vector size in bytes

	ScryptDKLen = 32   // derived key length in bytes
	ScryptN     = 8192 // CPU/memory cost
	ScryptR     = 8    // block size
	ScryptP     = 1    // parallelization
)

var (
	ErrInvalidKeystore   = errors.New("invalid keystore")
	ErrUnsupportedCipher = errors.New("unsupported cipher")
	ErrIncorrectPassword = errors.New("incorrect password")
)

// Keystore is a password-protected envelope around a serialized extended
// private key, structured after the Ethereum Web3 Secret Storage format.
// It is immutable after construction; all operations are read-only.
type Keystore struct {
	Crypto  Crypto `json:"crypto"`
	ID      string `json:"id"`
	Version int    `json:"version"`
}

// Crypto is the cryptographic envelope: cipher and KDF identifiers, their
// parameters, the ciphertext and the authentication tag.
type Crypto struct {
	Cipher       string       `json:"cipher"`
	CipherParams CipherParams `json:"cipherparams"`
	CipherText   string       `json:"ciphertext"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdfparams"`
	MAC          string       `json:"mac"`
}

// CipherParams holds the hex-encoded initialization vector.
type CipherParams struct {
	IV string `json:"iv"`
}

// KDFParams holds the scrypt parameters and the hex-encoded salt.
type KDFParams struct {
	DKLen int    `json:"dklen"`
	N     int    `json:"n"`
	R     int    `json:"r"`
	P     int    `json:"p"`
	Salt  string `json:"salt"`
}

// Options overrides randomness for deterministic construction in tests.
// Zero values mean crypto/rand and the format defaults.
type Options struct {
	Salt []byte    // fixed salt, must be SaltSize bytes when set
	IV   []byte    // fixed IV, must be IVSize bytes when set
	Rand io.Reader // entropy source for salt, IV and id
	N    int       // scrypt cost override, tests only
}

// Create builds a keystore protecting secret under password.
// Decrypt with the same password reproduces the secret's serialized form.
func Create(secret *ExtendedPrivateKey, password []byte, opts *Options) (*Keystore, error) {
	if secret == nil || len(secret.Bytes()) == 0 {
		return nil, fmt.Errorf("keystore: secret is empty")
	}
	if opts == nil {
		opts = &Options{}
	}
	entropy := opts.Rand
	if entropy == nil {
		entropy = rand.Reader
	}

	salt := opts.Salt
	if salt == nil {
		salt = make([]byte, SaltSize)
		if _, err := io.ReadFull(entropy, salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("keystore: salt must be %d bytes", SaltSize)
	}

	iv := opts.IV
	if iv == nil {
		iv = make([]byte, IVSize)
		if _, err := io.ReadFull(entropy, iv); err != nil {
			return nil, fmt.Errorf("failed to generate iv: %w", err)
		}
	}
	if len(iv) != IVSize {
		return nil, fmt.Errorf("keystore: iv must be %d bytes", IVSize)
	}

	n := opts.N
	if n == 0 {
		n = ScryptN
	}

	derivedKey, err := deriveKey(password, salt, n, ScryptR, ScryptP, ScryptDKLen)
	if err != nil {
		return nil, fmt.Errorf("key derivation failed: %w", err)
	}
	defer ClearBytes(derivedKey)

	ciphertext, err := applyCTR(derivedKey[:16], iv, secret.Bytes())
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewRandomFromReader(entropy)
	if err != nil {
		return nil, fmt.Errorf("failed to generate id: %w", err)
	}

	return &Keystore{
		Crypto: Crypto{
			Cipher:       CipherAES128CTR,
			CipherParams: CipherParams{IV: hex.EncodeToString(iv)},
			CipherText:   hex.EncodeToString(ciphertext),
			KDF:          KDFScrypt,
			KDFParams: KDFParams{
				DKLen: ScryptDKLen,
				N:     n,
				R:     ScryptR,
				P:     ScryptP,
				Salt:  hex.EncodeToString(salt),
			},
			MAC: hex.EncodeToString(authTag(derivedKey[16:32], ciphertext)),
		},
		ID:      id.String(),
		Version: Version,
	}, nil
}

// Decrypt authenticates the envelope under password and returns the secret's
// serialized byte form. The MAC is verified before any decryption happens;
// a mismatch returns ErrIncorrectPassword without touching the cipher.
// The caller owns the returned buffer and should clear it after use.
func (k *Keystore) Decrypt(password []byte) ([]byte, error) {
	ciphertext, iv, err := k.decodeEnvelope()
	if err != nil {
		return nil, err
	}

	derivedKey, err := k.derive(password)
	if err != nil {
		return nil, err
	}
	defer ClearBytes(derivedKey)

	mac, err := hex.DecodeString(k.Crypto.MAC)
	if err != nil {
		return nil, ErrInvalidKeystore
	}
	if !ConstantTimeCompare(authTag(derivedKey[16:32], ciphertext), mac) {
		return nil, ErrIncorrectPassword
	}

	return applyCTR(derivedKey[:16], iv, ciphertext)
}

// CheckPassword reports whether password opens this keystore. It never
// produces the plaintext.
func (k *Keystore) CheckPassword(password []byte) bool {
	ciphertext, _, err := k.decodeEnvelope()
	if err != nil {
		return false
	}

	derivedKey, err := k.derive(password)
	if err != nil {
		return false
	}
	defer ClearBytes(derivedKey)

	mac, err := hex.DecodeString(k.Crypto.MAC)
	if err != nil {
		return false
	}
	return ConstantTimeCompare(authTag(derivedKey[16:32], ciphertext), mac)
}

// ExtendedPrivateKey decrypts the envelope and parses the plaintext back
// into the extended private key type. ErrIncorrectPassword propagates
// unchanged.
func (k *Keystore) ExtendedPrivateKey(password []byte) (*ExtendedPrivateKey, error) {
	plain, err := k.Decrypt(password)
	if err != nil {
		return nil, err
	}
	return &ExtendedPrivateKey{raw: plain}, nil
}

// Serialize renders the keystore as compact JSON with the fixed wire field
// names. The output is byte-for-byte stable for a given envelope.
func (k *Keystore) Serialize() ([]byte, error) {
	data, err := json.Marshal(k)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal keystore: %w", err)
	}
	return data, nil
}

// Parse reads a keystore from its JSON wire form. It validates shape only;
// cryptographic validation is deferred to Decrypt and CheckPassword.
func Parse(data []byte) (*Keystore, error) {
	var k Keystore
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, ErrInvalidKeystore
	}
	if k.Version != Version || k.ID == "" {
		return nil, ErrInvalidKeystore
	}
	c := k.Crypto
	if c.Cipher == "" || c.CipherParams.IV == "" || c.CipherText == "" ||
		c.KDF == "" || c.KDFParams.Salt == "" || c.MAC == "" {
		return nil, ErrInvalidKeystore
	}
	return &k, nil
}

// decodeEnvelope decodes the hex fields needed by Decrypt and CheckPassword.
func (k *Keystore) decodeEnvelope() (ciphertext, iv []byte, err error) {
	if k.Crypto.Cipher != CipherAES128CTR {
		return nil, nil, ErrUnsupportedCipher
	}
	ciphertext, err = hex.DecodeString(k.Crypto.CipherText)
	if err != nil {
		return nil, nil, ErrInvalidKeystore
	}
	iv, err = hex.DecodeString(k.Crypto.CipherParams.IV)
	if err != nil || len(iv) != IVSize {
		return nil, nil, ErrInvalidKeystore
	}
	return ciphertext, iv, nil
}

// derive runs the stored KDF over password. The derived key must supply
// 16 bytes of cipher key and 16 bytes of MAC key material.
func (k *Keystore) derive(password []byte) ([]byte, error) {
	p := k.Crypto.KDFParams
	if k.Crypto.KDF != KDFScrypt || p.DKLen < 32 {
		return nil, ErrInvalidKeystore
	}
	salt, err := hex.DecodeString(p.Salt)
	if err != nil {
		return nil, ErrInvalidKeystore
	}
	return deriveKey(password, salt, p.N, p.R, p.P, p.DKLen)
}

// deriveKey is the scrypt derivation shared by Create and Decrypt.
func deriveKey(password, salt []byte, n, r, p, dklen int) ([]byte, error) {
	key, err := scrypt.Key(password, salt, n, r, p, dklen)
	if err != nil {
		return nil, fmt.Errorf("scrypt failed: %w", err)
	}
	return key, nil
}

// authTag computes the Keccak-256 authentication tag over the MAC key
// region of the derived key and the ciphertext. It never depends on the
// cipher key region.
func authTag(macKey, ciphertext []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(macKey)
	h.Write(ciphertext)
	return h.Sum(nil)
}

// applyCTR runs AES-128-CTR over data. Encryption and decryption are the
// same operation; output length equals input length.
func applyCTR(key, iv, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedCipher, err)
	}
	out := make([]byte, len(data))
	cipher.NewCTR(block, iv).XORKeyStream(out, data)
	return out, nil
}
