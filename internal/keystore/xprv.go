package keystore

import (
	"encoding/hex"
	"fmt"
)

// ExtendedPrivateKey is the secret protected by a keystore. The core never
// interprets its structure; it only needs the hex round trip. Upstream code
// produces it (BIP-32 derivation) and downstream code signs with it.
type ExtendedPrivateKey struct {
	raw []byte
}

// NewExtendedPrivateKey wraps raw key bytes. The bytes are not copied;
// the key takes ownership.
func NewExtendedPrivateKey(raw []byte) *ExtendedPrivateKey {
	return &ExtendedPrivateKey{raw: raw}
}

// ParseExtendedPrivateKey is the inverse of Serialize.
func ParseExtendedPrivateKey(s string) (*ExtendedPrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid extended private key encoding: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("extended private key is empty")
	}
	return &ExtendedPrivateKey{raw: raw}, nil
}

// Serialize returns the hex form stored inside keystores.
func (k *ExtendedPrivateKey) Serialize() string {
	return hex.EncodeToString(k.raw)
}

// Bytes returns the raw key material. The slice is shared, not copied.
func (k *ExtendedPrivateKey) Bytes() []byte {
	return k.raw
}

// Wipe zeroes the key material. The key is unusable afterwards.
func (k *ExtendedPrivateKey) Wipe() {
	ClearBytes(k.raw)
}
