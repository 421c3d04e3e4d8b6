package discord

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Verifier checks Ed25519 interaction signatures against the
// application's public key. It is a pure predicate with no state
// beyond the key.
type Verifier struct {
	key ed25519.PublicKey
}

// NewVerifier parses the hex-encoded public key Discord shows in the
// developer portal.
func NewVerifier(hexKey string) (*Verifier, error) {
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("public key must be %d bytes, got %d", ed25519.PublicKeySize, len(raw))
	}
	return &Verifier{key: ed25519.PublicKey(raw)}, nil
}

// Verify checks the signature over timestamp||body. Missing or
// malformed headers simply fail verification.
func (v *Verifier) Verify(signature, timestamp string, body []byte) bool {
	if signature == "" || timestamp == "" {
		return false
	}
	sig, err := hex.DecodeString(signature)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	return ed25519.Verify(v.key, message, sig)
}
