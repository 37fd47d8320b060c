// Package envelope renders verification keys in the text-envelope JSON
// shape: {"type", "description", "cborHex"}.
package envelope

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"Addrforge/keys"
)

const (
	TypePaymentVerificationKey        = "PaymentVerificationKeyShelley_ed25519"
	DescriptionPaymentVerificationKey = "Payment Verification Key"

	keySize = 32
)

// Errors
var (
	ErrInvalidKey      = errors.New("invalid verification key")
	ErrInvalidEnvelope = errors.New("invalid key envelope")
	ErrUnsupportedKey  = errors.New("envelope holds only ed25519 keys")
)

// Envelope is a typed, CBOR-hex wrapped key.
type Envelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// ForPaymentKey wraps a 32-byte ed25519 payment verification key. The key
// is encoded as a CBOR byte string, so cborHex starts with 5820.
func ForPaymentKey(pub []byte) (*Envelope, error) {
	if len(pub) != keySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(pub), keySize)
	}

	raw, err := cbor.Marshal(pub)
	if err != nil {
		return nil, fmt.Errorf("cbor encode key: %w", err)
	}

	return &Envelope{
		Type:        TypePaymentVerificationKey,
		Description: DescriptionPaymentVerificationKey,
		CborHex:     hex.EncodeToString(raw),
	}, nil
}

// ForBackendKey wraps pub after checking it came from a backend whose keys
// the envelope type describes.
func ForBackendKey(backend string, pub []byte) (*Envelope, error) {
	if backend != keys.NameEd25519 {
		return nil, fmt.Errorf("%w: %s key", ErrUnsupportedKey, backend)
	}
	return ForPaymentKey(pub)
}

// PublicKey unwraps the key bytes from CborHex.
func (e *Envelope) PublicKey() ([]byte, error) {
	raw, err := hex.DecodeString(e.CborHex)
	if err != nil {
		return nil, fmt.Errorf("%w: cborHex: %v", ErrInvalidEnvelope, err)
	}

	var pub []byte
	if err := cbor.Unmarshal(raw, &pub); err != nil {
		return nil, fmt.Errorf("%w: cbor: %v", ErrInvalidEnvelope, err)
	}
	if len(pub) != keySize {
		return nil, fmt.Errorf("%w: key is %d bytes", ErrInvalidKey, len(pub))
	}
	return pub, nil
}

// Marshal returns indented JSON.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// Unmarshal parses envelope JSON and checks its type.
func Unmarshal(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if e.Type != TypePaymentVerificationKey {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidEnvelope, e.Type)
	}
	return &e, nil
}
