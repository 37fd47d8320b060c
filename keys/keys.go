// Package keys turns 32-byte seeds into 32-byte public keys.
//
// Each Backend is a fixed algorithm picked by name from configuration;
// there is no fallback from one backend to another.
package keys

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	SeedSize      = 32
	PublicKeySize = 32
)

// Errors
var (
	ErrInvalidSeedLength = errors.New("invalid seed length")
	ErrInvalidSeed       = errors.New("seed does not produce a usable key")
	ErrUnknownBackend    = errors.New("unknown key backend")
)

// Backend derives a public key from a private seed.
type Backend interface {
	Name() string
	PublicKey(seed []byte) ([]byte, error)
}

const (
	NameEd25519 = "ed25519"
	NameSchnorr = "schnorr"
)

var backends = map[string]Backend{
	NameEd25519: Ed25519{},
	NameSchnorr: Schnorr{},
}

// ByName returns the backend registered under name.
func ByName(name string) (Backend, error) {
	b, ok := backends[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownBackend, name, strings.Join(Names(), ", "))
	}
	return b, nil
}

// Names lists the registered backends.
func Names() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkSeed(seed []byte) error {
	if len(seed) != SeedSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSeedLength, len(seed), SeedSize)
	}
	return nil
}

// Ed25519 is RFC 8032 Ed25519; the seed is the 32-byte private key.
type Ed25519 struct{}

func (Ed25519) Name() string { return NameEd25519 }

func (Ed25519) PublicKey(seed []byte) ([]byte, error) {
	if err := checkSeed(seed); err != nil {
		return nil, err
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return []byte(pub), nil
}

// Schnorr is secp256k1 with BIP-340 x-only public keys. Seeds at or above
// the curve order are reduced modulo the order.
type Schnorr struct{}

func (Schnorr) Name() string { return NameSchnorr }

func (Schnorr) PublicKey(seed []byte) ([]byte, error) {
	if err := checkSeed(seed); err != nil {
		return nil, err
	}
	var scalar btcec.ModNScalar
	scalar.SetByteSlice(seed)
	if scalar.IsZero() {
		return nil, fmt.Errorf("%w: scalar is zero mod n", ErrInvalidSeed)
	}
	_, pub := btcec.PrivKeyFromBytes(seed)
	return schnorr.SerializePubKey(pub), nil
}
