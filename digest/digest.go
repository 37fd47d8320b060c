// Package digest fingerprints public keys with Blake2b.
package digest

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// PublicKeySize is the only key length Fingerprint accepts.
	PublicKeySize = 32

	// FingerprintSize is the Blake2b-224 output length.
	FingerprintSize = 28
)

// Errors
var (
	ErrInvalidKeyLength  = errors.New("invalid public key length")
	ErrInvalidDigestSize = errors.New("invalid digest size")
)

// Sum returns the size-byte Blake2b digest of data.
// Blake2b supports sizes 1 through 64.
func Sum(data []byte, size int) ([]byte, error) {
	if size < 1 || size > blake2b.Size {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidDigestSize, size, blake2b.Size)
	}

	h, err := blake2b.New(size, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDigestSize, err)
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// Fingerprint returns the Blake2b-224 digest of a 32-byte public key.
func Fingerprint(pub []byte) ([FingerprintSize]byte, error) {
	var fp [FingerprintSize]byte
	if len(pub) != PublicKeySize {
		return fp, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(pub), PublicKeySize)
	}

	sum, err := Sum(pub, FingerprintSize)
	if err != nil {
		return fp, err
	}
	copy(fp[:], sum)
	return fp, nil
}
