package address

import (
	"encoding/hex"
	"fmt"
	"strings"

	"Addrforge/digest"
)

// Kind is the 4-bit address type stored in the high nibble of the header.
type Kind uint8

// Network is the 4-bit network id stored in the low nibble of the header.
type Network uint8

const (
	// KindEnterpriseKey is a payment key hash with no staking part.
	KindEnterpriseKey Kind = 0b0110
	// KindEnterpriseScript is a payment script hash with no staking part.
	KindEnterpriseScript Kind = 0b0111
)

const (
	NetworkTestnet Network = 0
	NetworkMainnet Network = 1
)

const (
	HeaderSize      = 1
	FingerprintSize = digest.FingerprintSize
	PayloadSize     = HeaderSize + FingerprintSize
)

// Header packs a Kind and a Network into one byte: tttt nnnn.
type Header byte

// Fingerprint is the Blake2b-224 digest of a public key.
type Fingerprint [FingerprintSize]byte

// Payload is a Header followed by a Fingerprint.
type Payload [PayloadSize]byte

func (k Kind) String() string {
	switch k {
	case KindEnterpriseKey:
		return "enterprise-key"
	case KindEnterpriseScript:
		return "enterprise-script"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindEnterpriseKey || k == KindEnterpriseScript
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "enterprise-key", "enterprise", "key":
		return KindEnterpriseKey, nil
	case "enterprise-script", "script":
		return KindEnterpriseScript, nil
	}
	return 0, fmt.Errorf("%w: unknown address kind %q", ErrInvalidHeaderParameter, s)
}

func (n Network) String() string {
	switch n {
	case NetworkTestnet:
		return "testnet"
	case NetworkMainnet:
		return "mainnet"
	default:
		return fmt.Sprintf("network(%d)", uint8(n))
	}
}

// Valid reports whether n is a known network id.
func (n Network) Valid() bool {
	return n == NetworkTestnet || n == NetworkMainnet
}

// ParseNetwork maps a network name back to its Network.
func ParseNetwork(s string) (Network, error) {
	switch strings.ToLower(s) {
	case "testnet", "test", "preview", "preprod":
		return NetworkTestnet, nil
	case "mainnet", "main":
		return NetworkMainnet, nil
	}
	return 0, fmt.Errorf("%w: unknown network %q", ErrInvalidHeaderParameter, s)
}

// NewHeader packs kind and network, rejecting values outside the known sets.
func NewHeader(kind Kind, network Network) (Header, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("%w: address kind %d", ErrInvalidHeaderParameter, uint8(kind))
	}
	if !network.Valid() {
		return 0, fmt.Errorf("%w: network id %d", ErrInvalidHeaderParameter, uint8(network))
	}
	return Header(uint8(kind)<<4 | uint8(network)), nil
}

func (h Header) Kind() Kind {
	return Kind(h >> 4)
}

func (h Header) Network() Network {
	return Network(h & 0x0f)
}

// BuildPayload prepends the header for kind and network to fp.
func BuildPayload(kind Kind, network Network, fp Fingerprint) (Payload, error) {
	var p Payload
	h, err := NewHeader(kind, network)
	if err != nil {
		return p, err
	}
	p[0] = byte(h)
	copy(p[HeaderSize:], fp[:])
	return p, nil
}

// ParsePayload validates raw payload bytes and copies them into a Payload.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if len(data) != PayloadSize {
		return p, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPayload, len(data), PayloadSize)
	}
	h := Header(data[0])
	if _, err := NewHeader(h.Kind(), h.Network()); err != nil {
		return p, err
	}
	copy(p[:], data)
	return p, nil
}

func (p Payload) Header() Header {
	return Header(p[0])
}

func (p Payload) Fingerprint() Fingerprint {
	var fp Fingerprint
	copy(fp[:], p[HeaderSize:])
	return fp
}

func (p Payload) Bytes() []byte {
	b := make([]byte, PayloadSize)
	copy(b, p[:])
	return b
}

func (p Payload) Hex() string {
	return hex.EncodeToString(p[:])
}

func (fp Fingerprint) Bytes() []byte {
	b := make([]byte, FingerprintSize)
	copy(b, fp[:])
	return b
}

func (fp Fingerprint) Hex() string {
	return hex.EncodeToString(fp[:])
}
